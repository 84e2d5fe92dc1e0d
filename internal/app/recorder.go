package app

import (
	"context"

	"scholar_spider/internal/models"
)

// Recorder mirrors what the spider persisted. Failures are logged by the
// caller and never stop a run.
type Recorder interface {
	GetAuthor(ctx context.Context, id string) (*models.AuthorRecord, error)
	SaveAuthor(ctx context.Context, record *models.AuthorRecord) error
	SavePageVisit(ctx context.Context, visit *models.PageVisit) error
}

type NopRecorder struct{}

func (NopRecorder) GetAuthor(context.Context, string) (*models.AuthorRecord, error) { return nil, nil }

func (NopRecorder) SaveAuthor(context.Context, *models.AuthorRecord) error { return nil }

func (NopRecorder) SavePageVisit(context.Context, *models.PageVisit) error { return nil }
