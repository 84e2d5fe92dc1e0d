package app

import (
	"context"
	"errors"
	"fmt"

	"scholar_spider/internal/links"
	"scholar_spider/internal/scholar"

	"go.uber.org/zap"
)

type AuthorSaver interface {
	Extract(ctx context.Context, profileLink, root string) error
}

type PageResult struct {
	Links  int
	Saved  int
	Failed int
}

// PageExtractor saves every author linked from one listing page.
type PageExtractor struct {
	links   links.Extractor
	authors AuthorSaver
	baseURL string
	log     *zap.Logger
}

func NewPageExtractor(ext links.Extractor, authors AuthorSaver, baseURL string, log *zap.Logger) *PageExtractor {
	return &PageExtractor{links: ext, authors: authors, baseURL: baseURL, log: log}
}

// AuthorLinks returns absolute profile links in page order.
func (p *PageExtractor) AuthorLinks(page []byte) ([]string, error) {
	hrefs, err := p.links.AuthorLinks(page)
	if err != nil {
		return nil, err
	}
	profiles := make([]string, len(hrefs))
	for i, href := range hrefs {
		profiles[i] = links.Join(p.baseURL, href)
	}
	return profiles, nil
}

// Extract processes authors in order. An author failure is logged and the
// next author is tried.
func (p *PageExtractor) Extract(ctx context.Context, page []byte, root string) (PageResult, error) {
	profiles, err := p.AuthorLinks(page)
	if err != nil {
		return PageResult{}, fmt.Errorf("extract author links: %w", err)
	}

	result := PageResult{Links: len(profiles)}
	for _, link := range profiles {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := p.authors.Extract(ctx, link, root)
		switch {
		case err == nil:
			result.Saved++
		case errors.Is(err, scholar.ErrAuthorNotFound):
			result.Failed++
			p.log.Warn("author not found", zap.String("link", link), zap.Error(err))
		case errors.Is(err, ErrNoCitations):
			result.Failed++
		default:
			result.Failed++
			p.log.Warn("there was a problem with author", zap.String("link", link), zap.Error(err))
		}
	}
	return result, nil
}
