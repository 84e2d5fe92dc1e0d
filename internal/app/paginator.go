package app

import (
	"context"
	"fmt"
	"time"

	"scholar_spider/internal/fetcher"
	"scholar_spider/internal/links"
	"scholar_spider/internal/models"

	"go.uber.org/zap"
)

const (
	PhaseSkip = "skip"
	PhaseLoad = "load"
)

type Stats struct {
	PagesFetched  int
	PagesSkipped  int
	PagesLoaded   int
	AuthorsSaved  int
	AuthorsFailed int
}

// Paginator walks listing pages by following the forward navigation link.
type Paginator struct {
	fetcher  fetcher.Fetcher
	links    links.Extractor
	pages    *PageExtractor
	navHost  string
	recorder Recorder
	log      *zap.Logger
}

func NewPaginator(
	f fetcher.Fetcher,
	ext links.Extractor,
	pages *PageExtractor,
	navHost string,
	recorder Recorder,
	log *zap.Logger,
) *Paginator {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &Paginator{
		fetcher:  f,
		links:    ext,
		pages:    pages,
		navHost:  navHost,
		recorder: recorder,
		log:      log,
	}
}

// NextPage resolves the absolute URL of the page after this one.
func (p *Paginator) NextPage(page []byte) (string, error) {
	next, err := p.links.NextPage(page)
	if err != nil {
		return "", err
	}
	return links.Join(p.navHost, next), nil
}

// Run fetches skip pages without processing them, then loads pages pages.
// Exactly skip+pages pages are fetched unless an error ends the run; any
// page fetch or next-link failure is returned.
func (p *Paginator) Run(ctx context.Context, startURL string, skip, pages int, root string) (Stats, error) {
	var stats Stats
	url := startURL

	for i := 0; i < skip; i++ {
		p.log.Info("currently skipping page", zap.Int("page", i+1))

		body, err := p.fetch(ctx, url, &stats)
		if err != nil {
			return stats, err
		}
		next, err := p.NextPage(body)
		if err != nil {
			return stats, fmt.Errorf("skip page %d (%s): %w", i+1, url, err)
		}

		stats.PagesSkipped++
		p.record(ctx, &models.PageVisit{URL: url, Phase: PhaseSkip, Number: i + 1, NextURL: next})
		url = next
	}

	for i := 0; i < pages; i++ {
		p.log.Info("currently scraping page", zap.Int("page", i+1))

		body, err := p.fetch(ctx, url, &stats)
		if err != nil {
			return stats, err
		}

		result, err := p.pages.Extract(ctx, body, root)
		stats.AuthorsSaved += result.Saved
		stats.AuthorsFailed += result.Failed
		if err != nil {
			return stats, fmt.Errorf("load page %d (%s): %w", i+1, url, err)
		}
		p.log.Info("page done",
			zap.Int("page", i+1),
			zap.Int("authors", result.Links),
			zap.Int("saved", result.Saved),
			zap.Int("failed", result.Failed),
		)

		next, err := p.NextPage(body)
		if err != nil {
			return stats, fmt.Errorf("load page %d (%s): %w", i+1, url, err)
		}

		stats.PagesLoaded++
		p.record(ctx, &models.PageVisit{
			URL:         url,
			Phase:       PhaseLoad,
			Number:      i + 1,
			AuthorLinks: result.Links,
			Saved:       result.Saved,
			Failed:      result.Failed,
			NextURL:     next,
		})
		url = next
	}

	return stats, nil
}

func (p *Paginator) fetch(ctx context.Context, url string, stats *Stats) ([]byte, error) {
	body, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}
	stats.PagesFetched++
	return body, nil
}

func (p *Paginator) record(ctx context.Context, visit *models.PageVisit) {
	visit.Timestamp = time.Now().Unix()
	if err := p.recorder.SavePageVisit(ctx, visit); err != nil {
		p.log.Warn("failed to record page visit", zap.String("url", visit.URL), zap.Error(err))
	}
}
