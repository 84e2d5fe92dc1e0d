package app

import (
	"context"
	"fmt"

	"scholar_spider/internal/config"
	"scholar_spider/internal/db"
	"scholar_spider/internal/fetcher"
	"scholar_spider/internal/links"
	"scholar_spider/internal/scholar"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// SpiderApp wires the fetcher, extractors and optional Mongo mirror for one run.
type SpiderApp struct {
	config    *config.SpiderConfig
	db        *db.MongoDB
	fs        afero.Fs
	paginator *Paginator
	log       *zap.Logger
}

func NewSpiderApp(cfg *config.SpiderConfig, log *zap.Logger) (*SpiderApp, error) {
	var robots *fetcher.RobotsGate
	if cfg.Logic.RespectRobots {
		robots = fetcher.NewRobotsGate(cfg.Logic.UserAgent, cfg.Logic.Timeout())
	}

	pageFetcher, err := fetcher.NewPageFetcher(fetcher.Options{
		UserAgent: cfg.Logic.UserAgent,
		Timeout:   cfg.Logic.Timeout(),
		Delay:     cfg.Logic.Delay(),
		Robots:    robots,
	})
	if err != nil {
		return nil, err
	}

	ext, err := links.New(cfg.Logic.Extractor)
	if err != nil {
		return nil, err
	}

	var recorder Recorder = NopRecorder{}
	var mongoDB *db.MongoDB
	if cfg.DB.Enabled() {
		mongoDB, err = db.NewMongoDB(cfg.DB)
		if err != nil {
			return nil, err
		}
		recorder = mongoDB
	}

	return newSpiderApp(cfg, log, afero.NewOsFs(), pageFetcher, ext,
		scholar.NewProvider(pageFetcher, cfg.Scholar.BaseURL),
		fetcher.NewPictureDownloader(cfg.Logic.UserAgent, cfg.Logic.Timeout()),
		recorder, mongoDB), nil
}

func newSpiderApp(
	cfg *config.SpiderConfig,
	log *zap.Logger,
	fs afero.Fs,
	f fetcher.Fetcher,
	ext links.Extractor,
	provider AuthorProvider,
	pictures PictureDownloader,
	recorder Recorder,
	mongoDB *db.MongoDB,
) *SpiderApp {
	authors := NewAuthorExtractor(provider, pictures, fs, recorder, log, cfg.Scholar.AuthorMarker)
	pages := NewPageExtractor(ext, authors, cfg.Scholar.BaseURL, log)

	return &SpiderApp{
		config:    cfg,
		db:        mongoDB,
		fs:        fs,
		paginator: NewPaginator(f, ext, pages, cfg.Scholar.NavigationHost, recorder, log),
		log:       log,
	}
}

// Run traverses the configured pages and closes the Mongo mirror when done.
func (s *SpiderApp) Run(ctx context.Context) (stats Stats, err error) {
	if s.db != nil {
		defer func() {
			if cerr := s.db.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}

	run := s.config.Run
	if err := s.fs.MkdirAll(run.OutputDir, 0o755); err != nil {
		return stats, fmt.Errorf("create output dir: %w", err)
	}

	s.log.Info("starting spider",
		zap.String("label_url", run.LabelURL),
		zap.Int("skip", run.Skip),
		zap.Int("pages", run.Pages),
		zap.String("output_dir", run.OutputDir),
	)

	stats, err = s.paginator.Run(ctx, run.LabelURL, run.Skip, run.Pages, run.OutputDir)

	s.log.Info("spider finished",
		zap.Int("pages_fetched", stats.PagesFetched),
		zap.Int("authors_saved", stats.AuthorsSaved),
		zap.Int("authors_failed", stats.AuthorsFailed),
	)
	return stats, err
}
