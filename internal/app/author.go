package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scholar_spider/internal/citations"
	"scholar_spider/internal/models"
	"scholar_spider/internal/scholar"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	PictureFile = "Author_picture.png"
	DataFile    = "Author_data.txt"
)

var (
	ErrNoCitations = errors.New("no citation data")
	ErrNoAuthorID  = errors.New("no author id in profile link")
)

type AuthorProvider interface {
	Lookup(ctx context.Context, id string) (*models.AuthorProfile, error)
	Fill(ctx context.Context, profile *models.AuthorProfile, sections ...scholar.Section) error
}

type PictureDownloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// AuthorExtractor saves one author as a folder holding the picture and a
// text summary.
type AuthorExtractor struct {
	provider AuthorProvider
	pictures PictureDownloader
	fs       afero.Fs
	recorder Recorder
	log      *zap.Logger
	marker   string
	now      func() time.Time
}

func NewAuthorExtractor(
	provider AuthorProvider,
	pictures PictureDownloader,
	fs afero.Fs,
	recorder Recorder,
	log *zap.Logger,
	marker string,
) *AuthorExtractor {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &AuthorExtractor{
		provider: provider,
		pictures: pictures,
		fs:       fs,
		recorder: recorder,
		log:      log,
		marker:   marker,
		now:      time.Now,
	}
}

// AuthorID returns the id that follows marker in link, up to the next query
// separator.
func AuthorID(link, marker string) (string, error) {
	_, id, ok := strings.Cut(link, marker)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoAuthorID, link)
	}
	if i := strings.IndexAny(id, "&#"); i >= 0 {
		id = id[:i]
	}
	if id == "" {
		return "", fmt.Errorf("%w: %s", ErrNoAuthorID, link)
	}
	return id, nil
}

var folderReplacer = strings.NewReplacer("/", "_", `\`, "_")

// folderName maps an author name to a single path element. Names made only
// of dots would resolve to root or its parent, so their dots become "_".
func folderName(name string) string {
	name = folderReplacer.Replace(strings.TrimSpace(name))
	if name != "" && strings.Trim(name, ".") == "" {
		name = strings.Repeat("_", len(name))
	}
	return name
}

// removeFolder deletes dir only when it is a direct child of root.
func (e *AuthorExtractor) removeFolder(dir, root string, log *zap.Logger) {
	if filepath.Dir(dir) != filepath.Clean(root) || filepath.Base(dir) == "." {
		log.Warn("refusing to remove folder outside output root", zap.String("dir", dir))
		return
	}
	if err := e.fs.RemoveAll(dir); err != nil {
		log.Warn("failed to remove author folder", zap.String("dir", dir), zap.Error(err))
	}
}

// Extract fetches the author behind profileLink and writes its folder under
// root. A nil error means the folder holds a complete Author_data.txt.
func (e *AuthorExtractor) Extract(ctx context.Context, profileLink, root string) error {
	id, err := AuthorID(profileLink, e.marker)
	if err != nil {
		return err
	}

	profile, err := e.provider.Lookup(ctx, id)
	if err != nil {
		return err
	}
	if err := e.provider.Fill(ctx, profile, scholar.AllSections...); err != nil {
		return err
	}
	if folderName(profile.Name) == "" {
		return fmt.Errorf("%w: %s has no name", scholar.ErrAuthorNotFound, id)
	}

	log := e.log.With(zap.String("author", profile.Name), zap.String("id", id))
	dir := filepath.Join(root, folderName(profile.Name))

	if err := e.createFolder(ctx, id, dir, log); err != nil {
		return err
	}

	hasPicture, err := e.savePicture(ctx, profile, dir, log)
	if err != nil {
		return err
	}

	if len(profile.CitesPerYear) == 0 {
		log.Info("no citations data, removing author")
		e.removeFolder(dir, root, log)
		return fmt.Errorf("%w: %s", ErrNoCitations, profile.Name)
	}

	stats := citations.Summarize(profile.CitesPerYear, e.now().Year())
	data := FormatAuthorData(profile, stats)
	if err := afero.WriteFile(e.fs, filepath.Join(dir, DataFile), []byte(data), 0o644); err != nil {
		e.removeFolder(dir, root, log)
		return fmt.Errorf("write author data: %w", err)
	}

	record := &models.AuthorRecord{
		ID:           id,
		Name:         profile.Name,
		Interests:    profile.Interests,
		CitedBy:      profile.CitedBy,
		CitedBy5y:    profile.CitedBy5y,
		HIndex:       profile.HIndex,
		HIndex5y:     profile.HIndex5y,
		I10Index:     profile.I10Index,
		I10Index5y:   profile.I10Index5y,
		CoAuthors:    profile.CoAuthors,
		CitesPerYear: profile.CitesPerYear,
		Stats:        stats,
		Directory:    dir,
		HasPicture:   hasPicture,
		ProfileURL:   profileLink,
		LastScraped:  e.now().Unix(),
	}
	if profile.Affiliation != nil {
		record.Affiliation = *profile.Affiliation
	}
	if err := e.recorder.SaveAuthor(ctx, record); err != nil {
		log.Warn("failed to record author", zap.Error(err))
	}

	log.Info("author saved", zap.String("dir", dir))
	return nil
}

// createFolder treats an existing folder as success.
func (e *AuthorExtractor) createFolder(ctx context.Context, id, dir string, log *zap.Logger) error {
	err := e.fs.Mkdir(dir, 0o755)
	switch {
	case err == nil:
		log.Info("author folder created", zap.String("dir", dir))
		return nil
	case errors.Is(err, os.ErrExist):
		log.Info("author folder already exists", zap.String("dir", dir))
		e.logPrevious(ctx, id, log)
		return nil
	default:
		return fmt.Errorf("create author folder: %w", err)
	}
}

// savePicture reports whether a picture was written. A profile without a
// picture is not an error.
func (e *AuthorExtractor) savePicture(ctx context.Context, profile *models.AuthorProfile, dir string, log *zap.Logger) (bool, error) {
	if profile.PictureURL == nil {
		log.Info("author has no picture")
		return false, nil
	}

	data, err := e.pictures.Download(ctx, *profile.PictureURL)
	if err != nil {
		return false, fmt.Errorf("download picture: %w", err)
	}
	if err := afero.WriteFile(e.fs, filepath.Join(dir, PictureFile), data, 0o644); err != nil {
		return false, fmt.Errorf("write picture: %w", err)
	}
	return true, nil
}

func (e *AuthorExtractor) logPrevious(ctx context.Context, id string, log *zap.Logger) {
	prev, err := e.recorder.GetAuthor(ctx, id)
	switch {
	case err != nil:
		log.Warn("failed to look up recorded author", zap.Error(err))
	case prev != nil:
		log.Info("author previously recorded",
			zap.Int("scraped_count", prev.ScrapedCount),
			zap.Time("last_scraped", time.Unix(prev.LastScraped, 0)),
		)
	}
}
