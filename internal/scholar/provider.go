// Package scholar looks up author profiles and fills in their sections by
// scraping the public profile page.
package scholar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"sync"

	"scholar_spider/internal/fetcher"
	"scholar_spider/internal/links"
	"scholar_spider/internal/models"

	"github.com/PuerkitoBio/goquery"
)

type Section string

const (
	SectionBasics    Section = "basics"
	SectionIndices   Section = "indices"
	SectionCoAuthors Section = "coauthors"
	SectionCounts    Section = "counts"
)

// AllSections is what the spider fills for every author.
var AllSections = []Section{SectionBasics, SectionIndices, SectionCoAuthors, SectionCounts}

var ErrAuthorNotFound = errors.New("author not found")

// Provider fetches profile pages through a fetcher.Fetcher. The most recent
// page is kept so Lookup followed by Fill costs one request.
type Provider struct {
	fetcher fetcher.Fetcher
	baseURL string

	mu     sync.Mutex
	lastID string
	last   *goquery.Document
}

func NewProvider(f fetcher.Fetcher, baseURL string) *Provider {
	return &Provider{fetcher: f, baseURL: baseURL}
}

func (p *Provider) ProfileURL(id string) string {
	return links.Join(p.baseURL, "citations?hl=en&user="+url.QueryEscape(id))
}

// Lookup fetches the profile for id and fills its basics.
func (p *Provider) Lookup(ctx context.Context, id string) (*models.AuthorProfile, error) {
	doc, err := p.page(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := &models.AuthorProfile{ScholarID: id}
	parseBasics(doc, profile, p.baseURL)
	profile.Filled = append(profile.Filled, string(SectionBasics))
	return profile, nil
}

// Fill populates the requested sections of profile.
func (p *Provider) Fill(ctx context.Context, profile *models.AuthorProfile, sections ...Section) error {
	doc, err := p.page(ctx, profile.ScholarID)
	if err != nil {
		return err
	}

	for _, s := range sections {
		switch s {
		case SectionBasics:
			parseBasics(doc, profile, p.baseURL)
		case SectionIndices:
			parseIndices(doc, profile)
		case SectionCoAuthors:
			parseCoAuthors(doc, profile)
		case SectionCounts:
			parseCounts(doc, profile)
		default:
			return fmt.Errorf("unknown profile section %q", s)
		}
		if !slices.Contains(profile.Filled, string(s)) {
			profile.Filled = append(profile.Filled, string(s))
		}
	}
	return nil
}

func (p *Provider) page(ctx context.Context, id string) (*goquery.Document, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrAuthorNotFound)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.last != nil && p.lastID == id {
		return p.last, nil
	}

	body, err := p.fetcher.Fetch(ctx, p.ProfileURL(id))
	if err != nil {
		if fetcher.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrAuthorNotFound, id)
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", id, err)
	}
	if doc.Find(nameSelector).Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAuthorNotFound, id)
	}

	p.lastID, p.last = id, doc
	return doc, nil
}
