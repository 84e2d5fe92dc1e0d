package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"scholar_spider/internal/links"
	"scholar_spider/internal/scholar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testBase = "https://scholar.example.com/"
	testNav  = "https://nav.example.com"
)

// listing renders a page with the given author ids and, when after is not
// empty, a forward button to after_author=<after>.
func listing(after string, ids ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	for _, id := range ids {
		fmt.Fprintf(&b, `<h3 class="gs_ai_name"><a href="/citations?hl=en&amp;user=%s">%s</a></h3>`+"\n", id, id)
	}
	b.WriteString(`<button onclick="window.location='/citations?view_op\x3dsearch_authors\x26before_author\x3dprev'" type="button">Prev</button>` + "\n")
	if after != "" {
		fmt.Fprintf(&b, `<button onclick="window.location='/citations?view_op\x3dsearch_authors\x26after_author\x3d%s'" type="button">Next</button>`+"\n", after)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func pageURL(after string) string {
	return testNav + "/citations?view_op=search_authors&after_author=" + after
}

type fakeFetcher struct {
	pages   map[string]string
	fetched []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.fetched = append(f.fetched, url)
	page, ok := f.pages[url]
	if !ok {
		return nil, fmt.Errorf("connection refused: %s", url)
	}
	return []byte(page), nil
}

type recordingSaver struct {
	links []string
	fail  map[string]error
}

func (s *recordingSaver) Extract(_ context.Context, link, _ string) error {
	s.links = append(s.links, link)
	for id, err := range s.fail {
		if strings.HasSuffix(link, "user="+id) {
			return err
		}
	}
	return nil
}

func newTestPaginator(t *testing.T, pages map[string]string, saver *recordingSaver) (*Paginator, *fakeFetcher, *memRecorder) {
	t.Helper()

	f := &fakeFetcher{pages: pages}
	rec := &memRecorder{}
	ext := links.RegexExtractor{}
	pe := NewPageExtractor(ext, saver, testBase, zap.NewNop())
	return NewPaginator(f, ext, pe, testNav, rec, zap.NewNop()), f, rec
}

// chain builds n+1 linked pages starting at start: p0 -> p1 -> ... each with
// two authors.
func chain(start string, n int) map[string]string {
	pages := map[string]string{}
	url := start
	for i := 0; i <= n; i++ {
		after := fmt.Sprintf("p%d", i+1)
		pages[url] = listing(after, fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i))
		url = pageURL(after)
	}
	return pages
}

func TestPageExtractorYieldsLinksInOrder(t *testing.T) {
	saver := &recordingSaver{}
	pe := NewPageExtractor(links.RegexExtractor{}, saver, testBase, zap.NewNop())

	result, err := pe.Extract(context.Background(), []byte(listing("", "x1", "x2", "x3")), "/out")
	require.NoError(t, err)

	assert.Equal(t, PageResult{Links: 3, Saved: 3}, result)
	assert.Equal(t, []string{
		"https://scholar.example.com/citations?hl=en&user=x1",
		"https://scholar.example.com/citations?hl=en&user=x2",
		"https://scholar.example.com/citations?hl=en&user=x3",
	}, saver.links)
}

func TestPageExtractorContinuesAfterFailures(t *testing.T) {
	saver := &recordingSaver{fail: map[string]error{
		"x1": scholar.ErrAuthorNotFound,
		"x2": ErrNoCitations,
		"x3": errors.New("boom"),
	}}
	pe := NewPageExtractor(links.RegexExtractor{}, saver, testBase, zap.NewNop())

	result, err := pe.Extract(context.Background(), []byte(listing("", "x1", "x2", "x3", "x4")), "/out")
	require.NoError(t, err)

	assert.Equal(t, PageResult{Links: 4, Saved: 1, Failed: 3}, result)
	assert.Len(t, saver.links, 4)
}

func TestPaginatorSkipThenLoad(t *testing.T) {
	start := testNav + "/citations?start"
	saver := &recordingSaver{}
	p, f, rec := newTestPaginator(t, chain(start, 6), saver)

	stats, err := p.Run(context.Background(), start, 2, 3, "/out")
	require.NoError(t, err)

	assert.Equal(t, []string{start, pageURL("p1"), pageURL("p2"), pageURL("p3"), pageURL("p4")}, f.fetched)
	assert.Equal(t, Stats{PagesFetched: 5, PagesSkipped: 2, PagesLoaded: 3, AuthorsSaved: 6}, stats)

	// authors from the two skipped pages are never touched
	for _, link := range saver.links {
		assert.NotContains(t, link, "user=a0")
		assert.NotContains(t, link, "user=a1")
	}
	assert.Equal(t, "https://scholar.example.com/citations?hl=en&user=a2", saver.links[0])

	require.Len(t, rec.pages, 5)
	assert.Equal(t, PhaseSkip, rec.pages[0].Phase)
	assert.Equal(t, PhaseLoad, rec.pages[2].Phase)
	assert.Equal(t, 2, rec.pages[2].AuthorLinks)
}

func TestPaginatorNoSkip(t *testing.T) {
	start := testNav + "/citations?start"
	p, f, _ := newTestPaginator(t, chain(start, 2), &recordingSaver{})

	stats, err := p.Run(context.Background(), start, 0, 2, "/out")
	require.NoError(t, err)
	assert.Len(t, f.fetched, 2)
	assert.Equal(t, 4, stats.AuthorsSaved)
}

func TestPaginatorMissingNextPageIsFatal(t *testing.T) {
	start := testNav + "/citations?start"
	pages := map[string]string{
		start:         listing("p1", "a0"),
		pageURL("p1"): listing("", "a1"),
	}
	saver := &recordingSaver{}
	p, f, _ := newTestPaginator(t, pages, saver)

	stats, err := p.Run(context.Background(), start, 0, 5, "/out")
	require.ErrorIs(t, err, links.ErrNextPageNotFound)
	assert.Len(t, f.fetched, 2)
	assert.Equal(t, 2, stats.AuthorsSaved)
	assert.Equal(t, 1, stats.PagesLoaded)
}

func TestPaginatorMissingNextPageDuringSkip(t *testing.T) {
	start := testNav + "/citations?start"
	p, _, _ := newTestPaginator(t, map[string]string{start: listing("", "a0")}, &recordingSaver{})

	_, err := p.Run(context.Background(), start, 1, 1, "/out")
	require.ErrorIs(t, err, links.ErrNextPageNotFound)
}

func TestPaginatorFetchFailureIsFatal(t *testing.T) {
	start := testNav + "/citations?start"
	p, f, _ := newTestPaginator(t, map[string]string{start: listing("p1", "a0")}, &recordingSaver{})

	stats, err := p.Run(context.Background(), start, 0, 3, "/out")
	require.Error(t, err)
	assert.Len(t, f.fetched, 2)
	assert.Equal(t, 1, stats.PagesFetched)
}

func TestNextPageResolvesAgainstNavigationHost(t *testing.T) {
	p, _, _ := newTestPaginator(t, nil, &recordingSaver{})

	next, err := p.NextPage([]byte(listing("XYZ", "a0")))
	require.NoError(t, err)
	assert.Equal(t, pageURL("XYZ"), next)

	_, err = p.NextPage([]byte(listing("", "a0")))
	require.ErrorIs(t, err, links.ErrNextPageNotFound)
}
