// Package links finds author profile links and the next-page link on a
// search-results listing page.
//
// Both strategies read the same page shape:
//
//	<h3 class="gs_ai_name"><a href="/citations?hl=en&amp;user=ID">Name</a></h3>
//	<button onclick="window.location='/citations?...\x26after_author\x3d...'" type="button">
//
// Navigation targets carry JavaScript escapes for '=' (\x3d) and '&' (\x26).
// The forward button is the one whose target contains "after"; the backward
// button uses the same markup with "before".
package links

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ForwardToken marks the navigation target that pages forward.
const ForwardToken = "after"

var ErrNextPageNotFound = errors.New("next page link not found")

// Extractor pulls links out of a raw listing page. Returned links are
// site-relative; callers prefix them with the right host.
type Extractor interface {
	// AuthorLinks returns author profile hrefs in document order.
	AuthorLinks(page []byte) ([]string, error)
	// NextPage returns the decoded forward navigation target or
	// ErrNextPageNotFound.
	NextPage(page []byte) (string, error)
}

var navigationEscapes = strings.NewReplacer(`\x3d`, "=", `\x26`, "&")

// decodeNavigation turns a raw window.location assignment value into a path.
func decodeNavigation(raw string) string {
	s := html.UnescapeString(raw)
	s = navigationEscapes.Replace(s)
	s = strings.TrimLeft(s, `'" `)
	if i := strings.IndexAny(s, `'"`); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Join prefixes a site-relative path with host, keeping exactly one slash
// between them.
func Join(host, path string) string {
	return strings.TrimRight(host, "/") + "/" + strings.TrimLeft(path, "/")
}

// New returns the extractor registered under name ("regex" or "query").
func New(name string) (Extractor, error) {
	switch name {
	case "", "regex":
		return RegexExtractor{}, nil
	case "query":
		return QueryExtractor{}, nil
	default:
		return nil, fmt.Errorf("unknown link extractor %q", name)
	}
}
