package links

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	reAuthorName = regexp.MustCompile(`gs_ai_name"><a href="(.+?)">`)
	reNextPage   = regexp.MustCompile(`window.location=(.+?)type="button"`)
)

// RegexExtractor searches the stringified page with fixed patterns.
type RegexExtractor struct{}

func (RegexExtractor) AuthorLinks(page []byte) ([]string, error) {
	matches := reAuthorName.FindAllSubmatch(page, -1)
	hrefs := make([]string, 0, len(matches))
	for _, m := range matches {
		hrefs = append(hrefs, html.UnescapeString(string(m[1])))
	}
	return hrefs, nil
}

// NextPage picks the last match carrying the forward token.
func (RegexExtractor) NextPage(page []byte) (string, error) {
	next := ""
	for _, m := range reNextPage.FindAllSubmatch(page, -1) {
		if strings.Contains(string(m[1]), ForwardToken) {
			next = string(m[1])
		}
	}
	if next == "" {
		return "", ErrNextPageNotFound
	}
	return decodeNavigation(next), nil
}
