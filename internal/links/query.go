package links

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	authorAnchorSelector = ".gs_ai_name a[href]"
	navButtonSelector    = "button[onclick]"
	navAssignment        = "window.location="
)

// QueryExtractor walks the parsed document with CSS selectors instead of
// matching the raw markup.
type QueryExtractor struct{}

func parse(page []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}
	return doc, nil
}

func (QueryExtractor) AuthorLinks(page []byte) ([]string, error) {
	doc, err := parse(page)
	if err != nil {
		return nil, err
	}

	var hrefs []string
	doc.Find(authorAnchorSelector).Each(func(_ int, s *goquery.Selection) {
		hrefs = append(hrefs, s.AttrOr("href", ""))
	})
	return hrefs, nil
}

func (QueryExtractor) NextPage(page []byte) (string, error) {
	doc, err := parse(page)
	if err != nil {
		return "", err
	}

	next := ""
	doc.Find(navButtonSelector).Each(func(_ int, s *goquery.Selection) {
		onclick := s.AttrOr("onclick", "")
		_, target, ok := strings.Cut(onclick, navAssignment)
		if ok && strings.Contains(target, ForwardToken) {
			next = target
		}
	})
	if next == "" {
		return "", ErrNextPageNotFound
	}
	return decodeNavigation(next), nil
}
