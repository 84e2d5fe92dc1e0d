// Package fetcher retrieves listing pages, profile pages and pictures.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gocolly/colly"
	"github.com/gocolly/colly/extensions"
)

const (
	bodyKey   = "body"
	statusKey = "status"
)

var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.Code)
}

// IsNotFound reports whether err is a 404 StatusError.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Fetcher returns the raw body of an HTML page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type Options struct {
	UserAgent string
	Timeout   time.Duration
	Delay     time.Duration
	Robots    *RobotsGate
}

// PageFetcher fetches pages one at a time through a synchronous colly collector.
type PageFetcher struct {
	collector *colly.Collector
	robots    *RobotsGate
}

func NewPageFetcher(opts Options) (*PageFetcher, error) {
	c := colly.NewCollector(colly.AllowURLRevisit())
	c.DetectCharset = true

	if opts.UserAgent != "" {
		c.UserAgent = opts.UserAgent
	} else {
		extensions.RandomUserAgent(c)
	}
	if opts.Timeout > 0 {
		c.SetRequestTimeout(opts.Timeout)
	}
	if opts.Delay > 0 {
		err := c.Limit(&colly.LimitRule{
			DomainGlob: "*",
			Delay:      opts.Delay,
		})
		if err != nil {
			return nil, fmt.Errorf("set limit rule: %w", err)
		}
	}

	c.OnResponse(func(r *colly.Response) {
		r.Ctx.Put(bodyKey, r.Body)
	})
	c.OnError(func(r *colly.Response, _ error) {
		if r != nil && r.Ctx != nil && r.StatusCode != 0 {
			r.Ctx.Put(statusKey, r.StatusCode)
		}
	})

	return &PageFetcher{collector: c, robots: opts.Robots}, nil
}

func (f *PageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if f.robots != nil {
		allowed, err := f.robots.Allowed(ctx, url)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, fmt.Errorf("%w: %s", ErrRobotsDisallowed, url)
		}
	}

	reqCtx := colly.NewContext()
	if err := f.collector.Request(http.MethodGet, url, nil, reqCtx, nil); err != nil {
		if code, ok := reqCtx.GetAny(statusKey).(int); ok {
			return nil, &StatusError{URL: url, Code: code}
		}
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	body, _ := reqCtx.GetAny(bodyKey).([]byte)
	return body, nil
}
