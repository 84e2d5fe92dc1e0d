package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/temoto/robotstxt"
)

// RobotsGate checks URLs against each host's robots.txt. Results are cached
// per host for the life of the gate.
type RobotsGate struct {
	client    *resty.Client
	userAgent string

	mu    sync.Mutex
	hosts map[string]*robotstxt.RobotsData
}

func NewRobotsGate(userAgent string, timeout time.Duration) *RobotsGate {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	if userAgent == "" {
		userAgent = "*"
	}
	return &RobotsGate{
		client:    client,
		userAgent: userAgent,
		hosts:     make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether the user agent may fetch rawURL. A robots.txt that
// cannot be fetched allows everything.
func (g *RobotsGate) Allowed(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false, fmt.Errorf("robots: bad url %q", rawURL)
	}

	data := g.load(ctx, u)
	if data == nil {
		return true, nil
	}
	return data.TestAgent(u.RequestURI(), g.userAgent), nil
}

func (g *RobotsGate) load(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	host := strings.ToLower(u.Host)

	g.mu.Lock()
	defer g.mu.Unlock()

	if data, ok := g.hosts[host]; ok {
		return data
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	res, err := g.client.R().SetContext(ctx).Get(robotsURL)
	if err != nil {
		g.hosts[host] = nil
		return nil
	}

	data, err := robotstxt.FromStatusAndBytes(res.StatusCode(), res.Body())
	if err != nil {
		data = nil
	}
	g.hosts[host] = data
	return data
}
