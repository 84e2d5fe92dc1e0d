package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// PictureDownloader downloads binary profile pictures.
type PictureDownloader struct {
	client *resty.Client
}

func NewPictureDownloader(userAgent string, timeout time.Duration) *PictureDownloader {
	client := resty.New()
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &PictureDownloader{client: client}
}

func (d *PictureDownloader) Download(ctx context.Context, url string) ([]byte, error) {
	res, err := d.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	if res.IsError() {
		return nil, &StatusError{URL: url, Code: res.StatusCode()}
	}
	return res.Body(), nil
}
