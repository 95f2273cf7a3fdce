package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Downloader fetches cover images. Timeout zero leaves requests unbounded.
type Downloader struct {
	Client    *http.Client
	UserAgent string
}

// NewDownloader creates a Downloader with the given per-request timeout.
func NewDownloader(timeout time.Duration, userAgent string) *Downloader {
	return &Downloader{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

// StatusError is returned when the image server does not answer 200.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status: %s (%s)", e.Status, e.URL)
}

// Fetch downloads url and returns the body. Only 200 counts as success.
func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if d.UserAgent != "" {
		req.Header.Set("User-Agent", d.UserAgent)
	}

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, Status: resp.Status, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	return body, nil
}
