package base

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// Renderer turns a listing URL into the page markup after scripts have run.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// HTTPStatusError means the server answered with a status other than 200.
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("status code error: %d %s (%s)", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// BaseScraper handles common scraping logic
type BaseScraper struct {
	Renderer Renderer
}

// NewBaseScraper creates a new BaseScraper instance
func NewBaseScraper(r Renderer) *BaseScraper {
	return &BaseScraper{Renderer: r}
}

// FetchDocument renders the URL and parses the markup into a GoQuery document.
// Render errors are returned unchanged in the chain so callers can abort.
func (b *BaseScraper) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	start := time.Now()
	html, err := b.Renderer.Render(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", url, err)
	}
	log.Debug().Str("url", url).Dur("took", time.Since(start)).Int("bytes", len(html)).Msg("page rendered")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}

// HTTPRenderer fetches markup with a plain GET. It does not run scripts, so it
// only suits pages that are complete as served.
type HTTPRenderer struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPRenderer creates an HTTPRenderer with the given request timeout.
func NewHTTPRenderer(timeout time.Duration, userAgent string) *HTTPRenderer {
	return &HTTPRenderer{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: userAgent,
	}
}

func (h *HTTPRenderer) Render(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	// Common headers to mimic a real browser
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", &HTTPStatusError{URL: url, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
