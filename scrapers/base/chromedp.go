package base

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// ChromeRenderer renders pages in a headless Chrome driven over the DevTools
// protocol. Every call starts and closes its own browser.
type ChromeRenderer struct {
	Timeout   time.Duration
	UserAgent string
}

// NewChromeRenderer creates a ChromeRenderer bounded by timeout per page.
func NewChromeRenderer(timeout time.Duration, userAgent string) *ChromeRenderer {
	return &ChromeRenderer{Timeout: timeout, UserAgent: userAgent}
}

// Render navigates to url, waits until the main frame reports network idle and
// returns the outer HTML of the document.
func (c *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	// Set up browser options
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"), // Use new headless mode
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
	)
	if c.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.UserAgent))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	// Create a new browser context
	taskCtx, cancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			log.Debug().Msgf("CHROME: "+format, args...)
		}),
	)
	defer cancel()

	idle := waitNetworkIdle(taskCtx)

	headers := map[string]interface{}{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.5",
		"Upgrade-Insecure-Requests": "1",
	}

	var htmlContent string
	err := chromedp.Run(taskCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers(headers)),
		page.SetLifecycleEventsEnabled(true),
		idle.arm(),
		chromedp.Navigate(url),
		idle.wait(),
		chromedp.OuterHTML("html", &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp navigation error: %w", err)
	}
	return htmlContent, nil
}

// idleWatcher closes done on the first networkIdle lifecycle event of the
// main frame after it has been armed.
type idleWatcher struct {
	mainFrame atomic.Value // cdp.FrameID
	once      sync.Once
	done      chan struct{}
}

func waitNetworkIdle(ctx context.Context) *idleWatcher {
	w := &idleWatcher{done: make(chan struct{})}
	navigating := false
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		e, ok := ev.(*page.EventLifecycleEvent)
		if !ok {
			return
		}
		frame, _ := w.mainFrame.Load().(cdp.FrameID)
		if frame == "" || e.FrameID != frame {
			return
		}
		switch e.Name {
		case "init":
			navigating = true
		case "networkIdle":
			if navigating {
				w.once.Do(func() { close(w.done) })
			}
		}
	})
	return w
}

// arm records the main frame so events from the initial blank page are ignored.
func (w *idleWatcher) arm() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return fmt.Errorf("frame tree: %w", err)
		}
		w.mainFrame.Store(tree.Frame.ID)
		return nil
	}
}

func (w *idleWatcher) wait() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		select {
		case <-w.done:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("waiting for network idle: %w", ctx.Err())
		}
	}
}
