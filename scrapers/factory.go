package scrapers

import (
	"fmt"

	"github.com/raushankrgupta/boardgame-scraper/config"
	"github.com/raushankrgupta/boardgame-scraper/scrapers/base"
	"github.com/raushankrgupta/boardgame-scraper/scrapers/boardgamegeek"
	"github.com/raushankrgupta/boardgame-scraper/utils"
)

// Renderer backends accepted in config.Renderer.
const (
	RendererChromeDP = "chromedp"
	RendererSelenium = "selenium"
	RendererHTTP     = "http"
)

// NewRenderer returns the page renderer named by cfg.Renderer.
func NewRenderer(cfg *config.Config) (base.Renderer, error) {
	switch cfg.Renderer {
	case RendererChromeDP, "":
		return base.NewChromeRenderer(cfg.RenderTimeout, cfg.UserAgent), nil
	case RendererSelenium:
		return base.NewSeleniumRenderer(cfg.ChromeDriverPath, cfg.RenderTimeout, cfg.UserAgent), nil
	case RendererHTTP:
		return base.NewHTTPRenderer(cfg.RenderTimeout, cfg.UserAgent), nil
	default:
		return nil, fmt.Errorf("unknown renderer %q (want %s, %s or %s)", cfg.Renderer, RendererChromeDP, RendererSelenium, RendererHTTP)
	}
}

// GetScraper builds the listing scraper for cfg. mirror may be nil.
func GetScraper(cfg *config.Config, mirror *utils.ImageMirror) (Scraper, error) {
	r, err := NewRenderer(cfg)
	if err != nil {
		return nil, err
	}
	s := boardgamegeek.NewBoardGameScraper(r, utils.NewDownloader(cfg.ImageTimeout, cfg.UserAgent), cfg.ImageDir)
	s.Mirror = mirror
	return s, nil
}
