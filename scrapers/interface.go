package scrapers

import (
	"context"

	"github.com/raushankrgupta/boardgame-scraper/models"
)

// Scraper defines what the batch driver needs from a listing scraper
type Scraper interface {
	// ScrapeGame renders the listing at url and extracts its record. imgIndex
	// nil skips the cover download. The error is set only for render failures.
	ScrapeGame(ctx context.Context, url string, imgIndex *int) (*models.GameRecord, models.ImageResult, error)
}
