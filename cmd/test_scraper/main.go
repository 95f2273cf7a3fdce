package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/raushankrgupta/boardgame-scraper/config"
	"github.com/raushankrgupta/boardgame-scraper/scrapers"
)

// test_scraper renders the listing URLs given as arguments and prints each
// extracted record as JSON. Covers are not downloaded.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	urls := os.Args[1:]
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: test_scraper <listing-url>...")
		os.Exit(2)
	}

	cfg := config.LoadConfig()
	scraper, err := scrapers.GetScraper(cfg, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build scraper")
	}

	for _, u := range urls {
		fmt.Printf("Testing URL: %s\n", u)
		rec, _, err := scraper.ScrapeGame(context.Background(), u, nil)
		if err != nil {
			log.Error().Err(err).Str("url", u).Msg("Failed to scrape listing")
			continue
		}

		b, _ := json.MarshalIndent(rec, "", "  ")
		fmt.Printf("Record: %s\n", string(b))
		fmt.Printf("Line:   %s\n", rec.Line())
		fmt.Println("--------------------------------------------------")
	}
}
