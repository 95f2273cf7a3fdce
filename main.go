package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/raushankrgupta/boardgame-scraper/batch"
	"github.com/raushankrgupta/boardgame-scraper/config"
	"github.com/raushankrgupta/boardgame-scraper/scrapers"
	"github.com/raushankrgupta/boardgame-scraper/utils"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.LoadConfig()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var mirror *utils.ImageMirror
	if cfg.AWSBucketName != "" {
		m, err := utils.NewImageMirror(ctx, cfg.AWSRegion, cfg.AWSBucketName, cfg.AWSPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize S3 image mirror")
		}
		mirror = m
	}

	scraper, err := scrapers.GetScraper(cfg, mirror)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build scraper")
	}

	log.Info().
		Str("input", cfg.InputFile).
		Str("output", cfg.OutputFile).
		Str("renderer", cfg.Renderer).
		Msg("Starting batch")

	if _, err := batch.RunFiles(ctx, scraper, cfg); err != nil {
		log.Fatal().Err(err).Msg("Batch aborted")
	}
}
