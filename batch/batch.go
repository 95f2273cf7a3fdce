package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/raushankrgupta/boardgame-scraper/config"
	"github.com/raushankrgupta/boardgame-scraper/scrapers"
)

const maxLineBytes = 1 << 20

// Run scrapes every URL read from in, in order, and writes one line per URL
// to out as soon as it is extracted. Blank lines and lines starting with '#'
// are skipped and do not consume an image index. The first render or write
// error stops the run; it returns how many URLs were written before that.
func Run(ctx context.Context, s scrapers.Scraper, in io.Reader, out io.Writer) (int, error) {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	imgIndex := 0
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return imgIndex, err
		}

		idx := imgIndex
		rec, img, err := s.ScrapeGame(ctx, line, &idx)
		if err != nil {
			return imgIndex, fmt.Errorf("scrape %s: %w", line, err)
		}
		imgIndex++

		if img.Err != nil {
			log.Warn().Err(img.Err).Str("url", line).Int("index", idx).Msg("Failed to download image")
		}

		if _, err := io.WriteString(out, rec.Line()+"\n"); err != nil {
			return imgIndex - 1, fmt.Errorf("write output: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		return imgIndex, fmt.Errorf("read input: %w", err)
	}
	return imgIndex, nil
}

// RunFiles wires Run to the files named in cfg. The output file is truncated
// up front and the image directory is created before the first URL.
func RunFiles(ctx context.Context, s scrapers.Scraper, cfg *config.Config) (int, error) {
	in, err := os.Open(cfg.InputFile)
	if err != nil {
		return 0, fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(cfg.ImageDir, 0o755); err != nil {
		return 0, fmt.Errorf("create image dir: %w", err)
	}

	out, err := os.Create(cfg.OutputFile)
	if err != nil {
		return 0, fmt.Errorf("create output: %w", err)
	}

	n, runErr := Run(ctx, s, in, out)
	if err := out.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close output: %w", err)
	}
	log.Debug().Int("urls", n).Str("output", cfg.OutputFile).Msg("batch finished")
	return n, runErr
}
