package boardgamegeek

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/raushankrgupta/boardgame-scraper/models"
	"github.com/raushankrgupta/boardgame-scraper/scrapers/base"
	"github.com/raushankrgupta/boardgame-scraper/utils"
)

// errBadSource is reported when the cover src cannot be parsed as a URL.
var errBadSource = errors.New("invalid cover image src")

type BoardGameScraper struct {
	*base.BaseScraper
	Images   *utils.Downloader
	ImageDir string
	Mirror   *utils.ImageMirror // optional
}

func NewBoardGameScraper(r base.Renderer, images *utils.Downloader, imageDir string) *BoardGameScraper {
	return &BoardGameScraper{
		BaseScraper: base.NewBaseScraper(r),
		Images:      images,
		ImageDir:    imageDir,
	}
}

// ScrapeGame renders pageURL and extracts its record. When imgIndex is not
// nil the cover is saved as {ImageDir}/{imgIndex}.png; the outcome of that
// step is reported in the ImageResult and never as the returned error. The
// error is non-nil only when the page could not be rendered.
func (s *BoardGameScraper) ScrapeGame(ctx context.Context, pageURL string, imgIndex *int) (*models.GameRecord, models.ImageResult, error) {
	doc, err := s.FetchDocument(ctx, pageURL)
	if err != nil {
		return nil, models.ImageResult{}, err
	}

	rec := Extract(doc)

	var img models.ImageResult
	if imgIndex != nil {
		img = s.SaveCover(ctx, doc, pageURL, *imgIndex)
		if img.OK() {
			rec.ImageFile = models.String(img.Path)
		}
	}

	log.Info().Str("url", pageURL).Msgf("✅ %s", titleForLog(rec.Title))
	return rec, img, nil
}

// SaveCover downloads the cover image of doc and stores it as PNG.
// A page without a cover tag yields a zero ImageResult.
func (s *BoardGameScraper) SaveCover(ctx context.Context, doc *goquery.Document, pageURL string, index int) models.ImageResult {
	tag := doc.Find(selImage).First()
	if tag.Length() == 0 {
		return models.ImageResult{}
	}
	src, ok := tag.Attr("src")
	if !ok || src == "" {
		return models.ImageResult{}
	}

	imgURL, err := resolve(pageURL, src)
	if err != nil {
		return models.ImageResult{Err: fmt.Errorf("%w: %v", errBadSource, err)}
	}

	data, err := s.Images.Fetch(ctx, imgURL)
	if err != nil {
		return models.ImageResult{Err: err}
	}

	path, err := utils.SavePNG(s.ImageDir, fmt.Sprintf("%d.png", index), data)
	if err != nil {
		return models.ImageResult{Err: err}
	}

	if s.Mirror != nil {
		if key, err := s.Mirror.UploadFile(ctx, path); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("cover mirror upload failed")
		} else {
			log.Debug().Str("key", key).Msg("cover mirrored")
		}
	}
	return models.ImageResult{Path: path}
}

// resolve makes src absolute against the page it was found on.
func resolve(pageURL, src string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	page, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	return page.ResolveReference(ref).String(), nil
}

func titleForLog(title *string) string {
	if title == nil {
		return "None"
	}
	return *title
}
