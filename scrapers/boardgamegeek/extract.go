package boardgamegeek

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/raushankrgupta/boardgame-scraper/models"
)

// Selectors for the listing layout.
const (
	selTitle       = "span[itemprop='name']"
	selGenre       = "span.rank-title.ng-binding"
	selStatPrimary = "p.gameplay-item-primary.mb-0"
	selStatItem    = "li.gameplay-item"
	selStatLabel   = "div.gameplay-item-secondary"
	selDesc        = "span[itemprop='description']"
	selWeight      = "span.ng-binding[class*='gameplay-weight']"
	selRating      = "span[itemprop='ratingValue']"
	selImage       = "img[itemprop='image']"

	playingTimeLabel = "Playing Time"
)

var digitRun = regexp.MustCompile(`\p{Nd}+`)

// Extract reads every field from a rendered listing page. Each field is
// looked up on its own; a miss leaves only that field nil.
func Extract(doc *goquery.Document) *models.GameRecord {
	return &models.GameRecord{
		Title:         firstText(doc.Selection, selTitle),
		Genre:         genre(doc.Selection),
		Players:       players(doc.Selection),
		PlayTime:      playTime(doc.Selection),
		Desc:          firstText(doc.Selection, selDesc),
		Weight:        firstText(doc.Selection, selWeight),
		AverageRating: firstText(doc.Selection, selRating),
	}
}

// genre takes the second rank label; the first one on the page is the
// overall category.
func genre(root *goquery.Selection) *string {
	labels := root.Find(selGenre)
	if labels.Length() < 2 {
		return nil
	}
	return models.String(strippedText(labels.Eq(1), ""))
}

func players(root *goquery.Selection) *string {
	primary := root.Find(selStatPrimary).First()
	if primary.Length() == 0 {
		return nil
	}
	return formatRuns(strippedText(primary, " "), "")
}

// playTime uses the first stat item whose label mentions the playing time.
func playTime(root *goquery.Selection) *string {
	var item *goquery.Selection
	root.Find(selStatItem).EachWithBreak(func(_ int, li *goquery.Selection) bool {
		label := li.Find(selStatLabel).First()
		if label.Length() > 0 && strings.Contains(strippedText(label, ""), playingTimeLabel) {
			item = li
			return false
		}
		return true
	})
	if item == nil {
		return nil
	}
	primary := item.Find(selStatPrimary).First()
	if primary.Length() == 0 {
		return nil
	}
	return formatRuns(strippedText(primary, " "), " Min")
}

// formatRuns renders "A - B" for two digit runs and "A" for one, followed by
// suffix. Any other count yields nil.
func formatRuns(text, suffix string) *string {
	runs := digitRun.FindAllString(text, -1)
	switch len(runs) {
	case 2:
		return models.String(runs[0] + " - " + runs[1] + suffix)
	case 1:
		return models.String(runs[0] + suffix)
	default:
		return nil
	}
}

func firstText(root *goquery.Selection, selector string) *string {
	sel := root.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return models.String(strippedText(sel, ""))
}

// strippedText trims every text node under s, drops the empty ones and joins
// the rest with sep.
func strippedText(s *goquery.Selection, sep string) string {
	var parts []string
	for _, n := range s.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, sep)
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	case html.CommentNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}
