package boardgamegeek

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/raushankrgupta/boardgame-scraper/models"
)

const fullPage = `<!doctype html>
<html><body>
  <h1><span itemprop="name">
      Catan
  </span></h1>
  <ul class="ranks">
    <li><span class="rank-title ng-binding">Overall Rank</span></li>
    <li><span class="rank-title ng-binding"> Strategy </span></li>
    <li><span class="rank-title ng-binding">Family</span></li>
  </ul>
  <ul class="gameplay">
    <li class="gameplay-item">
      <p class="gameplay-item-primary mb-0"><span>3</span>&ndash;<span>4</span> Players</p>
      <div class="gameplay-item-secondary">Community: 3–4 — Best: 4</div>
    </li>
    <li class="gameplay-item">
      <p class="gameplay-item-primary mb-0"><span>60</span> Min</p>
      <div class="gameplay-item-secondary"> Playing Time </div>
    </li>
    <li class="gameplay-item">
      <p class="gameplay-item-primary mb-0">Weight: <span class="ng-binding gameplay-weight-medium">2.3</span> / 5</p>
      <div class="gameplay-item-secondary">Complexity Rating</div>
    </li>
  </ul>
  <span itemprop="description">A trading game</span>
  <span itemprop="ratingValue">7.2</span>
  <img itemprop="image" src="/cover.jpg">
</body></html>`

func mustDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func TestExtract_FullPage(t *testing.T) {
	rec := Extract(mustDoc(t, fullPage))

	want := map[string]string{
		"title":    "Catan",
		"genre":    "Strategy",
		"players":  "3 - 4",
		"playTime": "60 Min",
		"desc":     "A trading game",
		"weight":   "2.3",
		"rating":   "7.2",
	}
	got := map[string]*string{
		"title":    rec.Title,
		"genre":    rec.Genre,
		"players":  rec.Players,
		"playTime": rec.PlayTime,
		"desc":     rec.Desc,
		"weight":   rec.Weight,
		"rating":   rec.AverageRating,
	}
	for k, w := range want {
		if got[k] == nil {
			t.Errorf("%s: expected %q, got absent", k, w)
			continue
		}
		if *got[k] != w {
			t.Errorf("%s: expected %q, got %q", k, w, *got[k])
		}
	}
	if rec.ImageFile != nil {
		t.Errorf("Extract must not set the image file")
	}

	line := `Catan | Strategy | 3 - 4 Players | 60 Min | "A trading game" | weight: 2.3 | Rating: 7.2`
	if rec.Line() != line {
		t.Fatalf("line mismatch\n got: %q\nwant: %q", rec.Line(), line)
	}
}

func TestExtract_EmptyPage(t *testing.T) {
	rec := Extract(mustDoc(t, `<html><body><p>nothing here</p></body></html>`))
	if *rec != (models.GameRecord{}) {
		t.Fatalf("expected every field absent, got %+v", rec)
	}
}

func TestExtract_FieldIndependence(t *testing.T) {
	// Dropping one marker must only blank the matching field.
	cases := []struct {
		name   string
		remove string
		field  func(*models.GameRecord) *string
	}{
		{"title", `itemprop="name"`, func(r *models.GameRecord) *string { return r.Title }},
		{"desc", `itemprop="description"`, func(r *models.GameRecord) *string { return r.Desc }},
		{"rating", `itemprop="ratingValue"`, func(r *models.GameRecord) *string { return r.AverageRating }},
		{"weight", `gameplay-weight-medium`, func(r *models.GameRecord) *string { return r.Weight }},
		{"playTime", `Playing Time`, func(r *models.GameRecord) *string { return r.PlayTime }},
	}
	full := Extract(mustDoc(t, fullPage))
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := Extract(mustDoc(t, strings.Replace(fullPage, tc.remove, "x", 1)))
			if tc.field(rec) != nil {
				t.Fatalf("expected %s to be absent, got %q", tc.name, *tc.field(rec))
			}
			other := *rec
			switch tc.name {
			case "title":
				other.Title = full.Title
			case "desc":
				other.Desc = full.Desc
			case "rating":
				other.AverageRating = full.AverageRating
			case "weight":
				other.Weight = full.Weight
			case "playTime":
				other.PlayTime = full.PlayTime
			}
			if other.Line() != full.Line() {
				t.Fatalf("other fields changed:\n got: %q\nwant: %q", other.Line(), full.Line())
			}
		})
	}
}

func TestFormatRuns(t *testing.T) {
	cases := []struct {
		text   string
		suffix string
		want   *string
	}{
		{"2 to 4 players", "", models.String("2 - 4")},
		{"10", "", models.String("10")},
		{"2–4", "", models.String("2 - 4")},
		{"no numbers", "", nil},
		{"1 2 3", "", nil},
		{"30 - 45", " Min", models.String("30 - 45 Min")},
		{"90", " Min", models.String("90 Min")},
		{"", " Min", nil},
	}
	for _, tc := range cases {
		got := formatRuns(tc.text, tc.suffix)
		if (got == nil) != (tc.want == nil) {
			t.Errorf("formatRuns(%q): expected %v, got %v", tc.text, tc.want, got)
			continue
		}
		if got != nil && *got != *tc.want {
			t.Errorf("formatRuns(%q): expected %q, got %q", tc.text, *tc.want, *got)
		}
	}
}

func TestGenre_SecondLabelWins(t *testing.T) {
	label := func(s string) string { return `<span class="rank-title ng-binding">` + s + `</span>` }
	cases := []struct {
		labels []string
		want   *string
	}{
		{nil, nil},
		{[]string{"X"}, nil},
		{[]string{"X", "Y"}, models.String("Y")},
		{[]string{"X", "Y", "Z"}, models.String("Y")},
	}
	for _, tc := range cases {
		var b strings.Builder
		for _, l := range tc.labels {
			b.WriteString(label(l))
		}
		// A label without ng-binding must not count.
		b.WriteString(`<span class="rank-title">ignored</span>`)
		rec := Extract(mustDoc(t, "<html><body>"+b.String()+"</body></html>"))
		if (rec.Genre == nil) != (tc.want == nil) || (rec.Genre != nil && *rec.Genre != *tc.want) {
			t.Errorf("labels %v: expected %v, got %v", tc.labels, models.Value(tc.want), models.Value(rec.Genre))
		}
	}
}

func TestPlayTime_OnlyLabelledItemCounts(t *testing.T) {
	page := `<ul>
	  <li class="gameplay-item"><p class="gameplay-item-primary mb-0">2–5</p><div class="gameplay-item-secondary">Players</div></li>
	  <li class="gameplay-item"><p class="gameplay-item-primary mb-0">14+</p><div class="gameplay-item-secondary">Age</div></li>
	</ul>`
	if rec := Extract(mustDoc(t, page)); rec.PlayTime != nil {
		t.Fatalf("expected absent play time, got %q", *rec.PlayTime)
	}

	// Case-sensitive label match.
	lower := strings.Replace(page, "Age", "playing time", 1)
	if rec := Extract(mustDoc(t, lower)); rec.PlayTime != nil {
		t.Fatalf("expected case-sensitive match, got %q", *rec.PlayTime)
	}

	// First matching item wins even when a later one also matches.
	two := `<ul>
	  <li class="gameplay-item"><p class="gameplay-item-primary mb-0">30–60 Min</p><div class="gameplay-item-secondary">Playing Time</div></li>
	  <li class="gameplay-item"><p class="gameplay-item-primary mb-0">999</p><div class="gameplay-item-secondary">Playing Time</div></li>
	</ul>`
	rec := Extract(mustDoc(t, two))
	if rec.PlayTime == nil || *rec.PlayTime != "30 - 60 Min" {
		t.Fatalf("expected 30 - 60 Min, got %v", models.Value(rec.PlayTime))
	}

	// Matching item without a primary block yields nothing.
	noPrimary := `<ul><li class="gameplay-item"><div class="gameplay-item-secondary">Playing Time</div></li></ul>`
	if rec := Extract(mustDoc(t, noPrimary)); rec.PlayTime != nil {
		t.Fatalf("expected absent play time, got %q", *rec.PlayTime)
	}
}

func TestPlayers_UsesFirstPrimaryBlock(t *testing.T) {
	page := `<p class="gameplay-item-primary mb-0">1–2–3–4</p><p class="gameplay-item-primary mb-0">2</p>`
	if rec := Extract(mustDoc(t, page)); rec.Players != nil {
		t.Fatalf("expected absent players for four runs, got %q", *rec.Players)
	}

	// mb-0 is required on the block.
	page = `<p class="gameplay-item-primary">2</p>`
	if rec := Extract(mustDoc(t, page)); rec.Players != nil {
		t.Fatalf("expected absent players, got %q", *rec.Players)
	}
}

func TestStrippedText(t *testing.T) {
	doc := mustDoc(t, `<div id="d">  Hello <b> big </b><!-- note -->world <script>var x = 1;</script></div>`)
	sel := doc.Find("#d")
	if got := strippedText(sel, ""); got != "Hellobigworld" {
		t.Fatalf("expected Hellobigworld, got %q", got)
	}
	if got := strippedText(sel, " "); got != "Hello big world" {
		t.Fatalf("expected spaced text, got %q", got)
	}
}

func TestExtract_PresentButEmpty(t *testing.T) {
	rec := Extract(mustDoc(t, `<span itemprop="name">   </span>`))
	if rec.Title == nil {
		t.Fatalf("expected present title")
	}
	if *rec.Title != "" {
		t.Fatalf("expected empty title, got %q", *rec.Title)
	}
}
