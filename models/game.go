package models

import "fmt"

// GameRecord represents the details extracted from one listing page.
// A nil field means the value was not found on the page.
type GameRecord struct {
	Title         *string `json:"title"`
	Genre         *string `json:"genre"`
	Players       *string `json:"players"`
	PlayTime      *string `json:"play_time"`
	Desc          *string `json:"desc"`
	Weight        *string `json:"weight"`
	AverageRating *string `json:"average_rating"`
	ImageFile     *string `json:"image_file"` // Local path of the saved cover
}

// Line formats the record as one output line. Absent fields become empty
// slots; the separators are always present.
func (g *GameRecord) Line() string {
	return fmt.Sprintf("%s | %s | %s Players | %s | \"%s\" | weight: %s | Rating: %s",
		Value(g.Title),
		Value(g.Genre),
		Value(g.Players),
		Value(g.PlayTime),
		Value(g.Desc),
		Value(g.Weight),
		Value(g.AverageRating),
	)
}

// ImageResult is the outcome of the best-effort cover download.
type ImageResult struct {
	Path string // set on success
	Err  error  // set on failure; never fatal
}

// OK reports whether the cover was saved.
func (r ImageResult) OK() bool {
	return r.Err == nil && r.Path != ""
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// Value dereferences an optional field, mapping absent to "".
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
