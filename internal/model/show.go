package model

import (
	"time"

	"golang.org/x/text/cases"
)

// Status filter values accepted by the list endpoint.
const (
	StatusEnded      = "ended"
	StatusInProgress = "in_progress"
)

// DefaultGenre is stored when a request omits the genre.  It matches the
// default of the column added to legacy tables by the genre migration.
const DefaultGenre = "Drama"

// Show represents one TV series in the library.  Titles are unique
// regardless of case and cover images must be served over HTTPS.
//
// Fields:
//  ID            – primary key identifier assigned by the store.
//  Title         – series title, trimmed.
//  CoverImageURL – HTTPS URL of the poster.
//  Genre         – free-form genre label.
//  IsEnded       – whether the series has finished airing.
//  CreatedAt     – creation timestamp (UTC).
type Show struct {
	ID            int64     `json:"id"`              // tv_shows.id
	Title         string    `json:"title"`           // tv_shows.title
	CoverImageURL string    `json:"cover_image_url"` // tv_shows.cover_image_url
	Genre         string    `json:"genre"`           // tv_shows.genre
	IsEnded       bool      `json:"is_ended"`        // tv_shows.is_ended
	CreatedAt     time.Time `json:"created_at"`      // tv_shows.created_at
}

// StatusLabel is the badge text shown next to a show.
func (s Show) StatusLabel() string {
	if s.IsEnded {
		return "Ended"
	}
	return "In Progress"
}

// TitleKey is the Unicode case-folded form of a title.  Title filters and
// the uniqueness check compare keys, so "Élite" and "élite" collide.
func TitleKey(title string) string {
	return cases.Fold().String(title)
}
