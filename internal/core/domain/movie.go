package domain

import (
	"errors"
	"time"
)

var ErrMovieNotFound = errors.New("movie not found")

// Movie is a catalog entry. The rating engine only depends on its ID; the
// remaining fields exist for the thin catalog endpoints.
type Movie struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Director    string    `json:"director"`
	ReleaseYear int       `json:"release_year"`
	Genre       string    `json:"genre"`
	DurationMin int       `json:"duration_min"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
