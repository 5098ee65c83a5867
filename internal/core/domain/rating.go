package domain

import (
	"errors"
	"time"
)

// Rating score bounds, inclusive.
const (
	MinScore = 1
	MaxScore = 10
)

var ErrDuplicateRating = errors.New("rating already exists for this user and movie")
var ErrInvalidScore = errors.New("score out of range")

// Rating is a single score+comment submitted by one user for one movie.
// The (UserID, MovieID) pair is unique; the storage layer enforces it with a
// compound unique index, so an insert can fail with ErrDuplicateRating even
// after a clean existence pre-check.
type Rating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	MovieID   string    `json:"movie_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidScore reports whether score falls within the accepted range.
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}
