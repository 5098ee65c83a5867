package handler

import "time"

type submitRatingRequest struct {
	Score   int    `json:"score"   validate:"required,gte=1,lte=10"`
	Comment string `json:"comment" validate:"max=2000"`
}

type ratingResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	MovieID   string    `json:"movie_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type listRatingsResponse struct {
	Data  []ratingResponse `json:"data"`
	Total int              `json:"total"`
}

type averageResponse struct {
	MovieID string  `json:"movie_id"`
	Average float64 `json:"average"`
	// Count lets callers tell "no ratings" apart from "average of zero";
	// the average alone deliberately does not.
	Count int64 `json:"count"`
}
