package ports

import (
	"context"

	"github.com/filmfest/catalog-api/internal/core/domain"
)

// SubmitRatingInput carries everything needed to record a rating. Author
// fields come from the request identity filter, never from the payload.
type SubmitRatingInput struct {
	AuthorID       string
	AuthorUsername string
	MovieID        string
	Score          int
	Comment        string
}

// AverageResult is the aggregate view for one movie.
type AverageResult struct {
	MovieID string
	Average float64
	Count   int64
}

// RatingService enforces the one-rating-per-(user,movie) invariant and
// computes aggregate scores.
type RatingService interface {
	Submit(ctx context.Context, in SubmitRatingInput) (*domain.Rating, error)
	AverageFor(ctx context.Context, movieID string) (*AverageResult, error)
	ListByMovie(ctx context.Context, movieID string) ([]*domain.Rating, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Rating, error)
}
