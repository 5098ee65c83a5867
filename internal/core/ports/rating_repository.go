package ports

import (
	"context"

	"github.com/filmfest/catalog-api/internal/core/domain"
)

// RatingRepository defines persistence operations for ratings.
type RatingRepository interface {
	// ExistsByUserAndMovie is the advisory fast-path duplicate check. It is
	// race-prone by itself; Insert's unique-index violation is authoritative.
	ExistsByUserAndMovie(ctx context.Context, userID, movieID string) (bool, error)
	// Insert persists a new rating. A uniqueness violation on
	// (user_id, movie_id) surfaces as domain.ErrDuplicateRating.
	Insert(ctx context.Context, r *domain.Rating) (*domain.Rating, error)
	FindByMovie(ctx context.Context, movieID string) ([]*domain.Rating, error)
	FindByUser(ctx context.Context, userID string) ([]*domain.Rating, error)
	// AverageForMovie aggregates in the storage layer. It returns (0, false)
	// when the movie has no ratings.
	AverageForMovie(ctx context.Context, movieID string) (float64, bool, error)
	CountForMovie(ctx context.Context, movieID string) (int64, error)
}
