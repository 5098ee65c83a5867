package ports

import (
	"context"

	"github.com/filmfest/catalog-api/internal/core/domain"
)

// MovieInput carries the writable catalog fields.
type MovieInput struct {
	Title       string
	Director    string
	ReleaseYear int
	Genre       string
	DurationMin int
	// CreatedBy is the acting admin's user ID (from the identity filter).
	CreatedBy string
}

// MovieService defines the thin catalog use cases.
type MovieService interface {
	Create(ctx context.Context, in MovieInput) (*domain.Movie, error)
	Get(ctx context.Context, id string) (*domain.Movie, error)
	List(ctx context.Context) ([]*domain.Movie, error)
	Update(ctx context.Context, id string, in MovieInput) (*domain.Movie, error)
	Delete(ctx context.Context, id string) error
}
