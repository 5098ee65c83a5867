package ports

import (
	"context"

	"github.com/filmfest/catalog-api/internal/core/domain"
)

// MovieRepository defines persistence operations for catalog entries.
// The rating engine only needs ExistsByID; the rest backs the thin CRUD
// endpoints.
type MovieRepository interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
	FindByID(ctx context.Context, id string) (*domain.Movie, error)
	List(ctx context.Context) ([]*domain.Movie, error)
	Create(ctx context.Context, m *domain.Movie) (*domain.Movie, error)
	Update(ctx context.Context, m *domain.Movie) (*domain.Movie, error)
	Delete(ctx context.Context, id string) error
}
