package ports

import (
	"context"

	"github.com/filmfest/catalog-api/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// Update persists a mutation only when user.Version still matches the
	// stored document; on mismatch it returns domain.ErrStaleWrite and the
	// caller must re-fetch and retry.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
