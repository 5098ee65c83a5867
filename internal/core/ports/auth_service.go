package ports

import (
	"context"

	"github.com/filmfest/catalog-api/internal/core/domain"
)

// TokenClaims is the verified content of a bearer token. Tokens are opaque to
// holders; only the codec can produce claims from one.
type TokenClaims struct {
	Username string
	Role     string
}

// TokenCodec issues and verifies compact signed tokens. Pure computation:
// no storage or network I/O, which keeps per-request verification cheap.
type TokenCodec interface {
	Issue(username, role string) (string, error)
	// Verify returns the claims embedded in token, or domain.ErrTokenInvalid
	// for any tampered, malformed or expired token. Never partial data.
	Verify(token string) (*TokenClaims, error)
}

// CredentialHasher is the one-way salted password hasher.
type CredentialHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. It never fails on a
	// malformed digest; that is simply a non-match.
	Verify(plaintext, digest string) bool
}

// AuthService implements registration, login and role administration.
type AuthService interface {
	Register(ctx context.Context, username, email, password, role string) (*domain.User, error)
	// Login accepts a username or an email. Missing user and wrong password
	// both collapse to domain.ErrInvalidCredentials.
	Login(ctx context.Context, usernameOrEmail, password string) (string, *domain.User, error)
	// ResolveUser loads the full account for a verified token subject.
	ResolveUser(ctx context.Context, username string) (*domain.User, error)
	// ChangeRole updates a user's role with an optimistic version check.
	ChangeRole(ctx context.Context, userID, role string, version int64) (*domain.User, error)
}
