package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/filmfest/catalog-api/internal/api/metrics"
	"github.com/filmfest/catalog-api/internal/core/domain"
	"github.com/filmfest/catalog-api/internal/core/ports"
)

// identityKey is the echo context key the resolved user is stored under.
// The echo context is per-request, so the identity never outlives or leaks
// across requests.
const identityKey = "identity"

// UserResolver loads the full account behind a verified token subject.
type UserResolver interface {
	ResolveUser(ctx context.Context, username string) (*domain.User, error)
}

// Identity is the per-request identity filter. It never fails a request:
//   - no Authorization header, or a non-bearer scheme → anonymous
//   - token fails verification (forged or expired)    → anonymous
//   - token subject no longer resolves               → anonymous
//   - otherwise the resolved user (with its current role, not the role
//     claim frozen in the token) is attached to the request context.
//
// Rejection is the authorization policy's job, which keeps the error shape
// uniform whether a caller sent no token or a broken one. The filter performs
// exactly one user-store read per request, and only on the valid-token path.
func Identity(codec ports.TokenCodec, users UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return next(c)
			}

			claims, err := codec.Verify(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return next(c)
			}
			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()

			user, err := users.ResolveUser(c.Request().Context(), claims.Username)
			if err != nil {
				// Deleted subject or store hiccup: degrade to anonymous
				// rather than leaking which case it was.
				return next(c)
			}

			c.Set(identityKey, user)
			return next(c)
		}
	}
}

// CurrentUser returns the identity attached by the Identity filter, or nil
// for an anonymous request.
func CurrentUser(c echo.Context) *domain.User {
	user, _ := c.Get(identityKey).(*domain.User)
	return user
}
