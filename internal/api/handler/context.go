package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/filmfest/catalog-api/internal/api/middleware"
	"github.com/filmfest/catalog-api/internal/core/domain"
)

// requireUser extracts the identity attached by the Identity filter and
// fast-fails before any service call. Routes behind an Authorize gate should
// never hit the error branch; it guards handlers wired without one.
func requireUser(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentUser(c)
	if user == nil {
		return nil, domain.ErrNotAuthenticated
	}
	return user, nil
}
