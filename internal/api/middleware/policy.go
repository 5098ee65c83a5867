package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/filmfest/catalog-api/internal/core/domain"
)

// Operation is a category of API operations the policy rules on.
type Operation string

const (
	OpReadCatalog    Operation = "read-catalog"
	OpWriteCatalog   Operation = "write-catalog"
	OpSubmitRating   Operation = "submit-rating"
	OpReadRatings    Operation = "read-ratings"
	OpReadOwnRatings Operation = "read-own-ratings"
	OpManageUsers    Operation = "manage-users"
)

// rule is one row of the policy table.
type rule struct {
	anonymous bool
	roles     map[string]struct{}
}

func anyAuthenticated() map[string]struct{} {
	return map[string]struct{}{
		domain.RoleAdmin:  {},
		domain.RoleMember: {},
	}
}

// policy maps each operation category to the roles allowed to perform it.
var policy = map[Operation]rule{
	OpReadCatalog:    {anonymous: true, roles: anyAuthenticated()},
	OpWriteCatalog:   {roles: map[string]struct{}{domain.RoleAdmin: {}}},
	OpSubmitRating:   {roles: anyAuthenticated()},
	OpReadRatings:    {roles: anyAuthenticated()},
	OpReadOwnRatings: {roles: anyAuthenticated()},
	OpManageUsers:    {roles: map[string]struct{}{domain.RoleAdmin: {}}},
}

// Evaluate applies the policy table to an identity (nil = anonymous) and an
// operation. It returns nil when allowed, domain.ErrNotAuthenticated when any
// identity would do but none is present, and domain.ErrForbidden when the
// identity's role is insufficient. Pure function: testable without a request
// pipeline.
func Evaluate(user *domain.User, op Operation) error {
	r, known := policy[op]
	if !known {
		return domain.ErrForbidden
	}
	if user == nil {
		if r.anonymous {
			return nil
		}
		return domain.ErrNotAuthenticated
	}
	if _, ok := r.roles[user.Role]; !ok {
		return domain.ErrForbidden
	}
	return nil
}

// Authorize gates a route on one operation category. It runs after the
// Identity filter and surfaces denials through the central error handler so
// clients get a uniform envelope with only the taxonomy category:
// 401 (login would help) vs 403 (it would not).
func Authorize(op Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := Evaluate(CurrentUser(c), op); err != nil {
				return err
			}
			return next(c)
		}
	}
}
