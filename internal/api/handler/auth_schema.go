package handler

import "github.com/filmfest/catalog-api/internal/core/domain"

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required,oneof=admin member"`
}

type loginRequest struct {
	// Identifier is a username or an email; the service tries both.
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member"`
	// Version is the optimistic lock counter read with the user; the update
	// is rejected with 409 when it no longer matches.
	Version int64 `json:"version" validate:"gte=0"`
}
