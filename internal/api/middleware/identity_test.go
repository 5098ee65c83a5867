package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/filmfest/catalog-api/internal/core/domain"
	"github.com/filmfest/catalog-api/internal/core/service"
)

type stubResolver struct {
	users map[string]*domain.User
}

func (r *stubResolver) ResolveUser(_ context.Context, username string) (*domain.User, error) {
	if u, ok := r.users[username]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func runIdentity(t *testing.T, authHeader string, resolver *stubResolver, codec *service.JWTCodec) *domain.User {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seen *domain.User
	next := func(c echo.Context) error {
		seen = CurrentUser(c)
		return nil
	}

	if err := Identity(codec, resolver)(next)(c); err != nil {
		t.Fatalf("identity filter returned error: %v", err)
	}
	return seen
}

func TestIdentity_AnonymousWithoutHeader(t *testing.T) {
	codec := service.NewJWTCodec("secret", time.Hour)
	resolver := &stubResolver{users: map[string]*domain.User{}}

	if user := runIdentity(t, "", resolver, codec); user != nil {
		t.Fatalf("expected anonymous, got %+v", user)
	}
}

func TestIdentity_AnonymousOnMalformedHeader(t *testing.T) {
	codec := service.NewJWTCodec("secret", time.Hour)
	resolver := &stubResolver{users: map[string]*domain.User{}}

	for _, header := range []string{"Basic dXNlcjpwdw==", "Bearer", "token-without-scheme"} {
		if user := runIdentity(t, header, resolver, codec); user != nil {
			t.Fatalf("header %q: expected anonymous, got %+v", header, user)
		}
	}
}

func TestIdentity_AnonymousOnInvalidToken(t *testing.T) {
	codec := service.NewJWTCodec("secret", time.Hour)
	foreign := service.NewJWTCodec("other-secret", time.Hour)
	resolver := &stubResolver{users: map[string]*domain.User{
		"alice": {ID: "u1", Username: "alice", Role: domain.RoleAdmin},
	}}

	forged, err := foreign.Issue("alice", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if user := runIdentity(t, "Bearer "+forged, resolver, codec); user != nil {
		t.Fatalf("forged token resolved an identity: %+v", user)
	}
	if user := runIdentity(t, "Bearer garbage", resolver, codec); user != nil {
		t.Fatalf("garbage token resolved an identity: %+v", user)
	}
}

func TestIdentity_AnonymousOnUnresolvableSubject(t *testing.T) {
	codec := service.NewJWTCodec("secret", time.Hour)
	resolver := &stubResolver{users: map[string]*domain.User{}}

	token, err := codec.Issue("ghost", domain.RoleMember)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if user := runIdentity(t, "Bearer "+token, resolver, codec); user != nil {
		t.Fatalf("deleted subject resolved an identity: %+v", user)
	}
}

func TestIdentity_AttachesResolvedUser(t *testing.T) {
	codec := service.NewJWTCodec("secret", time.Hour)
	// The store holds a newer role than the claim; the store wins.
	resolver := &stubResolver{users: map[string]*domain.User{
		"alice": {ID: "u1", Username: "alice", Role: domain.RoleMember},
	}}

	token, err := codec.Issue("alice", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	user := runIdentity(t, "Bearer "+token, resolver, codec)
	if user == nil {
		t.Fatalf("expected resolved identity")
	}
	if user.ID != "u1" || user.Role != domain.RoleMember {
		t.Fatalf("unexpected identity: %+v", user)
	}
}
