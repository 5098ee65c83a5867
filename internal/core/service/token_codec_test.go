package service

import (
	"testing"
	"time"

	"github.com/filmfest/catalog-api/internal/core/domain"
)

func TestJWTCodec_RoundTrip(t *testing.T) {
	codec := NewJWTCodec("secret", time.Hour)

	token, err := codec.Issue("alice", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Username != "alice" {
		t.Fatalf("expected subject alice, got %q", claims.Username)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("expected role %q, got %q", domain.RoleAdmin, claims.Role)
	}
}

func TestJWTCodec_Expired(t *testing.T) {
	codec := NewJWTCodec("secret", time.Millisecond)

	token, err := codec.Issue("alice", domain.RoleMember)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	if _, err := codec.Verify(token); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestJWTCodec_ForgedSignature(t *testing.T) {
	issuer := NewJWTCodec("secret-a", time.Hour)
	verifier := NewJWTCodec("secret-b", time.Hour)

	token, err := issuer.Issue("mallory", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := verifier.Verify(token); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for foreign signature, got %v", err)
	}
}

func TestJWTCodec_Garbage(t *testing.T) {
	codec := NewJWTCodec("secret", time.Hour)

	for _, token := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		if _, err := codec.Verify(token); err != domain.ErrTokenInvalid {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", token, err)
		}
	}
}
