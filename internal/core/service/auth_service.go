package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/filmfest/catalog-api/internal/core/domain"
	"github.com/filmfest/catalog-api/internal/core/ports"
)

// AuditSink accepts audit events for asynchronous persistence. Enqueueing
// must not block request handling.
type AuditSink interface {
	Record(ev domain.AuditEvent)
}

// AuthService implements registration, login and role administration.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.CredentialHasher
	codec  ports.TokenCodec
	audit  AuditSink
	log    zerolog.Logger

	// dummyDigest is compared against when login targets an unknown user,
	// so the missing-user path costs one bcrypt comparison like the
	// wrong-password path and does not reveal account existence by timing.
	dummyDigest string
}

func NewAuthService(
	repo ports.UserRepository,
	hasher ports.CredentialHasher,
	codec ports.TokenCodec,
	audit AuditSink,
	log zerolog.Logger,
) (*AuthService, error) {
	dummy, err := hasher.Hash("decoy-credential")
	if err != nil {
		return nil, err
	}
	return &AuthService{
		repo:        repo,
		hasher:      hasher,
		codec:       codec,
		audit:       audit,
		log:         log,
		dummyDigest: dummy,
	}, nil
}

// Register creates a new account. Uniqueness is checked before hashing so a
// failing path does not pay the hashing cost; the repository's unique index
// still backstops a race between two concurrent registrations.
func (s *AuthService) Register(ctx context.Context, username, email, password, role string) (*domain.User, error) {
	if username == "" || email == "" || password == "" || !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	if taken, err := s.repo.ExistsByUsername(ctx, username); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrUserExists
	}
	if taken, err := s.repo.ExistsByEmail(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, domain.ErrUserExists
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: digest,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Subject:   created.Username,
		Kind:      domain.AuditRegister,
		Detail:    "role=" + created.Role,
		Timestamp: now,
	})
	s.log.Info().Str("username", created.Username).Str("role", created.Role).Msg("user registered")

	return created, nil
}

// Login authenticates by username first, then by email. Unknown account and
// wrong password are indistinguishable to the caller: both run one hash
// comparison and both return domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (string, *domain.User, error) {
	if usernameOrEmail == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, usernameOrEmail)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, err
	}
	if user == nil {
		user, err = s.repo.FindByEmail(ctx, usernameOrEmail)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, err
		}
	}

	digest := s.dummyDigest
	if user != nil {
		digest = user.PasswordHash
	}

	if !s.hasher.Verify(password, digest) || user == nil {
		s.audit.Record(domain.AuditEvent{
			Subject:   usernameOrEmail,
			Kind:      domain.AuditLoginFailed,
			Timestamp: time.Now().UTC(),
		})
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Subject:   user.Username,
		Kind:      domain.AuditLogin,
		Timestamp: time.Now().UTC(),
	})

	return token, user, nil
}

// ResolveUser loads the account behind a verified token subject.
func (s *AuthService) ResolveUser(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

// ChangeRole sets a user's role. The write carries the version the caller
// read; a concurrent edit bumps the stored version and this update fails
// with domain.ErrStaleWrite instead of silently losing it.
func (s *AuthService) ChangeRole(ctx context.Context, userID, role string, version int64) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Role = role
	user.Version = version
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		Subject:   updated.Username,
		Kind:      domain.AuditRoleChange,
		Detail:    "role=" + role,
		Timestamp: time.Now().UTC(),
	})
	s.log.Info().Str("username", updated.Username).Str("role", role).Msg("role updated")

	return updated, nil
}
