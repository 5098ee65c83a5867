package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/filmfest/catalog-api/internal/core/domain"
)

type stubUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User // keyed by ID
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *stubUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.seq++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("user-%d", r.seq)
	stored.Version = 0
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if stored.Version != user.Version {
		return nil, domain.ErrStaleWrite
	}
	updated := cloneUser(user)
	updated.Version = stored.Version + 1
	r.users[updated.ID] = updated
	return cloneUser(updated), nil
}

type captureAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *captureAudit) Record(ev domain.AuditEvent) {
	a.mu.Lock()
	a.events = append(a.events, ev)
	a.mu.Unlock()
}

func (a *captureAudit) kinds() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, ev.Kind)
	}
	return out
}

func newTestAuthService(t *testing.T) (*AuthService, *stubUserRepo, *captureAudit) {
	t.Helper()
	repo := newStubUserRepo()
	audit := &captureAudit{}
	svc, err := NewAuthService(
		repo,
		NewBcryptHasher(bcrypt.MinCost),
		NewJWTCodec("test-secret", time.Hour),
		audit,
		zerolog.Nop(),
	)
	if err != nil {
		t.Fatalf("NewAuthService failed: %v", err)
	}
	return svc, repo, audit
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, _, audit := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned user ID")
	}
	if user.PasswordHash == "s3cret" {
		t.Fatalf("password stored in the clear")
	}

	token, logged, err := svc.Login(ctx, "alice", "s3cret")
	if err != nil {
		t.Fatalf("login by username failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if logged.Username != "alice" || logged.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", logged)
	}

	if _, _, err := svc.Login(ctx, "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("login by email failed: %v", err)
	}

	kinds := audit.kinds()
	if len(kinds) != 3 || kinds[0] != domain.AuditRegister || kinds[1] != domain.AuditLogin {
		t.Fatalf("unexpected audit trail: %v", kinds)
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "pw", domain.RoleMember); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	if _, err := svc.Register(ctx, "alice", "other@example.com", "pw", domain.RoleMember); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate username, got %v", err)
	}
	if _, err := svc.Register(ctx, "bob", "alice@example.com", "pw", domain.RoleMember); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate email, got %v", err)
	}
}

func TestAuthService_RegisterInvalidRole(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	if _, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw", "superuser"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown role, got %v", err)
	}
}

func TestAuthService_LoginFailureShape(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "s3cret", domain.RoleMember); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Unknown account and wrong password must be the same error.
	_, _, errUnknown := svc.Login(ctx, "nobody", "whatever")
	_, _, errWrongPw := svc.Login(ctx, "alice", "wrong")

	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPw)
	}
}

func TestAuthService_ChangeRole(t *testing.T) {
	svc, repo, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "bob", "bob@example.com", "pw", domain.RoleMember)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	updated, err := svc.ChangeRole(ctx, user.ID, domain.RoleAdmin, user.Version)
	if err != nil {
		t.Fatalf("change role failed: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected role %q, got %q", domain.RoleAdmin, updated.Role)
	}
	if updated.Version != user.Version+1 {
		t.Fatalf("expected version bump to %d, got %d", user.Version+1, updated.Version)
	}

	stored, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if stored.Role != domain.RoleAdmin {
		t.Fatalf("role change not persisted")
	}
}

func TestAuthService_ChangeRoleStaleVersion(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "bob", "bob@example.com", "pw", domain.RoleMember)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.ChangeRole(ctx, user.ID, domain.RoleAdmin, user.Version); err != nil {
		t.Fatalf("first change failed: %v", err)
	}

	// Second writer still holds the original version.
	if _, err := svc.ChangeRole(ctx, user.ID, domain.RoleMember, user.Version); !errors.Is(err, domain.ErrStaleWrite) {
		t.Fatalf("expected ErrStaleWrite, got %v", err)
	}
}
