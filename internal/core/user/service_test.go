package user

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/KIDDASS/memories-instagram-app/internal/core/memory"
	"github.com/KIDDASS/memories-instagram-app/internal/store/sqlite"
	"github.com/KIDDASS/memories-instagram-app/model"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return NewService(st, zerolog.Nop())
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"short username", RegisterRequest{Username: "ab", Email: "a@b.com", Password: "secret1"}},
		{"bad characters", RegisterRequest{Username: "bad name!", Email: "a@b.com", Password: "secret1"}},
		{"bad email", RegisterRequest{Username: "alice", Email: "not-an-email", Password: "secret1"}},
		{"short password", RegisterRequest{Username: "alice", Email: "a@b.com", Password: "12345"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.req); !memory.IsValidationError(err) {
				t.Fatalf("want ValidationError, got %v", err)
			}
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != model.RoleMember || u.CanPost {
		t.Fatalf("new account must be a member without posting rights: %+v", u)
	}
	if u.Avatar != "A" {
		t.Fatalf("avatar: want A, got %q", u.Avatar)
	}

	// Duplicate username.
	if _, err := svc.Register(ctx, RegisterRequest{Username: "alice", Email: "other@example.com", Password: "secret2"}); !memory.IsConflictError(err) {
		t.Fatalf("duplicate: want ConflictError, got %v", err)
	}

	sess, err := svc.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token == "" || sess.User.ID != u.ID {
		t.Fatalf("bad session: %+v", sess)
	}

	if _, err := svc.Login(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: want ErrInvalidCredentials, got %v", err)
	}
}

func TestEnsureDefaultAdmin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.EnsureDefaultAdmin(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	sess, err := svc.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if sess.User.Role != model.RoleAdmin || !sess.User.CanPost {
		t.Fatalf("seeded admin wrong: %+v", sess.User)
	}

	// Idempotent, and a non-empty directory is left alone.
	if err := svc.EnsureDefaultAdmin(ctx); err != nil {
		t.Fatalf("re-seed: %v", err)
	}
}

func TestPostingPermissions(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterRequest{Username: "bob", Email: "bob@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	admin := model.Actor{ID: 1, Role: model.RoleAdmin}
	member := model.Actor{ID: u.ID, Role: model.RoleMember}

	if _, err := svc.SetPostingPermission(ctx, member, u.ID, true); !memory.IsPermissionError(err) {
		t.Fatalf("member grant: want PermissionError, got %v", err)
	}
	if _, err := svc.List(ctx, member); !memory.IsPermissionError(err) {
		t.Fatalf("member list: want PermissionError, got %v", err)
	}

	ok, err := svc.CanPost(ctx, u.ID)
	if err != nil || ok {
		t.Fatalf("fresh member should not post: ok=%v err=%v", ok, err)
	}

	granted, err := svc.SetPostingPermission(ctx, admin, u.ID, true)
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !granted.CanPost {
		t.Fatal("grant did not stick")
	}
	ok, err = svc.CanPost(ctx, u.ID)
	if err != nil || !ok {
		t.Fatalf("granted member should post: ok=%v err=%v", ok, err)
	}

	if _, err := svc.SetPostingPermission(ctx, admin, 99999, true); !memory.IsNotFoundError(err) {
		t.Fatalf("grant missing user: want NotFoundError, got %v", err)
	}
}
