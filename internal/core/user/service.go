package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/KIDDASS/memories-instagram-app/internal/api/validate"
	"github.com/KIDDASS/memories-instagram-app/internal/core/memory"
	"github.com/KIDDASS/memories-instagram-app/model"
	"github.com/KIDDASS/memories-instagram-app/internal/store"
)

// ErrInvalidCredentials is returned by Login when no account matches.
var ErrInvalidCredentials = errors.New("invalid username or password")

// RegisterRequest carries a new account submission.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// Session is the result of a successful login: an opaque token plus the
// account it identifies. Callers pass it explicitly into later calls; there
// is no ambient current-user state.
type Session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Service is the user directory: registration, login and posting permissions.
// Passwords are stored and compared as given; an authentication security
// model is out of scope for this application.
type Service struct {
	store store.Store
	log   zerolog.Logger
}

func NewService(s store.Store, log zerolog.Logger) *Service {
	return &Service{store: s, log: log}
}

// Register creates a member account. New members cannot post until an admin
// grants permission.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	if err := validate.Username(req.Username); err != nil {
		return nil, memory.NewValidationError("username", err.Error())
	}
	if err := validate.Email(req.Email); err != nil {
		return nil, memory.NewValidationError("email", err.Error())
	}
	if err := validate.Password(req.Password); err != nil {
		return nil, memory.NewValidationError("password", err.Error())
	}

	u := &model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.RoleMember,
		CanPost:  false,
		Avatar:   strings.ToUpper(req.Username[:1]),
	}
	created, err := s.store.Users().Create(ctx, u)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return nil, memory.NewConflictError("username", "username or email already taken")
		}
		if errors.Is(err, model.ErrUnavailable) {
			return nil, memory.NewUnavailableError("register", err)
		}
		return nil, fmt.Errorf("register: %w", err)
	}
	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

// Login checks credentials and mints an opaque session token.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		if errors.Is(err, model.ErrUnavailable) {
			return nil, memory.NewUnavailableError("login", err)
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if u.Password != password {
		return nil, ErrInvalidCredentials
	}
	return &Session{
		Token: fmt.Sprintf("token_%d_%d", u.ID, time.Now().UnixNano()),
		User:  u,
	}, nil
}

// CanPost reports whether the account may create posts. Admins always can.
func (s *Service) CanPost(ctx context.Context, userID int64) (bool, error) {
	u, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return false, nil
		}
		if errors.Is(err, model.ErrUnavailable) {
			return false, memory.NewUnavailableError("can post", err)
		}
		return false, fmt.Errorf("can post: %w", err)
	}
	return u.CanPost || u.Role == model.RoleAdmin, nil
}

// List returns all accounts. Admin only.
func (s *Service) List(ctx context.Context, actor model.Actor) ([]*model.User, error) {
	if !actor.IsAdmin() {
		return nil, memory.NewPermissionError("admin access required")
	}
	out, err := s.store.Users().List(ctx)
	if err != nil {
		if errors.Is(err, model.ErrUnavailable) {
			return nil, memory.NewUnavailableError("list users", err)
		}
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

// SetPostingPermission grants or revokes a member's right to post. Admin only.
func (s *Service) SetPostingPermission(ctx context.Context, actor model.Actor, userID int64, allowed bool) (*model.User, error) {
	if !actor.IsAdmin() {
		return nil, memory.NewPermissionError("admin access required")
	}
	u, err := s.store.Users().SetCanPost(ctx, userID, allowed)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, memory.NewNotFoundError("user", fmt.Sprintf("%d", userID))
		}
		if errors.Is(err, model.ErrUnavailable) {
			return nil, memory.NewUnavailableError("set permission", err)
		}
		return nil, fmt.Errorf("set permission: %w", err)
	}
	s.log.Info().Int64("user_id", userID).Bool("can_post", allowed).Msg("posting permission updated")
	return u, nil
}

// EnsureDefaultAdmin seeds the admin account on an empty directory so a fresh
// deployment is immediately usable.
func (s *Service) EnsureDefaultAdmin(ctx context.Context) error {
	n, err := s.store.Users().Count(ctx)
	if err != nil {
		return fmt.Errorf("ensure default admin: %w", err)
	}
	if n > 0 {
		return nil
	}
	_, err = s.store.Users().Create(ctx, &model.User{
		Username: "admin",
		Email:    "admin@memories.app",
		Password: "admin123",
		Role:     model.RoleAdmin,
		CanPost:  true,
		Avatar:   "A",
	})
	if err != nil && !errors.Is(err, model.ErrConflict) {
		return fmt.Errorf("ensure default admin: %w", err)
	}
	if err == nil {
		s.log.Info().Msg("seeded default admin account")
	}
	return nil
}
