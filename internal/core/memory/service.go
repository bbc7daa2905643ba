package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/KIDDASS/memories-instagram-app/internal/api/validate"
	"github.com/KIDDASS/memories-instagram-app/model"
	"github.com/KIDDASS/memories-instagram-app/internal/store"
)

const (
	maxTitleLen       = 100
	maxDescriptionLen = 2000
	maxCommentLen     = 1000

	// DefaultListLimit caps feed reads when the caller does not ask for less.
	DefaultListLimit = 100
)

// Service owns the Memory aggregate's mutation rules. Both the server and the
// client fallback path run their stores through this service, so validation
// and the likes == |likedBy| invariant are enforced identically no matter
// which store answers.
type Service struct {
	store store.Store
}

// NewService creates a memory service backed by the given store.
func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// CreateMemory validates and persists a new post.
func (s *Service) CreateMemory(ctx context.Context, req CreateMemoryRequest) (*model.Memory, error) {
	if err := s.validateCreateMemoryRequest(req); err != nil {
		return nil, err
	}
	m := &model.Memory{
		UserID:      req.UserID,
		Username:    req.Username,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	created, err := s.store.Memories().Create(ctx, m)
	if err != nil {
		return nil, s.wrapStoreError("create memory", err)
	}
	created.Normalize()
	return created, nil
}

// ListMemories returns the newest posts first, truncated to limit.
func (s *Service) ListMemories(ctx context.Context, limit int) ([]*model.Memory, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}
	out, err := s.store.Memories().List(ctx, limit)
	if err != nil {
		return nil, s.wrapStoreError("list memories", err)
	}
	for _, m := range out {
		m.Normalize()
	}
	return out, nil
}

// GetMemory fetches a single post by id.
func (s *Service) GetMemory(ctx context.Context, id string) (*model.Memory, error) {
	if id == "" {
		return nil, NewValidationError("id", "id is required")
	}
	m, err := s.store.Memories().GetByID(ctx, id)
	if err != nil {
		return nil, s.wrapStoreErrorForID("get memory", id, err)
	}
	m.Normalize()
	return m, nil
}

// DeleteMemory removes a post. Only the author or an admin may delete.
func (s *Service) DeleteMemory(ctx context.Context, id string, actor model.Actor) error {
	m, err := s.GetMemory(ctx, id)
	if err != nil {
		return err
	}
	if m.UserID != actor.ID && !actor.IsAdmin() {
		return NewPermissionError("you can only delete your own posts")
	}
	if err := s.store.Memories().Delete(ctx, id); err != nil {
		return s.wrapStoreErrorForID("delete memory", id, err)
	}
	return nil
}

// ToggleLike flips userID's membership in the post's likedBy set. Two
// consecutive toggles by the same user restore the original state.
func (s *Service) ToggleLike(ctx context.Context, id string, userID int64) (*model.Memory, error) {
	if id == "" {
		return nil, NewValidationError("id", "id is required")
	}
	if userID == 0 {
		return nil, NewValidationError("userId", "userId is required")
	}
	m, err := s.store.Memories().ToggleLike(ctx, id, userID)
	if err != nil {
		return nil, s.wrapStoreErrorForID("toggle like", id, err)
	}
	m.Normalize()
	return m, nil
}

// AddComment appends a comment to the post in arrival order.
func (s *Service) AddComment(ctx context.Context, id string, req AddCommentRequest) (*model.Comment, error) {
	if id == "" {
		return nil, NewValidationError("id", "id is required")
	}
	if req.Text == "" {
		return nil, NewValidationError("text", "text is required")
	}
	if err := validate.MaxLen("text", req.Text, maxCommentLen); err != nil {
		return nil, NewValidationError("text", err.Error())
	}
	if req.UserID == 0 || req.Username == "" {
		return nil, NewValidationError("author", "comment author is required")
	}
	c := &model.Comment{
		UserID:   req.UserID,
		Username: req.Username,
		Text:     req.Text,
	}
	created, err := s.store.Memories().AddComment(ctx, id, c)
	if err != nil {
		return nil, s.wrapStoreErrorForID("add comment", id, err)
	}
	return created, nil
}

func (s *Service) validateCreateMemoryRequest(req CreateMemoryRequest) error {
	if err := validate.NonEmpty("title", req.Title); err != nil {
		return NewValidationError("title", err.Error())
	}
	if err := validate.MaxLen("title", req.Title, maxTitleLen); err != nil {
		return NewValidationError("title", err.Error())
	}
	if err := validate.MaxLen("description", req.Description, maxDescriptionLen); err != nil {
		return NewValidationError("description", err.Error())
	}
	if err := validate.ImageRef(req.ImageURL); err != nil {
		return NewValidationError("image_url", err.Error())
	}
	if req.UserID == 0 || req.Username == "" {
		return NewValidationError("author", "author id and name are required")
	}
	return nil
}

func (s *Service) wrapStoreError(op string, err error) error {
	if errors.Is(err, model.ErrUnavailable) {
		return NewUnavailableError(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *Service) wrapStoreErrorForID(op, id string, err error) error {
	if errors.Is(err, model.ErrNotFound) {
		return NewNotFoundError("memory", id)
	}
	return s.wrapStoreError(op, err)
}
