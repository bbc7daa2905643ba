package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/KIDDASS/memories-instagram-app/internal/core/memory"
	"github.com/KIDDASS/memories-instagram-app/internal/core/user"
	"github.com/KIDDASS/memories-instagram-app/model"
)

// remoteStore talks to the memories service over its REST API and translates
// HTTP outcomes back into the domain error taxonomy, so the controller cannot
// tell a remote store from a local one by the errors it returns.
type remoteStore struct {
	rest *resty.Client
}

func newRemoteStore(rest *resty.Client) *remoteStore {
	return &remoteStore{rest: rest}
}

// errorBody mirrors the server's error response shape.
type errorBody struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

func (e *errorBody) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// translate maps a response (or transport failure) onto the taxonomy.
// Transport errors and 5xx become UnavailableError, which is the only class
// the controller retries against the fallback store.
func translate(op string, resp *resty.Response, err error) error {
	terr := classifyResponse(op, resp, err)
	switch {
	case terr == nil:
		remoteRequestsTotal.WithLabelValues(op, "ok").Inc()
	case memory.IsUnavailableError(terr):
		remoteRequestsTotal.WithLabelValues(op, "unavailable").Inc()
	default:
		remoteRequestsTotal.WithLabelValues(op, "error").Inc()
	}
	return terr
}

func classifyResponse(op string, resp *resty.Response, err error) error {
	if err != nil {
		return memory.NewUnavailableError(op, err)
	}
	if !resp.IsError() {
		return nil
	}
	body, _ := resp.Error().(*errorBody)
	msg := http.StatusText(resp.StatusCode())
	if body != nil && body.text() != "" {
		msg = body.text()
	}
	switch resp.StatusCode() {
	case http.StatusBadRequest:
		return memory.NewValidationError("request", msg)
	case http.StatusUnauthorized:
		return user.ErrInvalidCredentials
	case http.StatusForbidden:
		return memory.NewPermissionError(msg)
	case http.StatusNotFound:
		return memory.NewNotFoundError("memory", msg)
	case http.StatusConflict:
		return memory.NewConflictError("request", msg)
	case http.StatusServiceUnavailable:
		return memory.NewUnavailableError(op, fmt.Errorf("server returned 503: %s", msg))
	default:
		if resp.StatusCode() >= 500 {
			return memory.NewUnavailableError(op, fmt.Errorf("server returned %d: %s", resp.StatusCode(), msg))
		}
		return fmt.Errorf("%s: unexpected status %d: %s", op, resp.StatusCode(), msg)
	}
}

func (r *remoteStore) request(ctx context.Context, sess *Session) *resty.Request {
	req := r.rest.R().SetContext(ctx).SetError(&errorBody{})
	if sess != nil {
		req.SetHeader("X-User-ID", fmt.Sprintf("%d", sess.UserID))
		req.SetHeader("X-User-Role", sess.Role)
		if sess.Token != "" {
			req.SetHeader("Authorization", "Bearer "+sess.Token)
		}
	}
	return req
}

func (r *remoteStore) ListMemories(ctx context.Context, limit int) ([]*model.Memory, error) {
	var out []*model.Memory
	req := r.request(ctx, nil).SetResult(&out)
	if limit > 0 {
		req.SetQueryParam("limit", fmt.Sprintf("%d", limit))
	}
	resp, err := req.Get("/api/memories")
	if terr := translate("list memories", resp, err); terr != nil {
		return nil, terr
	}
	return out, nil
}

func (r *remoteStore) GetMemory(ctx context.Context, id string) (*model.Memory, error) {
	var out model.Memory
	resp, err := r.request(ctx, nil).
		SetResult(&out).
		SetPathParam("id", id).
		Get("/api/memories/{id}")
	if terr := translate("get memory", resp, err); terr != nil {
		return nil, terr
	}
	return &out, nil
}

func (r *remoteStore) CreateMemory(ctx context.Context, sess *Session, req memory.CreateMemoryRequest) (*model.Memory, error) {
	var out model.Memory
	resp, err := r.request(ctx, sess).
		SetBody(map[string]interface{}{
			"title":       req.Title,
			"description": req.Description,
			"image_url":   req.ImageURL,
			"user_id":     req.UserID,
			"username":    req.Username,
		}).
		SetResult(&out).
		Post("/api/memories")
	if terr := translate("create memory", resp, err); terr != nil {
		return nil, terr
	}
	return &out, nil
}

func (r *remoteStore) DeleteMemory(ctx context.Context, sess *Session, id string) error {
	resp, err := r.request(ctx, sess).
		SetPathParam("id", id).
		Delete("/api/memories/{id}")
	return translate("delete memory", resp, err)
}

func (r *remoteStore) ToggleLike(ctx context.Context, sess *Session, id string) (*model.Memory, error) {
	var out model.Memory
	resp, err := r.request(ctx, sess).
		SetBody(map[string]interface{}{"userId": sess.UserID}).
		SetResult(&out).
		SetPathParam("id", id).
		Post("/api/memories/{id}/like")
	if terr := translate("toggle like", resp, err); terr != nil {
		return nil, terr
	}
	return &out, nil
}

func (r *remoteStore) AddComment(ctx context.Context, sess *Session, id, text string) (*model.Comment, error) {
	var out model.Comment
	resp, err := r.request(ctx, sess).
		SetBody(map[string]interface{}{
			"userId":   sess.UserID,
			"username": sess.Username,
			"text":     text,
		}).
		SetResult(&out).
		SetPathParam("id", id).
		Post("/api/memories/{id}/comments")
	if terr := translate("add comment", resp, err); terr != nil {
		return nil, terr
	}
	return &out, nil
}

func (r *remoteStore) Register(ctx context.Context, req user.RegisterRequest) (*model.User, error) {
	var out model.User
	resp, err := r.request(ctx, nil).
		SetBody(map[string]interface{}{
			"username": req.Username,
			"email":    req.Email,
			"password": req.Password,
		}).
		SetResult(&out).
		Post("/api/auth/register")
	if terr := translate("register", resp, err); terr != nil {
		return nil, terr
	}
	return &out, nil
}

func (r *remoteStore) Login(ctx context.Context, username, password string) (*user.Session, error) {
	var out user.Session
	resp, err := r.request(ctx, nil).
		SetBody(map[string]interface{}{"username": username, "password": password}).
		SetResult(&out).
		Post("/api/auth/login")
	if terr := translate("login", resp, err); terr != nil {
		return nil, terr
	}
	return &out, nil
}

func (r *remoteStore) ListUsers(ctx context.Context, sess *Session) ([]*model.User, error) {
	var out []*model.User
	resp, err := r.request(ctx, sess).
		SetResult(&out).
		Get("/api/users")
	if terr := translate("list users", resp, err); terr != nil {
		return nil, terr
	}
	return out, nil
}

func (r *remoteStore) SetPermission(ctx context.Context, sess *Session, userID int64, allowed bool) (*model.User, error) {
	var out model.User
	resp, err := r.request(ctx, sess).
		SetBody(map[string]interface{}{"can_post": allowed}).
		SetResult(&out).
		SetPathParam("id", fmt.Sprintf("%d", userID)).
		Post("/api/users/{id}/permission")
	if terr := translate("set permission", resp, err); terr != nil {
		return nil, terr
	}
	return &out, nil
}

func (r *remoteStore) Health(ctx context.Context) error {
	resp, err := r.rest.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		return memory.NewUnavailableError("health", err)
	}
	if resp.IsError() {
		return memory.NewUnavailableError("health", fmt.Errorf("server returned %d", resp.StatusCode()))
	}
	return nil
}
