package client

import (
	"context"

	"github.com/KIDDASS/memories-instagram-app/internal/core/memory"
	"github.com/KIDDASS/memories-instagram-app/internal/core/user"
	"github.com/KIDDASS/memories-instagram-app/model"
)

// Fallback policy: an operation goes to the remote store while the monitor
// reports it reachable; only an UnavailableError (transport failure or 5xx)
// marks the remote lost and retries the operation once against the local
// store. Domain errors never trigger a fallback, so a validation or
// permission failure is answered exactly once.

func (s *Session) actor() model.Actor {
	return model.Actor{ID: s.UserID, Role: s.Role}
}

// fallthroughErr reports whether err should flip the client to the local
// store.
func fallthroughErr(err error) bool {
	return memory.IsUnavailableError(err)
}

// ListMemories returns the feed, newest first. Served entirely by whichever
// store is current; remote and local results are never merged.
func (c *Client) ListMemories(ctx context.Context, limit int) ([]*model.Memory, error) {
	if c.monitor.IsAvailable() {
		out, err := c.remote.ListMemories(ctx, limit)
		if err == nil {
			for _, m := range out {
				m.Normalize()
			}
			return out, nil
		}
		if !fallthroughErr(err) {
			return nil, err
		}
		c.monitor.MarkDisconnected()
	}
	fallbackOpsTotal.WithLabelValues("list memories").Inc()
	return c.local.ListMemories(ctx, limit)
}

// GetMemory fetches one post by id.
func (c *Client) GetMemory(ctx context.Context, id string) (*model.Memory, error) {
	if c.monitor.IsAvailable() {
		m, err := c.remote.GetMemory(ctx, id)
		if err == nil {
			m.Normalize()
			return m, nil
		}
		if !fallthroughErr(err) {
			return nil, err
		}
		c.monitor.MarkDisconnected()
	}
	fallbackOpsTotal.WithLabelValues("get memory").Inc()
	return c.local.GetMemory(ctx, id)
}

// CreateMemory posts a new memory as the session user.
func (c *Client) CreateMemory(ctx context.Context, sess *Session, title, description, imageURL string) (*model.Memory, error) {
	req := memory.CreateMemoryRequest{
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
		UserID:      sess.UserID,
		Username:    sess.Username,
	}
	if c.monitor.IsAvailable() {
		m, err := c.remote.CreateMemory(ctx, sess, req)
		if err == nil {
			m.Normalize()
			return m, nil
		}
		if !fallthroughErr(err) {
			return nil, err
		}
		c.monitor.MarkDisconnected()
	}
	fallbackOpsTotal.WithLabelValues("create memory").Inc()
	return c.local.CreateMemory(ctx, req)
}

// DeleteMemory removes a post; only the author or an admin may delete.
func (c *Client) DeleteMemory(ctx context.Context, sess *Session, id string) error {
	if c.monitor.IsAvailable() {
		err := c.remote.DeleteMemory(ctx, sess, id)
		if err == nil || !fallthroughErr(err) {
			return err
		}
		c.monitor.MarkDisconnected()
	}
	fallbackOpsTotal.WithLabelValues("delete memory").Inc()
	return c.local.DeleteMemory(ctx, id, sess.actor())
}

// ToggleLike flips the session user's like on a post and returns the updated
// post.
func (c *Client) ToggleLike(ctx context.Context, sess *Session, id string) (*model.Memory, error) {
	if c.monitor.IsAvailable() {
		m, err := c.remote.ToggleLike(ctx, sess, id)
		if err == nil {
			m.Normalize()
			return m, nil
		}
		if !fallthroughErr(err) {
			return nil, err
		}
		c.monitor.MarkDisconnected()
	}
	fallbackOpsTotal.WithLabelValues("toggle like").Inc()
	return c.local.ToggleLike(ctx, id, sess.UserID)
}

// AddComment appends a comment by the session user and returns it.
func (c *Client) AddComment(ctx context.Context, sess *Session, id, text string) (*model.Comment, error) {
	req := memory.AddCommentRequest{
		UserID:   sess.UserID,
		Username: sess.Username,
		Text:     text,
	}
	if c.monitor.IsAvailable() {
		cm, err := c.remote.AddComment(ctx, sess, id, text)
		if err == nil {
			return cm, nil
		}
		if !fallthroughErr(err) {
			return nil, err
		}
		c.monitor.MarkDisconnected()
	}
	fallbackOpsTotal.WithLabelValues("add comment").Inc()
	return c.local.AddComment(ctx, id, req)
}

// Register creates a new member account.
func (c *Client) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	req := user.RegisterRequest{Username: username, Email: email, Password: password}
	if c.monitor.IsAvailable() {
		u, err := c.remote.Register(ctx, req)
		if err == nil {
			return u, nil
		}
		if !fallthroughErr(err) {
			return nil, err
		}
		c.monitor.MarkDisconnected()
	}
	fallbackOpsTotal.WithLabelValues("register").Inc()
	return c.users.Register(ctx, req)
}

// Login checks credentials and returns a session for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var (
		us  *user.Session
		err error
	)
	if c.monitor.IsAvailable() {
		us, err = c.remote.Login(ctx, username, password)
		if err != nil && fallthroughErr(err) {
			c.monitor.MarkDisconnected()
			fallbackOpsTotal.WithLabelValues("login").Inc()
			us, err = c.users.Login(ctx, username, password)
		}
	} else {
		fallbackOpsTotal.WithLabelValues("login").Inc()
		us, err = c.users.Login(ctx, username, password)
	}
	if err != nil {
		return nil, err
	}
	return &Session{
		UserID:   us.User.ID,
		Username: us.User.Username,
		Role:     us.User.Role,
		Token:    us.Token,
	}, nil
}

// ListUsers returns all accounts. Admin sessions only.
func (c *Client) ListUsers(ctx context.Context, sess *Session) ([]*model.User, error) {
	if c.monitor.IsAvailable() {
		out, err := c.remote.ListUsers(ctx, sess)
		if err == nil {
			return out, nil
		}
		if !fallthroughErr(err) {
			return nil, err
		}
		c.monitor.MarkDisconnected()
	}
	fallbackOpsTotal.WithLabelValues("list users").Inc()
	return c.users.List(ctx, sess.actor())
}

// SetPermission grants or revokes a member's right to post. Admin sessions
// only.
func (c *Client) SetPermission(ctx context.Context, sess *Session, userID int64, allowed bool) (*model.User, error) {
	if c.monitor.IsAvailable() {
		u, err := c.remote.SetPermission(ctx, sess, userID, allowed)
		if err == nil {
			return u, nil
		}
		if !fallthroughErr(err) {
			return nil, err
		}
		c.monitor.MarkDisconnected()
	}
	fallbackOpsTotal.WithLabelValues("set permission").Inc()
	return c.users.SetPostingPermission(ctx, sess.actor(), userID, allowed)
}
