package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KIDDASS/memories-instagram-app/internal/core/user"
	"github.com/KIDDASS/memories-instagram-app/internal/store/sqlite"
	"github.com/KIDDASS/memories-instagram-app/model"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	// Same seeding the service binary does on boot.
	require.NoError(t, user.NewService(st, zerolog.Nop()).EnsureDefaultAdmin(context.Background()))

	srv := httptest.NewServer(NewRouter(st, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

type session struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

func doJSON(t *testing.T, method, url string, headers map[string]string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func loginAs(t *testing.T, srv *httptest.Server, username, password string) *session {
	t.Helper()
	var sess session
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", nil,
		map[string]string{"username": username, "password": password}, &sess)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return &sess
}

func headersFor(sess *session) map[string]string {
	return map[string]string{
		"X-User-ID":   fmt.Sprintf("%d", sess.User.ID),
		"X-User-Role": sess.User.Role,
	}
}

// registerMember registers a user and grants posting permission via the admin.
func registerMember(t *testing.T, srv *httptest.Server, username string) *session {
	t.Helper()
	var u model.User
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", nil, map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret1",
	}, &u)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.False(t, u.CanPost)

	admin := loginAs(t, srv, "admin", "admin123")
	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/users/%d/permission", srv.URL, u.ID),
		headersFor(admin), map[string]bool{"can_post": true}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return loginAs(t, srv, username, "secret1")
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMemoryLifecycle(t *testing.T) {
	srv := newTestServer(t)
	alice := registerMember(t, srv, "alice")
	bob := registerMember(t, srv, "bob")

	// Alice posts a memory.
	var created model.Memory
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/memories", headersFor(alice), map[string]interface{}{
		"title":       "Beach day",
		"description": "Sun and waves",
		"image_url":   "https://example.com/beach.jpg",
		"user_id":     alice.User.ID,
		"username":    alice.User.Username,
	}, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, 0, created.Likes)
	assert.NotNil(t, created.LikedBy)
	assert.NotNil(t, created.Comments)

	// It shows up in the feed.
	var feed []*model.Memory
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/memories", nil, nil, &feed)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, feed, 1)
	assert.Equal(t, "Beach day", feed[0].Title)

	// Bob likes it, then changes his mind.
	var liked model.Memory
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/memories/"+created.ID+"/like", headersFor(bob),
		map[string]int64{"userId": bob.User.ID}, &liked)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, liked.Likes)
	assert.True(t, liked.HasLiked(bob.User.ID))

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/memories/"+created.ID+"/like", headersFor(bob),
		map[string]int64{"userId": bob.User.ID}, &liked)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, liked.Likes)

	// Bob leaves a comment.
	var comment model.Comment
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/memories/"+created.ID+"/comments", headersFor(bob),
		map[string]interface{}{"userId": bob.User.ID, "username": "bob", "text": "Wish I was there"}, &comment)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Wish I was there", comment.Text)

	// Bob cannot delete Alice's post, and the post survives.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/memories/"+created.ID, headersFor(bob), nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var got model.Memory
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/memories/"+created.ID, nil, nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, got.Comments, 1)

	// Alice deletes her own post.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/memories/"+created.ID, headersFor(alice), nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/memories/"+created.ID, nil, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateMemoryValidationAndPermissions(t *testing.T) {
	srv := newTestServer(t)
	alice := registerMember(t, srv, "alice")

	// Missing title.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/memories", headersFor(alice), map[string]interface{}{
		"title":     "",
		"image_url": "https://example.com/a.jpg",
		"user_id":   alice.User.ID,
		"username":  "alice",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Relative image URL.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/memories", headersFor(alice), map[string]interface{}{
		"title":     "Hello",
		"image_url": "a.jpg",
		"user_id":   alice.User.ID,
		"username":  "alice",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// No actor identity at all is rejected outright.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/memories", nil, map[string]interface{}{
		"title":     "Anonymous",
		"image_url": "https://example.com/a.jpg",
		"user_id":   alice.User.ID,
		"username":  "alice",
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A member without posting permission is rejected before validation.
	var carol model.User
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", nil, map[string]string{
		"username": "carol", "email": "carol@example.com", "password": "secret1",
	}, &carol)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	carolSess := loginAs(t, srv, "carol", "secret1")

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/memories", headersFor(carolSess), map[string]interface{}{
		"title":     "Not allowed",
		"image_url": "https://example.com/a.jpg",
		"user_id":   carol.ID,
		"username":  "carol",
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAuthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	// Register, then collide on the username.
	var u model.User
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", nil, map[string]string{
		"username": "dave", "email": "dave@example.com", "password": "secret1",
	}, &u)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", nil, map[string]string{
		"username": "dave", "email": "dave2@example.com", "password": "secret1",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Wrong password.
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", nil, map[string]string{
		"username": "dave", "password": "wrong",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The user list is admin only.
	dave := loginAs(t, srv, "dave", "secret1")
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users", headersFor(dave), nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := loginAs(t, srv, "admin", "admin123")
	var users []*model.User
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/users", headersFor(admin), nil, &users)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, users, 2)
}
