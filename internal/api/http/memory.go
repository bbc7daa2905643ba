package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/KIDDASS/memories-instagram-app/internal/api/respond"
	"github.com/KIDDASS/memories-instagram-app/internal/core/memory"
	"github.com/KIDDASS/memories-instagram-app/internal/core/user"
	"github.com/KIDDASS/memories-instagram-app/model"
)

// MemoryHandler handles memory-related HTTP requests (thin transport layer)
type MemoryHandler struct {
	memoryService *memory.Service
	userService   *user.Service
}

// NewMemoryHandler creates a new memory handler
func NewMemoryHandler(memoryService *memory.Service, userService *user.Service) *MemoryHandler {
	return &MemoryHandler{memoryService: memoryService, userService: userService}
}

// actorFromRequest builds the acting identity from request headers. The
// client sets these from its session; there is no ambient user state.
func actorFromRequest(r *http.Request) model.Actor {
	id, _ := strconv.ParseInt(r.Header.Get("X-User-ID"), 10, 64)
	role := r.Header.Get("X-User-Role")
	if role == "" {
		role = model.RoleMember
	}
	return model.Actor{ID: id, Role: role}
}

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
// Internal failures are logged with detail and returned as a generic message.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case memory.IsValidationError(err):
		respond.WriteBadRequest(w, err.Error())
	case memory.IsNotFoundError(err):
		respond.WriteNotFound(w, err.Error())
	case memory.IsPermissionError(err):
		respond.WriteForbidden(w, err.Error())
	case memory.IsConflictError(err):
		respond.WriteError(w, http.StatusConflict, err.Error())
	case memory.IsUnavailableError(err):
		respond.WriteUnavailable(w, "store unavailable")
	default:
		log.Error().Err(err).Msg("request failed")
		respond.WriteInternalError(w, "internal error")
	}
}

// ListMemories handles GET /api/memories?limit=N
func (h *MemoryHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respond.WriteBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	memories, err := h.memoryService.ListMemories(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, memories)
}

// GetMemory handles GET /api/memories/{id}
func (h *MemoryHandler) GetMemory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	m, err := h.memoryService.GetMemory(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, m)
}

// CreateMemory handles POST /api/memories
func (h *MemoryHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
		UserID      int64  `json:"user_id"`
		Username    string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	actor := actorFromRequest(r)
	if actor.ID == 0 {
		respond.WriteForbidden(w, "posting permission required")
		return
	}
	if !actor.IsAdmin() {
		allowed, err := h.userService.CanPost(r.Context(), actor.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if !allowed {
			respond.WriteForbidden(w, "posting permission required")
			return
		}
	}

	m, err := h.memoryService.CreateMemory(r.Context(), memory.CreateMemoryRequest{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		UserID:      req.UserID,
		Username:    req.Username,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, m)
}

// DeleteMemory handles DELETE /api/memories/{id}
func (h *MemoryHandler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.memoryService.DeleteMemory(r.Context(), id, actorFromRequest(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ToggleLike handles POST /api/memories/{id}/like
func (h *MemoryHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		UserID int64 `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	m, err := h.memoryService.ToggleLike(r.Context(), id, req.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, m)
}

// AddComment handles POST /api/memories/{id}/comments
func (h *MemoryHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		UserID   int64  `json:"userId"`
		Username string `json:"username"`
		Text     string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}

	c, err := h.memoryService.AddComment(r.Context(), id, memory.AddCommentRequest{
		UserID:   req.UserID,
		Username: req.Username,
		Text:     req.Text,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, c)
}
