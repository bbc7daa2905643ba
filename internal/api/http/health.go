package http

import (
	"net/http"

	"github.com/KIDDASS/memories-instagram-app/internal/api/respond"
	"github.com/KIDDASS/memories-instagram-app/internal/health"
)

// HealthHandler reports service health.
type HealthHandler struct {
	store health.HealthPinger
}

func NewHealthHandler(store health.HealthPinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// CheckHealth handles GET /api/health. It pings the store directly so the
// client's availability probe sees the current state, not a cached one.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		respond.WriteUnavailable(w, "store unavailable")
		return
	}
	if err := h.store.HealthPing(r.Context()); err != nil {
		respond.WriteUnavailable(w, "store unavailable")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
