package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	httpHandlers "github.com/KIDDASS/memories-instagram-app/internal/api/http"
	"github.com/KIDDASS/memories-instagram-app/internal/api/recovery"
	"github.com/KIDDASS/memories-instagram-app/internal/core/memory"
	"github.com/KIDDASS/memories-instagram-app/internal/core/user"
	"github.com/KIDDASS/memories-instagram-app/internal/health"
	"github.com/KIDDASS/memories-instagram-app/internal/store"
)

// NewRouter creates the HTTP router with all API routes.
func NewRouter(s store.Store, log zerolog.Logger) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	// Domain services
	memoryService := memory.NewService(s)
	userService := user.NewService(s, log)

	// Handlers
	pinger, _ := s.(health.HealthPinger)
	healthHandler := httpHandlers.NewHealthHandler(pinger)
	memoryHandler := httpHandlers.NewMemoryHandler(memoryService, userService)
	userHandler := httpHandlers.NewUserHandler(userService)

	// Health endpoint
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Memory endpoints
	router.HandleFunc("/api/memories", memoryHandler.ListMemories).Methods("GET")
	router.HandleFunc("/api/memories", memoryHandler.CreateMemory).Methods("POST")
	router.HandleFunc("/api/memories/{id}", memoryHandler.GetMemory).Methods("GET")
	router.HandleFunc("/api/memories/{id}", memoryHandler.DeleteMemory).Methods("DELETE")
	router.HandleFunc("/api/memories/{id}/like", memoryHandler.ToggleLike).Methods("POST")
	router.HandleFunc("/api/memories/{id}/comments", memoryHandler.AddComment).Methods("POST")

	// Auth and user endpoints
	router.HandleFunc("/api/auth/register", userHandler.Register).Methods("POST")
	router.HandleFunc("/api/auth/login", userHandler.Login).Methods("POST")
	router.HandleFunc("/api/users", userHandler.ListUsers).Methods("GET")
	router.HandleFunc("/api/users/{id:[0-9]+}/permission", userHandler.SetPermission).Methods("POST")

	return router
}
