package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/chessgame-go/internal/api/handler"
	"github.com/mcoot/chessgame-go/internal/api/middleware"
	"github.com/mcoot/chessgame-go/internal/api/response"
	"github.com/mcoot/chessgame-go/internal/services/auth"
	"github.com/mcoot/chessgame-go/internal/services/game"
	"github.com/mcoot/chessgame-go/internal/session"
	"github.com/mcoot/chessgame-go/internal/transport/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	GameController *game.Controller
	Coordinator    *session.Coordinator
	WebSocket      *ws.Server

	// StorageType is reported by the health endpoint
	StorageType string

	// EnableClear exposes DELETE /api/v1/db
	EnableClear bool
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.GameController, cfg.Coordinator.Registry())
	adminHandler := handler.NewAdminHandler(cfg.GameController, cfg.AuthService, cfg.Coordinator)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// User routes (no auth required for registering/logging in)
	api.HandleFunc("/users", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/session", userHandler.Login).Methods(http.MethodPost)

	// Logging out needs the session being ended
	api.Handle("/session", authMiddleware(http.HandlerFunc(userHandler.Logout))).Methods(http.MethodDelete)

	// Game routes (all require auth)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.List).Methods(http.MethodGet)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}/join", gameHandler.Join).Methods(http.MethodPut)

	if cfg.EnableClear {
		api.HandleFunc("/db", adminHandler.Clear).Methods(http.MethodDelete)
	}

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler(cfg)).Methods(http.MethodGet)

	// Game connections authenticate per command, not per request
	connect := r.PathPrefix("/connect").Subrouter()
	connect.Use(recoveryMiddleware)
	connect.Use(loggingMiddleware)
	connect.Handle("", cfg.WebSocket).Methods(http.MethodGet)

	return r
}

func healthHandler(cfg RouterConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{
			Status:      "ok",
			Storage:     cfg.StorageType,
			Connections: cfg.WebSocket.Connections(),
		})
	}
}
