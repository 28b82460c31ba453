package handler

import (
	"net/http"

	"github.com/mcoot/chessgame-go/internal/api/response"
	"github.com/mcoot/chessgame-go/internal/services/auth"
	"github.com/mcoot/chessgame-go/internal/services/game"
	"github.com/mcoot/chessgame-go/internal/session"
)

// AdminHandler handles maintenance endpoints used by test harnesses
type AdminHandler struct {
	gameController *game.Controller
	authService    *auth.Service
	coordinator    *session.Coordinator
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(gameController *game.Controller, authService *auth.Service, coordinator *session.Coordinator) *AdminHandler {
	return &AdminHandler{
		gameController: gameController,
		authService:    authService,
		coordinator:    coordinator,
	}
}

// Clear handles DELETE /api/v1/db: removes every user, game, session and connection
func (h *AdminHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.gameController.Clear(r.Context()); err != nil {
		WriteError(w, err)
		return
	}
	h.authService.Clear()
	h.coordinator.Clear()

	response.NoContent(w)
}
