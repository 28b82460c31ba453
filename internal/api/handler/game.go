package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/chessgame-go/internal/api/middleware"
	"github.com/mcoot/chessgame-go/internal/api/request"
	"github.com/mcoot/chessgame-go/internal/api/response"
	"github.com/mcoot/chessgame-go/internal/chess"
	"github.com/mcoot/chessgame-go/internal/model"
	"github.com/mcoot/chessgame-go/internal/services/game"
)

// FinishedChecker reports games that ended by mate, stalemate or resignation
type FinishedChecker interface {
	IsFinished(id model.GameID) bool
}

// GameHandler handles game listing, creation and seat endpoints
type GameHandler struct {
	gameController *game.Controller
	finished       FinishedChecker
}

// NewGameHandler creates a new game handler
func NewGameHandler(gameController *game.Controller, finished FinishedChecker) *GameHandler {
	return &GameHandler{
		gameController: gameController,
		finished:       finished,
	}
}

// List handles GET /api/v1/games
func (h *GameHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.gameController.ListGames(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	games := make([]response.Game, 0, len(records))
	for _, rec := range records {
		games = append(games, h.toResponse(rec))
	}

	response.JSON(w, http.StatusOK, response.GameList{Games: games})
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	record, err := h.gameController.CreateGame(r.Context(), req.Name)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, "/api/v1/games/"+string(record.ID), h.toResponse(record))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	record, err := h.gameController.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, h.toResponse(record))
}

// Join handles PUT /api/v1/games/{id}/join
func (h *GameHandler) Join(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	var req request.JoinGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	var (
		record *model.GameRecord
		err    error
	)
	if req.PlayerColor == "" {
		record, err = h.gameController.ObserveGame(r.Context(), id)
	} else {
		color, parseErr := chess.ParseColor(req.PlayerColor)
		if parseErr != nil {
			WriteError(w, model.ErrInvalidColor)
			return
		}
		record, err = h.gameController.JoinGame(r.Context(), session.Username, id, color)
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, h.toResponse(record))
}

func (h *GameHandler) toResponse(rec *model.GameRecord) response.Game {
	finished := h.finished != nil && h.finished.IsFinished(rec.ID)
	return response.GameFromModel(rec, finished)
}
