package response

import (
	"time"

	"github.com/mcoot/chessgame-go/internal/model"
	"github.com/mcoot/chessgame-go/internal/services/auth"
)

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Username     string    `json:"username"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Username:     s.Username,
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Game represents a game in API responses
type Game struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	WhiteUsername string    `json:"white_username,omitempty"`
	BlackUsername string    `json:"black_username,omitempty"`
	Board         string    `json:"board"`
	Turn          string    `json:"turn"`
	Status        string    `json:"status"`
	Finished      bool      `json:"finished"`
	CreatedAt     time.Time `json:"created_at"`
}

// GameFromModel converts a model.GameRecord to a response Game
func GameFromModel(r *model.GameRecord, finished bool) Game {
	return Game{
		ID:            string(r.ID),
		Name:          r.Name,
		WhiteUsername: r.WhiteUsername,
		BlackUsername: r.BlackUsername,
		Board:         r.Game.Serialize(),
		Turn:          r.Game.Turn().String(),
		Status:        string(r.Game.Status()),
		Finished:      finished,
		CreatedAt:     r.CreatedAt,
	}
}

// GameList is the response for listing games
type GameList struct {
	Games []Game `json:"games"`
}

// Health is the response for the health endpoint
type Health struct {
	Status      string `json:"status"`
	Storage     string `json:"storage"`
	Connections int    `json:"connections"`
}
