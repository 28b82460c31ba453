package model

import (
	"time"

	"github.com/mcoot/chessgame-go/internal/chess"
)

// GameID uniquely identifies a game
type GameID string

// GameRecord is the persisted state of a game. An empty username is an open slot.
type GameRecord struct {
	ID            GameID      `json:"id"`
	Name          string      `json:"name"`
	WhiteUsername string      `json:"white_username,omitempty"`
	BlackUsername string      `json:"black_username,omitempty"`
	Game          *chess.Game `json:"game"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// UsernameFor returns the username assigned to color, or "" if the slot is open
func (r *GameRecord) UsernameFor(color chess.Color) string {
	if color == chess.White {
		return r.WhiteUsername
	}
	return r.BlackUsername
}

// SetUsername assigns color's slot
func (r *GameRecord) SetUsername(color chess.Color, username string) {
	if color == chess.White {
		r.WhiteUsername = username
	} else {
		r.BlackUsername = username
	}
}

// PlayerColor returns the color username plays, if any
func (r *GameRecord) PlayerColor(username string) (chess.Color, bool) {
	switch {
	case username == "":
		return chess.White, false
	case r.WhiteUsername == username:
		return chess.White, true
	case r.BlackUsername == username:
		return chess.Black, true
	}
	return chess.White, false
}

// Clone returns a deep copy of the record
func (r *GameRecord) Clone() *GameRecord {
	c := *r
	if r.Game != nil {
		c.Game = r.Game.Clone()
	}
	return &c
}
