// Package session keeps every participant of a game in sync: it tracks live
// connections per game and applies player commands through the chess engine.
package session

import (
	"github.com/mcoot/chessgame-go/internal/model"
	"github.com/mcoot/chessgame-go/internal/protocol"
)

// Conn is the transport handle for one client
type Conn interface {
	// ID is unique for the lifetime of the process
	ID() string
	Send(msg protocol.Message) error
	Close() error
	IsOpen() bool
}

// Connection binds a credential to a transport and the game it joined
type Connection struct {
	Credential string
	Username   string
	GameID     model.GameID
	Conn       Conn
}
