// Package protocol defines the JSON messages exchanged over a game connection.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/mcoot/chessgame-go/internal/chess"
	"github.com/mcoot/chessgame-go/internal/model"
)

// CommandType discriminates inbound commands
type CommandType string

const (
	JoinPlayer   CommandType = "JOIN_PLAYER"
	JoinObserver CommandType = "JOIN_OBSERVER"
	MakeMove     CommandType = "MAKE_MOVE"
	Leave        CommandType = "LEAVE"
	Resign       CommandType = "RESIGN"
)

// Command is a request from a client. Every command carries the sender's
// credential; the remaining fields depend on CommandType.
type Command struct {
	CommandType CommandType  `json:"commandType"`
	AuthToken   string       `json:"authToken"`
	GameID      model.GameID `json:"gameID,omitempty"`
	PlayerColor *chess.Color `json:"playerColor,omitempty"`
	Move        *chess.Move  `json:"move,omitempty"`
}

// DecodeCommand parses and validates a command
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("%w: %v", model.ErrInvalidCommand, err)
	}
	if err := cmd.Validate(); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// Validate checks that the fields required by the command type are present
func (c Command) Validate() error {
	switch c.CommandType {
	case JoinPlayer:
		if c.GameID == "" {
			return fmt.Errorf("%w: gameID is required", model.ErrInvalidCommand)
		}
		if c.PlayerColor == nil {
			return fmt.Errorf("%w: playerColor is required", model.ErrInvalidColor)
		}
	case JoinObserver, Leave, Resign:
		if c.GameID == "" {
			return fmt.Errorf("%w: gameID is required", model.ErrInvalidCommand)
		}
	case MakeMove:
		if c.Move == nil {
			return fmt.Errorf("%w: move is required", model.ErrInvalidMove)
		}
		if !c.Move.Start.Valid() || !c.Move.End.Valid() {
			return fmt.Errorf("%w: square off the board", model.ErrInvalidMove)
		}
	case "":
		return fmt.Errorf("%w: commandType is required", model.ErrInvalidCommand)
	default:
		return fmt.Errorf("%w: unknown commandType %q", model.ErrInvalidCommand, c.CommandType)
	}
	return nil
}

// NewJoinPlayer builds a JOIN_PLAYER command
func NewJoinPlayer(token string, id model.GameID, color chess.Color) Command {
	return Command{CommandType: JoinPlayer, AuthToken: token, GameID: id, PlayerColor: &color}
}

// NewJoinObserver builds a JOIN_OBSERVER command
func NewJoinObserver(token string, id model.GameID) Command {
	return Command{CommandType: JoinObserver, AuthToken: token, GameID: id}
}

// NewMakeMove builds a MAKE_MOVE command
func NewMakeMove(token string, m chess.Move) Command {
	return Command{CommandType: MakeMove, AuthToken: token, Move: &m}
}

// NewLeave builds a LEAVE command
func NewLeave(token string, id model.GameID) Command {
	return Command{CommandType: Leave, AuthToken: token, GameID: id}
}

// NewResign builds a RESIGN command
func NewResign(token string, id model.GameID) Command {
	return Command{CommandType: Resign, AuthToken: token, GameID: id}
}
