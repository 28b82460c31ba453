package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/chessgame-go/internal/chess"
	"github.com/mcoot/chessgame-go/internal/gamelock"
	"github.com/mcoot/chessgame-go/internal/model"
	"github.com/mcoot/chessgame-go/internal/protocol"
)

// Authenticator resolves a credential to a username
type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (string, error)
}

// GameStore is the slice of storage the coordinator needs
type GameStore interface {
	GetGame(ctx context.Context, id model.GameID) (*model.GameRecord, error)
	UpdateGameState(ctx context.Context, id model.GameID, state *chess.Game) error
}

// Coordinator applies commands from game connections. All work on one game
// runs under that game's lock; different games never contend.
type Coordinator struct {
	auth     Authenticator
	store    GameStore
	registry *Registry
	locks    *gamelock.Locks
	logger   *slog.Logger
}

// NewCoordinator creates a Coordinator
func NewCoordinator(auth Authenticator, store GameStore, registry *Registry, locks *gamelock.Locks, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Coordinator{
		auth:     auth,
		store:    store,
		registry: registry,
		locks:    locks,
		logger:   logger.With(slog.String("component", "session")),
	}
}

// Registry returns the connection registry
func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// Handle authenticates cmd and dispatches it. Failures are reported to conn
// as a private ERROR and never reach other participants.
func (c *Coordinator) Handle(ctx context.Context, conn Conn, cmd protocol.Command) {
	username, err := c.auth.Authenticate(ctx, cmd.AuthToken)
	if err != nil {
		c.sendError(conn, model.ErrUnauthorized)
		return
	}

	switch cmd.CommandType {
	case protocol.JoinPlayer:
		if cmd.PlayerColor == nil {
			c.sendError(conn, model.ErrInvalidColor)
			return
		}
		c.JoinAsPlayer(ctx, conn, cmd.AuthToken, username, cmd.GameID, *cmd.PlayerColor)
	case protocol.JoinObserver:
		c.JoinAsObserver(ctx, conn, cmd.AuthToken, username, cmd.GameID)
	case protocol.MakeMove:
		if cmd.Move == nil {
			c.sendError(conn, model.ErrInvalidMove)
			return
		}
		c.MakeMove(ctx, conn, cmd.AuthToken, username, *cmd.Move)
	case protocol.Leave:
		c.Leave(ctx, conn, cmd.AuthToken, username, cmd.GameID)
	case protocol.Resign:
		c.Resign(ctx, conn, cmd.AuthToken, username, cmd.GameID)
	default:
		c.sendError(conn, fmt.Errorf("%w: unknown commandType %q", model.ErrInvalidCommand, cmd.CommandType))
	}
}

// JoinAsPlayer registers conn in the game and sends it the current board. If
// the requested seat belongs to someone else the connection stays registered
// as a watcher and receives an ERROR instead.
func (c *Coordinator) JoinAsPlayer(ctx context.Context, conn Conn, credential, username string, id model.GameID, color chess.Color) {
	unlock := c.locks.Lock(id)
	defer unlock()

	record, err := c.store.GetGame(ctx, id)
	if err != nil {
		c.sendError(conn, err)
		return
	}

	c.registry.Register(&Connection{Credential: credential, Username: username, GameID: id, Conn: conn})

	if record.UsernameFor(color) != username {
		c.sendError(conn, model.ErrSlotTaken)
		return
	}

	c.send(conn, protocol.NewLoadGame(record.Game))
	c.broadcast(id, protocol.NewNotification(fmt.Sprintf("%s has joined as the %s player.", username, color)), credential)

	c.logger.Info("player joined",
		slog.String("game_id", string(id)),
		slog.String("username", username),
		slog.String("color", color.String()),
	)
}

// JoinAsObserver registers conn in the game and sends it the current board
func (c *Coordinator) JoinAsObserver(ctx context.Context, conn Conn, credential, username string, id model.GameID) {
	unlock := c.locks.Lock(id)
	defer unlock()

	record, err := c.store.GetGame(ctx, id)
	if err != nil {
		c.sendError(conn, err)
		return
	}

	c.registry.Register(&Connection{Credential: credential, Username: username, GameID: id, Conn: conn})

	c.send(conn, protocol.NewLoadGame(record.Game))
	c.broadcast(id, protocol.NewNotification(username+" has joined as an observer."), credential)

	c.logger.Info("observer joined",
		slog.String("game_id", string(id)),
		slog.String("username", username),
	)
}

// MakeMove applies move for the player behind credential in the game their
// connection is registered to.
func (c *Coordinator) MakeMove(ctx context.Context, conn Conn, credential, username string, move chess.Move) {
	registered, unlock, ok := c.lockRegistered(credential)
	if !ok {
		c.sendError(conn, errMoveNotInGame)
		return
	}
	defer unlock()

	id := registered.GameID
	record, err := c.store.GetGame(ctx, id)
	if err != nil {
		c.sendError(conn, err)
		return
	}

	if _, isPlayer := record.PlayerColor(username); !isPlayer {
		c.sendError(conn, errMoveNotPlayer)
		return
	}
	if record.UsernameFor(record.Game.Turn()) != username {
		c.sendError(conn, errMoveNotYourTurn)
		return
	}
	if c.registry.IsFinished(id) {
		c.sendError(conn, errMoveFinished)
		return
	}

	snapshot := record.Game.Clone()
	if err := record.Game.MakeMove(move); err != nil {
		c.sendError(conn, err)
		return
	}

	if err := c.store.UpdateGameState(ctx, id, record.Game); err != nil {
		record.Game = snapshot
		c.logger.Error("failed to save move",
			slog.String("game_id", string(id)),
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		c.sendError(conn, errSaveFailed)
		return
	}

	c.logger.Info("move made",
		slog.String("game_id", string(id)),
		slog.String("username", username),
		slog.String("move", move.String()),
	)

	c.broadcast(id, protocol.NewLoadGame(record.Game), "")
	c.broadcast(id, protocol.NewNotification(fmt.Sprintf("%s moved %s", username, move)), credential)

	g := record.Game
	turn := g.Turn()
	name := record.UsernameFor(turn)
	if name == "" {
		name = turn.String()
	}

	switch {
	case g.IsInStalemate(turn):
		c.broadcast(id, protocol.NewNotification("The game is a stalemate!"), "")
		c.finish(id, "stalemate")
	case g.IsInCheckmate(turn):
		c.broadcast(id, protocol.NewNotification(name+" has been checkmated!"), "")
		c.finish(id, "checkmate")
	case g.IsInCheck(turn):
		c.broadcast(id, protocol.NewNotification(name+" is in check!"), "")
	}
}

// Leave removes the caller from game id and closes the connection. A caller
// registered in a different game gets an ERROR and stays where it is.
func (c *Coordinator) Leave(_ context.Context, conn Conn, credential, username string, id model.GameID) {
	registered, unlock, ok := c.lockRegistered(credential)
	if !ok {
		c.sendError(conn, errLeaveNotInGame)
		return
	}
	defer unlock()

	if registered.GameID != id {
		c.sendError(conn, errLeaveOtherGame)
		return
	}

	c.registry.Unregister(registered)
	c.closeConn(registered.Conn)
	if registered.Conn.ID() != conn.ID() {
		c.closeConn(conn)
	}

	c.broadcast(registered.GameID, protocol.NewNotification(username+" has left the game."), credential)

	c.logger.Info("left game",
		slog.String("game_id", string(registered.GameID)),
		slog.String("username", username),
	)
}

// Resign ends game id on behalf of one of its players
func (c *Coordinator) Resign(ctx context.Context, conn Conn, credential, username string, id model.GameID) {
	registered, unlock, ok := c.lockRegistered(credential)
	if !ok {
		c.sendError(conn, errResignNotInGame)
		return
	}
	defer unlock()

	if registered.GameID != id {
		c.sendError(conn, errResignOtherGame)
		return
	}

	record, err := c.store.GetGame(ctx, id)
	if err != nil {
		c.sendError(conn, err)
		return
	}

	if _, isPlayer := record.PlayerColor(username); !isPlayer {
		c.sendError(conn, errResignNotPlayer)
		return
	}
	if c.registry.IsFinished(id) {
		c.sendError(conn, errResignFinished)
		return
	}

	c.broadcast(id, protocol.NewNotification(username+" has resigned from the game."), "")
	c.registry.Unregister(registered)
	c.closeConn(registered.Conn)
	c.finish(id, "resignation")
}

// Disconnected drops every registration that used conn and tells the rest of
// each game. Transports call it when the peer goes away.
func (c *Coordinator) Disconnected(conn Conn) {
	for _, registered := range c.registry.ByTransport(conn) {
		unlock := c.locks.Lock(registered.GameID)

		if current, ok := c.registry.Lookup(registered.Credential); ok && current == registered {
			c.registry.Unregister(registered)
			c.broadcast(registered.GameID, protocol.NewNotification(registered.Username+" has left the game."), registered.Credential)
			c.logger.Info("connection dropped",
				slog.String("game_id", string(registered.GameID)),
				slog.String("username", registered.Username),
			)
		}

		unlock()
	}
}

// Clear forgets all connections and finished games
func (c *Coordinator) Clear() {
	c.registry.Clear()
}

// lockRegistered finds credential's connection and takes its game's lock,
// retrying if the connection moved to another game in between.
func (c *Coordinator) lockRegistered(credential string) (*Connection, func(), bool) {
	for {
		registered, ok := c.registry.Lookup(credential)
		if !ok {
			return nil, nil, false
		}

		unlock := c.locks.Lock(registered.GameID)
		current, ok := c.registry.Lookup(credential)
		if ok && current == registered {
			return registered, unlock, true
		}
		unlock()
	}
}

// broadcast sends msg to every open connection in the game except the one
// registered for exclude, then purges connections found closed.
func (c *Coordinator) broadcast(id model.GameID, msg protocol.Message, exclude string) {
	var dead []*Connection

	for _, conn := range c.registry.Snapshot(id) {
		if !conn.Conn.IsOpen() {
			dead = append(dead, conn)
			continue
		}
		if exclude != "" && conn.Credential == exclude {
			continue
		}
		c.send(conn.Conn, msg)
	}

	for _, conn := range dead {
		c.registry.Unregister(conn)
	}

	if len(dead) > 0 {
		c.logger.Debug("pruned dead connections",
			slog.String("game_id", string(id)),
			slog.Int("connections", len(dead)),
		)
	}
}

func (c *Coordinator) finish(id model.GameID, reason string) {
	c.registry.MarkFinished(id)
	c.logger.Info("game finished",
		slog.String("game_id", string(id)),
		slog.String("reason", reason),
	)
}

func (c *Coordinator) send(conn Conn, msg protocol.Message) {
	if err := conn.Send(msg); err != nil {
		c.logger.Warn("failed to send message",
			slog.String("connection", conn.ID()),
			slog.String("error", err.Error()),
		)
	}
}

func (c *Coordinator) sendError(conn Conn, err error) {
	c.send(conn, protocol.NewError(errorText(err)))
}

func (c *Coordinator) closeConn(conn Conn) {
	if !conn.IsOpen() {
		return
	}
	if err := conn.Close(); err != nil {
		c.logger.Debug("failed to close connection",
			slog.String("connection", conn.ID()),
			slog.String("error", err.Error()),
		)
	}
}
