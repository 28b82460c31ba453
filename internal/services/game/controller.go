package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/chessgame-go/internal/chess"
	"github.com/mcoot/chessgame-go/internal/dependencies/clock"
	"github.com/mcoot/chessgame-go/internal/dependencies/random"
	"github.com/mcoot/chessgame-go/internal/gamelock"
	"github.com/mcoot/chessgame-go/internal/model"
	"github.com/mcoot/chessgame-go/internal/storage"
)

// Controller manages game records: creation, listing and seat assignment
type Controller struct {
	storage storage.Storage
	locks   *gamelock.Locks
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new game Controller. locks must be shared with the
// session coordinator so seat changes and moves on one game never interleave.
func NewController(
	storage storage.Storage,
	locks *gamelock.Locks,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		locks:   locks,
		clock:   clock,
		random:  random,
		logger:  logger,
	}
}

// CreateGame stores a new game in the opening position, white to move
func (c *Controller) CreateGame(ctx context.Context, name string) (*model.GameRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: game name is required", model.ErrInvalidInput)
	}

	now := c.clock.Now()
	record := &model.GameRecord{
		ID:        model.GameID(c.random.ID()),
		Name:      name,
		Game:      chess.NewGame(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.CreateGame(ctx, record); err != nil {
		c.logger.Error("failed to create game",
			slog.String("game_id", string(record.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(record.ID)),
		slog.String("name", name),
	)

	return record, nil
}

// GetGame retrieves a game by ID
func (c *Controller) GetGame(ctx context.Context, id model.GameID) (*model.GameRecord, error) {
	return c.storage.GetGame(ctx, id)
}

// ListGames returns every game, oldest first
func (c *Controller) ListGames(ctx context.Context) ([]*model.GameRecord, error) {
	return c.storage.ListGames(ctx)
}

// JoinGame claims color's seat for username. Claiming a seat the user
// already holds is a no-op; a seat held by someone else is ErrSlotTaken.
func (c *Controller) JoinGame(ctx context.Context, username string, id model.GameID, color chess.Color) (*model.GameRecord, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	record, err := c.storage.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}

	switch record.UsernameFor(color) {
	case username:
		return record, nil
	case "":
	default:
		return nil, model.ErrSlotTaken
	}

	record.SetUsername(color, username)
	record.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveGame(ctx, record); err != nil {
		return nil, err
	}

	c.logger.Info("player joined game",
		slog.String("game_id", string(id)),
		slog.String("username", username),
		slog.String("color", color.String()),
	)

	return record, nil
}

// ObserveGame checks that a game exists for an observer
func (c *Controller) ObserveGame(ctx context.Context, id model.GameID) (*model.GameRecord, error) {
	return c.storage.GetGame(ctx, id)
}

// Clear removes every user and game
func (c *Controller) Clear(ctx context.Context) error {
	if err := c.storage.Clear(ctx); err != nil {
		return err
	}
	c.logger.Warn("storage cleared")
	return nil
}
