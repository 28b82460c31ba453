package storage

import (
	"context"

	"github.com/mcoot/chessgame-go/internal/chess"
	"github.com/mcoot/chessgame-go/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, username string) (*model.User, error)

	// Game operations
	CreateGame(ctx context.Context, game *model.GameRecord) error
	GetGame(ctx context.Context, id model.GameID) (*model.GameRecord, error)
	ListGames(ctx context.Context) ([]*model.GameRecord, error)
	SaveGame(ctx context.Context, game *model.GameRecord) error
	UpdateGameState(ctx context.Context, id model.GameID, state *chess.Game) error

	// Clear removes all users and games
	Clear(ctx context.Context) error
}
