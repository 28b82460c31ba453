package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcoot/chessgame-go/internal/chess"
	"github.com/mcoot/chessgame-go/internal/model"
	"github.com/mcoot/chessgame-go/internal/storage"
)

// uniqueViolation is the SQLSTATE for a duplicate key
const uniqueViolation = "23505"

// Storage is a PostgreSQL-backed implementation of the storage interface.
// Boards are stored in their 64-character encoding alongside the side to move.
type Storage struct {
	pool *pgxpool.Pool
}

// New connects a pool and, if configured, applies the schema
func New(ctx context.Context, cfg Config) (*Storage, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &Storage{pool: pool}
	if cfg.Migrate {
		if err := s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
	}
	return s, nil
}

// Close releases the pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) CreateUser(ctx context.Context, user *model.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (username, password_hash, email, created_at) VALUES ($1, $2, $3, $4)`,
		user.Username, user.PasswordHash, user.Email, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return model.ErrUsernameExists
		}
		return err
	}
	return nil
}

func (s *Storage) GetUser(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := s.pool.QueryRow(ctx,
		`SELECT username, password_hash, email, created_at FROM users WHERE username = $1`,
		username).Scan(&user.Username, &user.PasswordHash, &user.Email, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Game operations

const selectGame = `SELECT id, name, white_player, black_player, board, current_turn, created_at, updated_at FROM games`

func (s *Storage) CreateGame(ctx context.Context, game *model.GameRecord) error {
	board, turn := encodeState(game.Game)
	_, err := s.pool.Exec(ctx,
		`INSERT INTO games (id, name, white_player, black_player, board, current_turn, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(game.ID), game.Name, nullable(game.WhiteUsername), nullable(game.BlackUsername),
		board, turn, game.CreatedAt, game.UpdatedAt)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.GameRecord, error) {
	row := s.pool.QueryRow(ctx, selectGame+` WHERE id = $1`, string(id))
	game, err := scanGame(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}
	return game, nil
}

func (s *Storage) ListGames(ctx context.Context) ([]*model.GameRecord, error) {
	rows, err := s.pool.Query(ctx, selectGame+` ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := []*model.GameRecord{}
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func (s *Storage) SaveGame(ctx context.Context, game *model.GameRecord) error {
	board, turn := encodeState(game.Game)
	tag, err := s.pool.Exec(ctx,
		`UPDATE games SET name = $2, white_player = $3, black_player = $4, board = $5, current_turn = $6, updated_at = $7
		 WHERE id = $1`,
		string(game.ID), game.Name, nullable(game.WhiteUsername), nullable(game.BlackUsername),
		board, turn, game.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrGameNotFound
	}
	return nil
}

func (s *Storage) UpdateGameState(ctx context.Context, id model.GameID, state *chess.Game) error {
	board, turn := encodeState(state)
	tag, err := s.pool.Exec(ctx,
		`UPDATE games SET board = $2, current_turn = $3 WHERE id = $1`,
		string(id), board, turn)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrGameNotFound
	}
	return nil
}

func (s *Storage) Clear(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `TRUNCATE games, users`)
	return err
}

func scanGame(row pgx.Row) (*model.GameRecord, error) {
	var (
		game         model.GameRecord
		id           string
		white, black *string
		board, turn  string
	)
	if err := row.Scan(&id, &game.Name, &white, &black, &board, &turn, &game.CreatedAt, &game.UpdatedAt); err != nil {
		return nil, err
	}

	color, err := chess.ParseColor(turn)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", id, err)
	}
	state, err := chess.Deserialize(board, color)
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", id, err)
	}

	game.ID = model.GameID(id)
	game.Game = state
	if white != nil {
		game.WhiteUsername = *white
	}
	if black != nil {
		game.BlackUsername = *black
	}
	return &game, nil
}

func encodeState(g *chess.Game) (string, string) {
	if g == nil {
		g = chess.NewGame()
	}
	return g.Serialize(), g.Turn().String()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
