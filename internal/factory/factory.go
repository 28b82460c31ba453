package factory

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mcoot/chessgame-go/internal/api"
	"github.com/mcoot/chessgame-go/internal/dependencies/clock"
	"github.com/mcoot/chessgame-go/internal/dependencies/random"
	"github.com/mcoot/chessgame-go/internal/gamelock"
	"github.com/mcoot/chessgame-go/internal/services/auth"
	"github.com/mcoot/chessgame-go/internal/services/game"
	"github.com/mcoot/chessgame-go/internal/session"
	"github.com/mcoot/chessgame-go/internal/storage"
	"github.com/mcoot/chessgame-go/internal/storage/memory"
	pgstorage "github.com/mcoot/chessgame-go/internal/storage/postgres"
	redisstorage "github.com/mcoot/chessgame-go/internal/storage/redis"
	"github.com/mcoot/chessgame-go/internal/transport/ws"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage     storage.Storage
	StorageType string

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	AuthService    *auth.Service
	GameController *game.Controller

	// Live sessions
	Locks       *gamelock.Locks
	Registry    *session.Registry
	Coordinator *session.Coordinator
	WebSocket   *ws.Server

	// Router serves the HTTP API and the websocket endpoint
	Router http.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// WSConfig holds websocket settings (optional)
	// If zero value, defaults to ws.DefaultConfig()
	WSConfig ws.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "postgres")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresConfig holds database settings (required if StorageType is "postgres")
	PostgresConfig *pgstorage.Config
	// EnableClear exposes the clear-database endpoint
	EnableClear bool
}

// New creates a new application with all dependencies wired
func New(ctx context.Context, cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	store, err := newStorage(ctx, storageType, cfg, logger)
	if err != nil {
		return nil, err
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}
	wsCfg := cfg.WSConfig
	if wsCfg == (ws.Config{}) {
		wsCfg = ws.DefaultConfig()
	}

	app := newWithDependencies(store, clock.New(), random.New(), authCfg, wsCfg, logger)
	app.StorageType = storageType
	app.Router = app.newRouter(logger, cfg.EnableClear)
	return app, nil
}

func newStorage(ctx context.Context, storageType string, cfg Config, logger *slog.Logger) (storage.Storage, error) {
	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		return redisstorage.New(*cfg.RedisConfig)
	case StorageTypePostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when StorageType is postgres")
		}
		pg, err := pgstorage.New(ctx, *cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		if version, dirty, err := pg.SchemaVersion(ctx); err == nil {
			logger.Info("postgres schema", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
		}
		return pg, nil
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'postgres'")
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, authCfg auth.Config, wsCfg ws.Config, logger *slog.Logger) *App {
	locks := gamelock.New()
	registry := session.NewRegistry()

	authService := auth.New(store, clk, rnd, authCfg, logger)
	gameController := game.NewController(store, locks, clk, rnd, logger)
	coordinator := session.NewCoordinator(authService, store, registry, locks, logger)
	wsServer := ws.NewServer(coordinator, wsCfg, logger)

	return &App{
		Storage:        store,
		StorageType:    StorageTypeMemory,
		Clock:          clk,
		Random:         rnd,
		AuthService:    authService,
		GameController: gameController,
		Locks:          locks,
		Registry:       registry,
		Coordinator:    coordinator,
		WebSocket:      wsServer,
	}
}

func (a *App) newRouter(logger *slog.Logger, enableClear bool) http.Handler {
	return api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    a.AuthService,
		GameController: a.GameController,
		Coordinator:    a.Coordinator,
		WebSocket:      a.WebSocket,
		StorageType:    a.StorageType,
		EnableClear:    enableClear,
	})
}

// Close releases the storage backend's connections, if it holds any.
func (a *App) Close() error {
	a.WebSocket.CloseAll()
	if c, ok := a.Storage.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
