// Package config loads server settings from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcoot/chessgame-go/internal/api"
	"github.com/mcoot/chessgame-go/internal/factory"
	"github.com/mcoot/chessgame-go/internal/services/auth"
	pgstorage "github.com/mcoot/chessgame-go/internal/storage/postgres"
	redisstorage "github.com/mcoot/chessgame-go/internal/storage/redis"
	"github.com/mcoot/chessgame-go/internal/transport/ws"
)

// Config is the server configuration
type Config struct {
	Server struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		EnableClear     bool          `yaml:"enable_clear"`
	} `yaml:"server"`

	Storage struct {
		Type string `yaml:"type"`

		Redis struct {
			URL          string        `yaml:"url"`
			PoolSize     int           `yaml:"pool_size"`
			MinIdleConns int           `yaml:"min_idle_conns"`
			GameTTL      time.Duration `yaml:"game_ttl"`
		} `yaml:"redis"`

		Postgres struct {
			URL             string        `yaml:"url"`
			MaxConns        int32         `yaml:"max_conns"`
			MinConns        int32         `yaml:"min_conns"`
			MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"`
			Migrate         bool          `yaml:"migrate"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Auth struct {
		SessionDuration time.Duration `yaml:"session_duration"`
		CleanupInterval time.Duration `yaml:"cleanup_interval"`
	} `yaml:"auth"`

	WebSocket struct {
		WriteWait      time.Duration `yaml:"write_wait"`
		PongWait       time.Duration `yaml:"pong_wait"`
		MaxMessageSize int64         `yaml:"max_message_size"`
		SendBuffer     int           `yaml:"send_buffer"`
	} `yaml:"websocket"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	c := &Config{}

	server := api.DefaultServerConfig()
	c.Server.Host = server.Host
	c.Server.Port = server.Port
	c.Server.ReadTimeout = server.ReadTimeout
	c.Server.WriteTimeout = server.WriteTimeout
	c.Server.ShutdownTimeout = server.ShutdownTimeout

	c.Storage.Type = factory.StorageTypeMemory

	rc := redisstorage.DefaultConfig()
	c.Storage.Redis.URL = rc.URL
	c.Storage.Redis.PoolSize = rc.PoolSize
	c.Storage.Redis.MinIdleConns = rc.MinIdleConns
	c.Storage.Redis.GameTTL = rc.GameTTL

	pc := pgstorage.DefaultConfig()
	c.Storage.Postgres.URL = pc.DSN
	c.Storage.Postgres.MaxConns = pc.MaxConns
	c.Storage.Postgres.MinConns = pc.MinConns
	c.Storage.Postgres.MaxConnLifetime = pc.MaxConnLifetime
	c.Storage.Postgres.Migrate = pc.Migrate

	c.Auth.SessionDuration = auth.DefaultConfig().SessionDuration
	c.Auth.CleanupInterval = 10 * time.Minute

	wc := ws.DefaultConfig()
	c.WebSocket.WriteWait = wc.WriteWait
	c.WebSocket.PongWait = wc.PongWait
	c.WebSocket.MaxMessageSize = wc.MaxMessageSize
	c.WebSocket.SendBuffer = wc.SendBuffer

	c.Log.Level = "info"
	c.Log.Format = "json"
	return c
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("CHESS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CHESS_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := getenv("STORAGE_TYPE"); v != "" {
		c.Storage.Type = v
	}
	if v := getenv("REDIS_URL"); v != "" {
		c.Storage.Redis.URL = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.Storage.Postgres.URL = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	switch c.Storage.Type {
	case factory.StorageTypeMemory:
	case factory.StorageTypeRedis:
		if c.Storage.Redis.URL == "" {
			errs = append(errs, errors.New("storage.redis.url required for redis storage"))
		}
	case factory.StorageTypePostgres:
		if c.Storage.Postgres.URL == "" {
			errs = append(errs, errors.New("storage.postgres.url required for postgres storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage.type %q", c.Storage.Type))
	}

	if c.Auth.SessionDuration <= 0 {
		errs = append(errs, errors.New("auth.session_duration must be positive"))
	}
	if c.WebSocket.WriteWait <= 0 {
		errs = append(errs, errors.New("websocket.write_wait must be positive"))
	}
	if c.WebSocket.PongWait <= 0 {
		errs = append(errs, errors.New("websocket.pong_wait must be positive"))
	}
	if c.WebSocket.SendBuffer <= 0 {
		errs = append(errs, errors.New("websocket.send_buffer must be positive"))
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// ServerConfig returns the HTTP server settings
func (c *Config) ServerConfig() api.ServerConfig {
	return api.ServerConfig{
		Host:            c.Server.Host,
		Port:            c.Server.Port,
		ReadTimeout:     c.Server.ReadTimeout,
		WriteTimeout:    c.Server.WriteTimeout,
		ShutdownTimeout: c.Server.ShutdownTimeout,
	}
}

// FactoryConfig returns the application wiring settings
func (c *Config) FactoryConfig(logger *slog.Logger) factory.Config {
	fc := factory.Config{
		Logger:      logger,
		StorageType: c.Storage.Type,
		EnableClear: c.Server.EnableClear,
		AuthConfig: auth.Config{
			SessionDuration: c.Auth.SessionDuration,
		},
		WSConfig: ws.Config{
			WriteWait:      c.WebSocket.WriteWait,
			PongWait:       c.WebSocket.PongWait,
			MaxMessageSize: c.WebSocket.MaxMessageSize,
			SendBuffer:     c.WebSocket.SendBuffer,
		},
	}

	switch c.Storage.Type {
	case factory.StorageTypeRedis:
		fc.RedisConfig = &redisstorage.Config{
			URL:          c.Storage.Redis.URL,
			PoolSize:     c.Storage.Redis.PoolSize,
			MinIdleConns: c.Storage.Redis.MinIdleConns,
			GameTTL:      c.Storage.Redis.GameTTL,
		}
	case factory.StorageTypePostgres:
		fc.PostgresConfig = &pgstorage.Config{
			DSN:             c.Storage.Postgres.URL,
			MaxConns:        c.Storage.Postgres.MaxConns,
			MinConns:        c.Storage.Postgres.MinConns,
			MaxConnLifetime: c.Storage.Postgres.MaxConnLifetime,
			Migrate:         c.Storage.Postgres.Migrate,
		}
	}

	return fc
}

// NewLogger builds the process logger described by the log section
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.Log.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log.level %q", s)
}
