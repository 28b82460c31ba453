package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/chessgame-go/internal/factory"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, factory.StorageTypeMemory, c.Storage.Type)
	assert.Equal(t, 24*time.Hour, c.Auth.SessionDuration)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
server:
  port: 9090
  enable_clear: true
storage:
  type: redis
  redis:
    url: redis://cache:6379/1
    game_ttl: 2h
auth:
  session_duration: 30m
log:
  level: debug
  format: text
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.Server.Port)
	assert.True(t, c.Server.EnableClear)
	assert.Equal(t, 15*time.Second, c.Server.ReadTimeout, "unset keys keep defaults")
	assert.Equal(t, "redis://cache:6379/1", c.Storage.Redis.URL)
	assert.Equal(t, 2*time.Hour, c.Storage.Redis.GameTTL)
	assert.Equal(t, 30*time.Minute, c.Auth.SessionDuration)

	fc := c.FactoryConfig(nil)
	require.NotNil(t, fc.RedisConfig)
	assert.Nil(t, fc.PostgresConfig)
	assert.Equal(t, "redis://cache:6379/1", fc.RedisConfig.URL)
	assert.Equal(t, 30*time.Minute, fc.AuthConfig.SessionDuration)
	assert.True(t, fc.EnableClear)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeFile(t, "server: [unterminated"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHESS_PORT", "7000")
	t.Setenv("STORAGE_TYPE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://db/chess")
	t.Setenv("LOG_LEVEL", "warn")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7000, c.Server.Port)
	assert.Equal(t, factory.StorageTypePostgres, c.Storage.Type)
	assert.Equal(t, "postgres://db/chess", c.Storage.Postgres.URL)
	assert.Equal(t, "warn", c.Log.Level)

	fc := c.FactoryConfig(nil)
	require.NotNil(t, fc.PostgresConfig)
	assert.Equal(t, "postgres://db/chess", fc.PostgresConfig.DSN)
}

func TestEnvBadPort(t *testing.T) {
	t.Setenv("CHESS_PORT", "eighty")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidateCollectsErrors(t *testing.T) {
	c := Default()
	c.Storage.Type = "sqlite"
	c.Log.Format = "xml"
	c.Auth.SessionDuration = 0

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown storage.type "sqlite"`)
	assert.Contains(t, err.Error(), `unknown log.format "xml"`)
	assert.Contains(t, err.Error(), "session_duration")
}

func TestValidateRejectsUnusableWebSocketSettings(t *testing.T) {
	c := Default()
	c.WebSocket.WriteWait = 0
	c.WebSocket.SendBuffer = 0

	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "websocket.write_wait must be positive")
	assert.Contains(t, err.Error(), "websocket.send_buffer must be positive")

	path := writeFile(t, `
websocket:
  send_buffer: -1
`)
	_, err = Load(path)
	assert.ErrorContains(t, err, "websocket.send_buffer")
}

func TestNewLoggerHonoursLevelAndFormat(t *testing.T) {
	c := Default()
	c.Log.Level = "warn"
	c.Log.Format = "text"

	var buf bytes.Buffer
	logger := c.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
}
