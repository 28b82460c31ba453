package ws

import "time"

// Config holds websocket timing and buffering settings
type Config struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed to read the next pong message from the peer
	PongWait time.Duration

	// Maximum message size allowed from peer
	MaxMessageSize int64

	// Outbound messages buffered per connection before it is dropped as slow
	SendBuffer int
}

// DefaultConfig returns sensible defaults for websocket connections
func DefaultConfig() Config {
	return Config{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		MaxMessageSize: 4096,
		SendBuffer:     256,
	}
}

// pingPeriod must be less than PongWait
func (c Config) pingPeriod() time.Duration {
	return (c.PongWait * 9) / 10
}
