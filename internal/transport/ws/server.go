// Package ws carries game commands and messages over gorilla/websocket.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/chessgame-go/internal/protocol"
	"github.com/mcoot/chessgame-go/internal/session"
)

// Handler receives decoded commands and close notifications
type Handler interface {
	Handle(ctx context.Context, conn session.Conn, cmd protocol.Command)
	Disconnected(conn session.Conn)
}

// Server upgrades HTTP requests to game connections
type Server struct {
	handler  Handler
	cfg      Config
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// NewServer creates a websocket Server
func NewServer(handler Handler, cfg Config, logger *slog.Logger) *Server {
	return &Server{
		handler: handler,
		cfg:     cfg,
		logger:  logger.With(slog.String("component", "ws")),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients authenticate per command, not by origin
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*Client]struct{}),
	}
}

// ServeHTTP upgrades the request and runs the connection until it closes
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed",
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("error", err.Error()),
		)
		return
	}

	client := newClient(uuid.NewString(), conn, s.cfg, s.logger)
	s.track(client)
	defer s.untrack(client)

	s.logger.Info("websocket connected",
		slog.String("connection", client.id),
		slog.String("remote_addr", r.RemoteAddr),
	)

	go client.writePump()
	s.readPump(client)
}

// readPump decodes commands in arrival order and hands them to the handler
func (s *Server) readPump(client *Client) {
	defer func() {
		s.handler.Disconnected(client)
		_ = client.Close()
		s.logger.Info("websocket disconnected", slog.String("connection", client.id))
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := client.conn
	conn.SetReadLimit(s.cfg.MaxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Warn("websocket read failed",
					slog.String("connection", client.id),
					slog.String("error", err.Error()),
				)
			}
			return
		}

		cmd, err := protocol.DecodeCommand(data)
		if err != nil {
			_ = client.Send(protocol.NewError(err.Error()))
			continue
		}

		s.handler.Handle(ctx, client, cmd)
	}
}

// CloseAll closes every live connection, for server shutdown
func (s *Server) CloseAll() {
	s.mu.Lock()
	clients := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		_ = c.Close()
	}
}

// Connections returns the number of live connections
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) track(c *Client) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(c *Client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
}
