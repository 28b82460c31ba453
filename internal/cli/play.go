package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/chessgame-go/internal/chess"
	"github.com/mcoot/chessgame-go/internal/model"
	"github.com/mcoot/chessgame-go/internal/protocol"
)

const playHelp = `Type a move such as "e2e4" or "e7 e8 q" and press enter.
"moves e2" lists where the piece on e2 can go.
Other commands: resign, leave, board, help. Ctrl+C disconnects.`

func newPlayCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "play <id>",
		Short: "Play a game live as WHITE or BLACK",
		Long: `Connect to a game over the websocket, take the given seat and play moves
typed on stdin. Claim the seat first with "chessctl game join".

` + playHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := chess.ParseColor(color)
			if err != nil {
				return fmt.Errorf("--color must be WHITE or BLACK")
			}
			if cfg.Token == "" {
				return fmt.Errorf("not logged in")
			}
			id := model.GameID(args[0])
			return runLive(cmd.Context(), protocol.NewJoinPlayer(cfg.Token, id, c), os.Stdin)
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "Seat to play: WHITE or BLACK (required)")
	_ = cmd.MarkFlagRequired("color")

	return cmd
}

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <id>",
		Short: "Observe a game live",
		Long: `Connect to a game over the websocket as an observer and print every board
and notification. Type "leave" or press Ctrl+C to stop.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return fmt.Errorf("not logged in")
			}
			id := model.GameID(args[0])
			return runLive(cmd.Context(), protocol.NewJoinObserver(cfg.Token, id), os.Stdin)
		},
	}
}

// liveConn serializes writes to the websocket
type liveConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *liveConn) send(cmd protocol.Command) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return c.conn.WriteJSON(cmd)
}

func (c *liveConn) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	_ = c.conn.Close()
}

// runLive joins with the given command, then relays stdin commands and prints
// server messages until the server closes the connection or ctx ends.
func runLive(parent context.Context, join protocol.Command, in io.Reader) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, client.WebSocketURL(), nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	conn := &liveConn{conn: ws}
	defer conn.close()

	out := NewOutput(cfg.Output)

	if err := conn.send(join); err != nil {
		return fmt.Errorf("failed to join: %w", err)
	}

	var (
		lastMu sync.Mutex
		last   *protocol.Message
	)

	readErr := make(chan error, 1)
	go func() {
		for {
			var msg protocol.Message
			if err := ws.ReadJSON(&msg); err != nil {
				readErr <- err
				return
			}
			if msg.ServerMessageType == protocol.LoadGame {
				lastMu.Lock()
				last = &msg
				lastMu.Unlock()
			}
			out.Print(msg)
		}
	}()

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			switch strings.ToLower(line) {
			case "":
				continue
			case "help":
				out.PrintMessage(playHelp)
				continue
			case "board":
				lastMu.Lock()
				if last != nil {
					out.Print(*last)
				}
				lastMu.Unlock()
				continue
			}

			if square, ok := strings.CutPrefix(strings.ToLower(line), "moves "); ok {
				lastMu.Lock()
				text, err := describeMoves(last, square)
				lastMu.Unlock()
				if err != nil {
					out.PrintError(err)
				} else {
					out.PrintMessage(text)
				}
				continue
			}

			cmd, err := parseInput(line, join.AuthToken, join.GameID)
			if err != nil {
				out.PrintError(err)
				continue
			}
			if err := conn.send(cmd); err != nil {
				out.PrintError(err)
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-readErr:
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || errors.Is(err, io.EOF) {
			if cfg.Output != "json" {
				out.PrintMessage("Disconnected")
			}
			return nil
		}
		return fmt.Errorf("connection lost: %w", err)
	}
}

// parseInput turns a line typed by the user into a command
func parseInput(line, token string, id model.GameID) (protocol.Command, error) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "resign":
		return protocol.NewResign(token, id), nil
	case "leave", "quit", "exit":
		return protocol.NewLeave(token, id), nil
	}

	m, err := chess.ParseMove(line)
	if err != nil {
		return protocol.Command{}, fmt.Errorf("%w (type help for commands)", err)
	}
	return protocol.NewMakeMove(token, m), nil
}

// describeMoves lists the legal destinations of the piece on square in the
// most recent board the server sent
func describeMoves(last *protocol.Message, square string) (string, error) {
	if last == nil {
		return "", errors.New("no board received yet")
	}
	pos, err := chess.ParsePosition(strings.TrimSpace(square))
	if err != nil {
		return "", err
	}
	g, err := last.DecodeGame()
	if err != nil {
		return "", fmt.Errorf("unreadable board: %w", err)
	}

	piece, ok := g.Board().Get(pos)
	if !ok {
		return "", fmt.Errorf("no piece on %s", pos)
	}

	var targets []string
	seen := make(map[chess.Position]bool)
	for _, m := range g.ValidMoves(pos) {
		if seen[m.End] {
			continue
		}
		seen[m.End] = true
		targets = append(targets, m.End.String())
	}
	slices.Sort(targets)

	if len(targets) == 0 {
		return fmt.Sprintf("%s on %s has no legal moves", piece, pos), nil
	}
	return fmt.Sprintf("%s on %s: %s", piece, pos, strings.Join(targets, " ")), nil
}
