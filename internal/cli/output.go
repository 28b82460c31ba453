package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcoot/chessgame-go/internal/api/response"
	"github.com/mcoot/chessgame-go/internal/chess"
	"github.com/mcoot/chessgame-go/internal/protocol"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
	errW   io.Writer
}

// NewOutput creates a new Output formatter writing to stdout
func NewOutput(format string) *Output {
	return &Output{format: format, w: os.Stdout, errW: os.Stderr}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errW, string(data))
	} else {
		fmt.Fprintf(o.errW, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.AuthResponse:
		o.printAuth(v)
	case response.Game:
		o.printGame(v)
	case response.GameList:
		o.printGameList(v)
	case response.Health:
		o.printHealth(v)
	case protocol.Message:
		o.printServerMessage(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printAuth(a response.AuthResponse) {
	fmt.Fprintf(o.w, "User: %s\n", a.Username)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
	fmt.Fprintf(o.w, "Expires: %s\n", a.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
}

func (o *Output) printGame(g response.Game) {
	fmt.Fprintf(o.w, "Game: %s (%s)\n", g.Name, g.ID)
	fmt.Fprintf(o.w, "White: %s\n", seat(g.WhiteUsername))
	fmt.Fprintf(o.w, "Black: %s\n", seat(g.BlackUsername))
	fmt.Fprintf(o.w, "Turn: %s\n", g.Turn)
	status := g.Status
	if g.Finished {
		status += " (finished)"
	}
	fmt.Fprintf(o.w, "Status: %s\n", status)

	if b, err := chess.DeserializeBoard(g.Board); err == nil {
		fmt.Fprintln(o.w)
		fmt.Fprint(o.w, renderBoard(b))
	}
}

func (o *Output) printGameList(l response.GameList) {
	if len(l.Games) == 0 {
		fmt.Fprintln(o.w, "No games")
		return
	}
	for _, g := range l.Games {
		state := g.Status
		if g.Finished {
			state = "FINISHED"
		}
		fmt.Fprintf(o.w, "%s  %-20s  white=%-12s black=%-12s %s\n",
			g.ID, g.Name, seat(g.WhiteUsername), seat(g.BlackUsername), state)
	}
}

func (o *Output) printHealth(h response.Health) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
	fmt.Fprintf(o.w, "Storage: %s\n", h.Storage)
	fmt.Fprintf(o.w, "Connections: %d\n", h.Connections)
}

func (o *Output) printServerMessage(m protocol.Message) {
	switch m.ServerMessageType {
	case protocol.LoadGame:
		g, err := m.DecodeGame()
		if err != nil {
			fmt.Fprintf(o.w, "unreadable board: %v\n", err)
			return
		}
		fmt.Fprint(o.w, renderBoard(g.Board()))
		fmt.Fprintf(o.w, "%s to move\n", g.Turn())
	default:
		fmt.Fprintln(o.w, m.Text())
	}
}

func seat(username string) string {
	if username == "" {
		return "-"
	}
	return username
}

// renderBoard draws b from white's side, rank 8 at the top and the a-file
// on the left.
func renderBoard(b *chess.Board) string {
	const files = "  a b c d e f g h\n"

	var sb strings.Builder
	sb.WriteString(files)
	for row := chess.BoardSize - 1; row >= 0; row-- {
		fmt.Fprintf(&sb, "%d ", row+1)
		for col := chess.BoardSize - 1; col >= 0; col-- {
			p, _ := b.Get(chess.Position{Row: row, Col: col})
			sb.WriteByte(p.Letter())
			if col > 0 {
				sb.WriteByte(' ')
			}
		}
		fmt.Fprintf(&sb, " %d\n", row+1)
	}
	sb.WriteString(files)
	return sb.String()
}
