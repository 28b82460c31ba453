package chess

import (
	"encoding/json"
	"fmt"
)

// Status summarizes the position for the side to move
type Status string

const (
	StatusOngoing   Status = "ONGOING"
	StatusCheck     Status = "CHECK"
	StatusCheckmate Status = "CHECKMATE"
	StatusStalemate Status = "STALEMATE"
)

// Rule violation reasons reported by MakeMove
const (
	ReasonNoPiece         = "Not a valid piece to move!"
	ReasonWrongColor      = "Not correct team color!"
	ReasonFriendlyCapture = "Cannot capture friendly pieces!"
	ReasonIllegalMove     = "Not a valid move!"
	ReasonSelfCheck       = "Move would result in check!"
)

// Game is a board plus the color whose turn it is. A Game is not safe for
// concurrent use.
type Game struct {
	board *Board
	turn  Color
}

// NewGame returns a game in the opening position with white to move
func NewGame() *Game {
	return &Game{board: NewBoard(), turn: White}
}

// NewGameFromBoard wraps an existing board
func NewGameFromBoard(b *Board, turn Color) *Game {
	return &Game{board: b, turn: turn}
}

// Board returns the underlying board
func (g *Game) Board() *Board {
	return g.board
}

// Turn returns the color to move
func (g *Game) Turn() Color {
	return g.turn
}

// SetTurn overrides the color to move
func (g *Game) SetTurn(c Color) {
	g.turn = c
}

// Clone returns an independent copy of the game
func (g *Game) Clone() *Game {
	return &Game{board: g.board.Clone(), turn: g.turn}
}

// ValidMoves returns the legal moves for the piece at pos, or nil if the square is empty
func (g *Game) ValidMoves(pos Position) []Move {
	piece, ok := g.board.Get(pos)
	if !ok {
		return nil
	}
	var legal []Move
	for _, m := range PseudoLegalMoves(g.board, pos, piece) {
		if !g.leavesInCheck(m, piece) {
			legal = append(legal, m)
		}
	}
	return legal
}

// LegalMoves returns every legal move available to color
func (g *Game) LegalMoves(color Color) []Move {
	var legal []Move
	g.board.Pieces(func(pos Position, p Piece) {
		if p.Color != color {
			return
		}
		for _, m := range PseudoLegalMoves(g.board, pos, p) {
			if !g.leavesInCheck(m, p) {
				legal = append(legal, m)
			}
		}
	})
	return legal
}

// MakeMove applies m if it is legal for the side to move and flips the turn.
// On failure it returns a *RuleViolationError and the board is unchanged.
func (g *Game) MakeMove(m Move) error {
	if !m.Start.Valid() || !m.End.Valid() {
		return violation(ReasonIllegalMove)
	}
	piece, ok := g.board.Get(m.Start)
	if !ok {
		return violation(ReasonNoPiece)
	}
	if piece.Color != g.turn {
		return violation(ReasonWrongColor)
	}
	if target, occupied := g.board.Get(m.End); occupied && target.Color == piece.Color {
		return violation(ReasonFriendlyCapture)
	}
	if !containsMove(PseudoLegalMoves(g.board, m.Start, piece), m) {
		return violation(ReasonIllegalMove)
	}

	captured := g.apply(m, piece)
	if g.IsInCheck(piece.Color) {
		g.undo(m, piece, captured)
		return violation(ReasonSelfCheck)
	}

	g.turn = g.turn.Opponent()
	return nil
}

// IsInCheck reports whether color's king is attacked. A side without a king is never in check.
func (g *Game) IsInCheck(color Color) bool {
	king, ok := g.board.KingPosition(color)
	if !ok {
		return false
	}
	return g.attacked(king, color.Opponent())
}

// IsInCheckmate reports whether color is in check with no legal move
func (g *Game) IsInCheckmate(color Color) bool {
	return g.IsInCheck(color) && len(g.LegalMoves(color)) == 0
}

// IsInStalemate reports whether color is not in check but has no legal move
func (g *Game) IsInStalemate(color Color) bool {
	return !g.IsInCheck(color) && len(g.LegalMoves(color)) == 0
}

// Status evaluates the position for the side to move
func (g *Game) Status() Status {
	inCheck := g.IsInCheck(g.turn)
	noMoves := len(g.LegalMoves(g.turn)) == 0
	switch {
	case inCheck && noMoves:
		return StatusCheckmate
	case noMoves:
		return StatusStalemate
	case inCheck:
		return StatusCheck
	default:
		return StatusOngoing
	}
}

// Serialize encodes the board; the turn is carried separately
func (g *Game) Serialize() string {
	return g.board.Serialize()
}

// Deserialize rebuilds a game from a serialized board and the color to move
func Deserialize(s string, turn Color) (*Game, error) {
	b, err := DeserializeBoard(s)
	if err != nil {
		return nil, err
	}
	return &Game{board: b, turn: turn}, nil
}

type gameJSON struct {
	Board string `json:"board"`
	Turn  Color  `json:"turn"`
}

// MarshalJSON encodes the game as {"board": "...", "turn": "WHITE"}
func (g *Game) MarshalJSON() ([]byte, error) {
	return json.Marshal(gameJSON{Board: g.Serialize(), Turn: g.turn})
}

// UnmarshalJSON decodes the form written by MarshalJSON
func (g *Game) UnmarshalJSON(data []byte) error {
	var raw gameJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b, err := DeserializeBoard(raw.Board)
	if err != nil {
		return fmt.Errorf("decode game: %w", err)
	}
	g.board = b
	g.turn = raw.Turn
	return nil
}

// attacked reports whether any piece of color by can move onto pos
func (g *Game) attacked(pos Position, by Color) bool {
	hit := false
	g.board.Pieces(func(from Position, p Piece) {
		if hit || p.Color != by {
			return
		}
		for _, m := range PseudoLegalMoves(g.board, from, p) {
			if m.End == pos {
				hit = true
				return
			}
		}
	})
	return hit
}

func (g *Game) leavesInCheck(m Move, piece Piece) bool {
	captured := g.apply(m, piece)
	inCheck := g.IsInCheck(piece.Color)
	g.undo(m, piece, captured)
	return inCheck
}

func (g *Game) apply(m Move, piece Piece) Piece {
	captured, _ := g.board.Get(m.End)
	placed := piece
	if m.Promotion != NoKind {
		placed = Piece{Color: piece.Color, Kind: m.Promotion}
	}
	g.board.Set(m.End, placed)
	g.board.Clear(m.Start)
	return captured
}

func (g *Game) undo(m Move, piece, captured Piece) {
	g.board.Set(m.Start, piece)
	g.board.Set(m.End, captured)
}

func containsMove(moves []Move, m Move) bool {
	for _, candidate := range moves {
		if candidate == m {
			return true
		}
	}
	return false
}
