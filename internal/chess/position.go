package chess

import "fmt"

// BoardSize is the number of rows and columns
const BoardSize = 8

// Position is a square on the board. Row 0 is white's back rank; column 0 is the h-file.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Valid reports whether the position lies on the board
func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

// Offset returns the position shifted by the given deltas
func (p Position) Offset(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// String renders the position in algebraic notation, e.g. e4
func (p Position) String() string {
	if !p.Valid() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return string([]byte{byte('h' - p.Col), byte('1' + p.Row)})
}

// ParsePosition parses an algebraic square such as "e2"
func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	file, rank := s[0]|0x20, s[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Position{}, fmt.Errorf("invalid square %q", s)
	}
	return Position{Row: int(rank - '1'), Col: int('h' - file)}, nil
}

// MustParsePosition is ParsePosition for literals known to be valid
func MustParsePosition(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}
