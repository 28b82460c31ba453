package chess

import (
	"fmt"
	"strings"
)

// EncodedLength is the length of a serialized board
const EncodedLength = BoardSize * BoardSize

var backRank = [BoardSize]PieceKind{Rook, Knight, Bishop, King, Queen, Bishop, Knight, Rook}

// Board is an 8x8 grid of optional pieces. The zero value is an empty board.
type Board struct {
	squares [BoardSize][BoardSize]Piece
}

// NewBoard returns a board in the standard opening position
func NewBoard() *Board {
	b := &Board{}
	b.Reset()
	return b
}

// Get returns the piece at pos and whether the square is occupied
func (b *Board) Get(pos Position) (Piece, bool) {
	p := b.squares[pos.Row][pos.Col]
	return p, !p.IsZero()
}

// Set places piece at pos, overwriting whatever was there. The zero Piece clears the square.
func (b *Board) Set(pos Position, piece Piece) {
	b.squares[pos.Row][pos.Col] = piece
}

// Clear empties the square at pos
func (b *Board) Clear(pos Position) {
	b.squares[pos.Row][pos.Col] = Piece{}
}

// Reset places the standard opening position
func (b *Board) Reset() {
	b.squares = [BoardSize][BoardSize]Piece{}
	for col := 0; col < BoardSize; col++ {
		b.squares[0][col] = Piece{Color: White, Kind: backRank[col]}
		b.squares[1][col] = Piece{Color: White, Kind: Pawn}
		b.squares[6][col] = Piece{Color: Black, Kind: Pawn}
		b.squares[7][col] = Piece{Color: Black, Kind: backRank[col]}
	}
}

// KingPosition finds the king of the given color
func (b *Board) KingPosition(color Color) (Position, bool) {
	want := Piece{Color: color, Kind: King}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if b.squares[row][col] == want {
				return Position{Row: row, Col: col}, true
			}
		}
	}
	return Position{}, false
}

// Pieces calls fn for every occupied square in row-major order
func (b *Board) Pieces(fn func(Position, Piece)) {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if p := b.squares[row][col]; !p.IsZero() {
				fn(Position{Row: row, Col: col}, p)
			}
		}
	}
}

// Equal compares boards square by square
func (b *Board) Equal(other *Board) bool {
	if other == nil {
		return false
	}
	return b.squares == other.squares
}

// Clone returns an independent copy
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// Serialize encodes the board as 64 characters, row 0 first
func (b *Board) Serialize() string {
	var sb strings.Builder
	sb.Grow(EncodedLength)
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			sb.WriteByte(b.squares[row][col].Letter())
		}
	}
	return sb.String()
}

// DeserializeBoard decodes the output of Serialize
func DeserializeBoard(s string) (*Board, error) {
	if len(s) != EncodedLength {
		return nil, fmt.Errorf("%w: expected %d characters, got %d", ErrInvalidEncoding, EncodedLength, len(s))
	}
	b := &Board{}
	for i := 0; i < EncodedLength; i++ {
		p, err := PieceFromLetter(s[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
		}
		b.squares[i/BoardSize][i%BoardSize] = p
	}
	return b, nil
}

// String renders the board for debugging, row 7 at the top
func (b *Board) String() string {
	var sb strings.Builder
	for row := BoardSize - 1; row >= 0; row-- {
		sb.WriteByte('|')
		for col := 0; col < BoardSize; col++ {
			sb.WriteByte(b.squares[row][col].Letter())
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
