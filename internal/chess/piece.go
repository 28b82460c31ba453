package chess

import (
	"fmt"
	"strings"
	"unicode"
)

// PieceKind is the closed set of chess piece types. The zero value means no kind.
type PieceKind uint8

const (
	NoKind PieceKind = iota
	King
	Queen
	Bishop
	Knight
	Rook
	Pawn
)

var kindNames = [...]string{
	NoKind: "",
	King:   "KING",
	Queen:  "QUEEN",
	Bishop: "BISHOP",
	Knight: "KNIGHT",
	Rook:   "ROOK",
	Pawn:   "PAWN",
}

var kindLetters = [...]byte{
	NoKind: '.',
	King:   'K',
	Queen:  'Q',
	Bishop: 'B',
	Knight: 'N',
	Rook:   'R',
	Pawn:   'P',
}

// PromotionKinds lists the kinds a pawn may promote to, in emission order
var PromotionKinds = [...]PieceKind{Queen, Bishop, Knight, Rook}

func (k PieceKind) String() string {
	if int(k) >= len(kindNames) {
		return fmt.Sprintf("PieceKind(%d)", k)
	}
	return kindNames[k]
}

// Letter returns the uppercase codec letter for the kind
func (k PieceKind) Letter() byte {
	if int(k) >= len(kindLetters) {
		return '?'
	}
	return kindLetters[k]
}

// ParsePieceKind accepts a kind name (QUEEN) or letter (Q), case-insensitively
func ParsePieceKind(s string) (PieceKind, error) {
	if s == "" {
		return NoKind, nil
	}
	if len(s) == 1 {
		for k := King; k <= Pawn; k++ {
			if kindLetters[k] == byte(unicode.ToUpper(rune(s[0]))) {
				return k, nil
			}
		}
	}
	name := strings.ToUpper(s)
	for k := King; k <= Pawn; k++ {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return NoKind, fmt.Errorf("unknown piece kind %q", s)
}

// MarshalText encodes the kind by name
func (k PieceKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name or letter
func (k *PieceKind) UnmarshalText(text []byte) error {
	parsed, err := ParsePieceKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Piece is a colored piece. The zero value is an empty square.
type Piece struct {
	Color Color
	Kind  PieceKind
}

// IsZero reports whether p represents no piece
func (p Piece) IsZero() bool {
	return p.Kind == NoKind
}

// Letter returns the codec letter: uppercase for white, lowercase for black, '.' for empty
func (p Piece) Letter() byte {
	l := p.Kind.Letter()
	if p.Kind != NoKind && p.Color == Black {
		return byte(unicode.ToLower(rune(l)))
	}
	return l
}

func (p Piece) String() string {
	if p.IsZero() {
		return "EMPTY"
	}
	return p.Color.String() + " " + p.Kind.String()
}

// PieceFromLetter decodes a codec letter. '.' yields the zero Piece.
func PieceFromLetter(c byte) (Piece, error) {
	if c == '.' {
		return Piece{}, nil
	}
	color := White
	if unicode.IsLower(rune(c)) {
		color = Black
	}
	u := byte(unicode.ToUpper(rune(c)))
	for k := King; k <= Pawn; k++ {
		if kindLetters[k] == u {
			return Piece{Color: color, Kind: k}, nil
		}
	}
	return Piece{}, fmt.Errorf("invalid piece letter %q", c)
}
