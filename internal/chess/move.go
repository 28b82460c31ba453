package chess

import "fmt"

// Move describes a piece moving from Start to End. Promotion is NoKind unless a
// pawn reaches the far rank.
type Move struct {
	Start     Position  `json:"start"`
	End       Position  `json:"end"`
	Promotion PieceKind `json:"promotion,omitempty"`
}

// NewMove builds a move without promotion
func NewMove(start, end Position) Move {
	return Move{Start: start, End: end}
}

// ParseMove parses "e2e4", "e2-e4" or "e7e8q" style input
func ParseMove(s string) (Move, error) {
	var cleaned []byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '-', ' ', '>':
			continue
		}
		cleaned = append(cleaned, s[i])
	}
	if len(cleaned) != 4 && len(cleaned) != 5 {
		return Move{}, fmt.Errorf("invalid move %q", s)
	}
	start, err := ParsePosition(string(cleaned[0:2]))
	if err != nil {
		return Move{}, err
	}
	end, err := ParsePosition(string(cleaned[2:4]))
	if err != nil {
		return Move{}, err
	}
	m := Move{Start: start, End: end}
	if len(cleaned) == 5 {
		kind, err := ParsePieceKind(string(cleaned[4:]))
		if err != nil {
			return Move{}, err
		}
		m.Promotion = kind
	}
	return m, nil
}

func (m Move) String() string {
	s := m.Start.String() + "->" + m.End.String()
	if m.Promotion != NoKind {
		s += " (" + m.Promotion.String() + ")"
	}
	return s
}
