package chess

import (
	"fmt"
	"strings"
)

// Color identifies a side
type Color uint8

const (
	White Color = iota
	Black
)

// Opponent returns the other side
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) String() string {
	if c == White {
		return "WHITE"
	}
	return "BLACK"
}

// ParseColor accepts WHITE or BLACK, case-insensitively
func ParseColor(s string) (Color, error) {
	switch strings.ToUpper(s) {
	case "WHITE", "W":
		return White, nil
	case "BLACK", "B":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

// MarshalText encodes the color as WHITE or BLACK
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes WHITE or BLACK
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
