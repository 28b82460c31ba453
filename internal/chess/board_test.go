package chess

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type BoardSuite struct {
	suite.Suite
}

func TestBoardSuite(t *testing.T) {
	suite.Run(t, new(BoardSuite))
}

const openingEncoding = "RNBKQBNR" + "PPPPPPPP" +
	"........" + "........" + "........" + "........" +
	"pppppppp" + "rnbkqbnr"

func (s *BoardSuite) TestResetProducesOpeningPosition() {
	b := NewBoard()
	s.Equal(openingEncoding, b.Serialize())
}

func (s *BoardSuite) TestKingsStartOnTheEFile() {
	b := NewBoard()

	white, ok := b.KingPosition(White)
	s.Require().True(ok)
	s.Equal("e1", white.String())

	black, ok := b.KingPosition(Black)
	s.Require().True(ok)
	s.Equal("e8", black.String())
}

func (s *BoardSuite) TestEmptyBoardSerializesToDots() {
	b := &Board{}
	s.Equal(strings.Repeat(".", EncodedLength), b.Serialize())
}

func (s *BoardSuite) TestSetAndGet() {
	b := &Board{}
	pos := MustParsePosition("d4")
	b.Set(pos, Piece{Color: Black, Kind: Knight})

	p, ok := b.Get(pos)
	s.True(ok)
	s.Equal(Piece{Color: Black, Kind: Knight}, p)

	b.Clear(pos)
	_, ok = b.Get(pos)
	s.False(ok)
}

func (s *BoardSuite) TestDeserializeRoundTrip() {
	b := NewBoard()
	b.Clear(MustParsePosition("e2"))
	b.Set(MustParsePosition("e4"), Piece{Color: White, Kind: Pawn})

	decoded, err := DeserializeBoard(b.Serialize())
	s.Require().NoError(err)
	s.True(b.Equal(decoded))
	s.Equal(b.Serialize(), decoded.Serialize())
}

func (s *BoardSuite) TestDeserializeRejectsWrongLength() {
	_, err := DeserializeBoard("RNBKQBNR")
	s.ErrorIs(err, ErrInvalidEncoding)
}

func (s *BoardSuite) TestDeserializeRejectsInvalidCharacter() {
	bad := "X" + openingEncoding[1:]
	_, err := DeserializeBoard(bad)
	s.ErrorIs(err, ErrInvalidEncoding)
}

func (s *BoardSuite) TestEqualityIgnoresProvenance() {
	a := NewBoard()
	b, err := DeserializeBoard(openingEncoding)
	s.Require().NoError(err)
	s.True(a.Equal(b))

	b.Clear(MustParsePosition("a2"))
	s.False(a.Equal(b))
}

func (s *BoardSuite) TestCloneIsIndependent() {
	a := NewBoard()
	c := a.Clone()
	c.Clear(MustParsePosition("a1"))

	_, ok := a.Get(MustParsePosition("a1"))
	s.True(ok)
}

func (s *BoardSuite) TestParsePosition() {
	pos, err := ParsePosition("a1")
	s.Require().NoError(err)
	s.Equal(Position{Row: 0, Col: 7}, pos)

	pos, err = ParsePosition("H8")
	s.Require().NoError(err)
	s.Equal(Position{Row: 7, Col: 0}, pos)

	_, err = ParsePosition("i9")
	s.Error(err)
	_, err = ParsePosition("e")
	s.Error(err)
}
