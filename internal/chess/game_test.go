package chess

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/suite"
)

type GameSuite struct {
	suite.Suite
	game *Game
}

func TestGameSuite(t *testing.T) {
	suite.Run(t, new(GameSuite))
}

func (s *GameSuite) SetupTest() {
	s.game = NewGame()
}

func (s *GameSuite) move(from, to string) {
	s.Require().NoError(s.game.MakeMove(NewMove(sq(from), sq(to))), "%s-%s", from, to)
}

func (s *GameSuite) requireViolation(err error, reason string) {
	var rv *RuleViolationError
	s.Require().True(errors.As(err, &rv), "expected rule violation, got %v", err)
	s.Equal(reason, rv.Reason)
}

// MakeMove tests

func (s *GameSuite) TestMakeMoveFlipsTurn() {
	s.Equal(White, s.game.Turn())
	s.move("e2", "e4")
	s.Equal(Black, s.game.Turn())

	p, ok := s.game.Board().Get(sq("e4"))
	s.True(ok)
	s.Equal(Piece{White, Pawn}, p)
	_, ok = s.game.Board().Get(sq("e2"))
	s.False(ok)
}

func (s *GameSuite) TestMakeMoveRejectsEmptySquare() {
	err := s.game.MakeMove(NewMove(sq("e4"), sq("e5")))
	s.requireViolation(err, ReasonNoPiece)
	s.Equal(White, s.game.Turn())
}

func (s *GameSuite) TestMakeMoveRejectsWrongColor() {
	err := s.game.MakeMove(NewMove(sq("e7"), sq("e5")))
	s.requireViolation(err, ReasonWrongColor)
}

func (s *GameSuite) TestMakeMoveRejectsFriendlyCapture() {
	err := s.game.MakeMove(NewMove(sq("a1"), sq("a2")))
	s.requireViolation(err, ReasonFriendlyCapture)
}

func (s *GameSuite) TestMakeMoveRejectsImpossibleMove() {
	err := s.game.MakeMove(NewMove(sq("e2"), sq("e5")))
	s.requireViolation(err, ReasonIllegalMove)
}

func (s *GameSuite) TestMakeMoveRejectsOffBoardMove() {
	err := s.game.MakeMove(Move{Start: sq("e2"), End: Position{Row: 9, Col: 3}})
	s.requireViolation(err, ReasonIllegalMove)
}

func (s *GameSuite) TestSelfCheckIsRolledBack() {
	b := &Board{}
	place(b, map[string]Piece{
		"e1": {White, King},
		"e2": {White, Bishop},
		"e8": {Black, Rook},
		"a8": {Black, King},
	})
	s.game = NewGameFromBoard(b, White)
	before := s.game.Serialize()

	err := s.game.MakeMove(NewMove(sq("e2"), sq("d3")))

	s.requireViolation(err, ReasonSelfCheck)
	s.Equal(before, s.game.Serialize())
	s.Equal(White, s.game.Turn())
}

func (s *GameSuite) TestIllegalMovesLeaveBoardUnchanged() {
	s.move("e2", "e4")
	s.move("e7", "e5")
	before := s.game.Serialize()

	attempts := []Move{
		NewMove(sq("e4"), sq("e5")),
		NewMove(sq("d1"), sq("d3")),
		NewMove(sq("e8"), sq("e7")),
		NewMove(sq("c3"), sq("c4")),
		NewMove(sq("g1"), sq("g3")),
	}
	for _, m := range attempts {
		s.Error(s.game.MakeMove(m), m.String())
		s.Equal(before, s.game.Serialize(), m.String())
	}
	s.Equal(White, s.game.Turn())
}

func (s *GameSuite) TestPromotionReplacesPawn() {
	b := &Board{}
	place(b, map[string]Piece{
		"b7": {White, Pawn},
		"e1": {White, King},
		"e8": {Black, King},
	})
	s.game = NewGameFromBoard(b, White)

	err := s.game.MakeMove(Move{Start: sq("b7"), End: sq("b8"), Promotion: Knight})
	s.Require().NoError(err)

	p, _ := s.game.Board().Get(sq("b8"))
	s.Equal(Piece{White, Knight}, p)
}

func (s *GameSuite) TestPromotionRequiresKind() {
	b := &Board{}
	place(b, map[string]Piece{
		"b7": {White, Pawn},
		"e1": {White, King},
		"e8": {Black, King},
	})
	s.game = NewGameFromBoard(b, White)

	err := s.game.MakeMove(NewMove(sq("b7"), sq("b8")))
	s.requireViolation(err, ReasonIllegalMove)
}

// Check, checkmate, stalemate

func (s *GameSuite) TestFoolsMate() {
	s.move("f2", "f3")
	s.move("e7", "e5")
	s.move("g2", "g4")
	s.move("d8", "h4")

	s.True(s.game.IsInCheck(White))
	s.True(s.game.IsInCheckmate(White))
	s.False(s.game.IsInStalemate(White))
	s.Equal(StatusCheckmate, s.game.Status())
}

func (s *GameSuite) TestCheckWithoutMate() {
	s.move("e2", "e4")
	s.move("f7", "f6")
	s.move("d1", "h5")

	s.True(s.game.IsInCheck(Black))
	s.False(s.game.IsInCheckmate(Black))
	s.Equal(StatusCheck, s.game.Status())
}

func (s *GameSuite) TestMinimalStalemateIsNotCheckmate() {
	b := &Board{}
	place(b, map[string]Piece{
		"a1": {White, King},
		"a3": {Black, King},
		"b6": {Black, Queen},
	})
	s.game = NewGameFromBoard(b, White)

	s.False(s.game.IsInCheck(White))
	s.True(s.game.IsInStalemate(White))
	s.False(s.game.IsInCheckmate(White))
	s.Equal(StatusStalemate, s.game.Status())
}

func (s *GameSuite) TestMissingKingIsNeverInCheck() {
	b := &Board{}
	place(b, map[string]Piece{
		"a1": {Black, Queen},
		"h8": {Black, King},
	})
	s.game = NewGameFromBoard(b, White)

	s.False(s.game.IsInCheck(White))
	s.False(s.game.IsInCheckmate(White))
}

func (s *GameSuite) TestValidMovesExcludePinnedPieceMoves() {
	b := &Board{}
	place(b, map[string]Piece{
		"e1": {White, King},
		"e2": {White, Rook},
		"e8": {Black, Rook},
		"a8": {Black, King},
	})
	s.game = NewGameFromBoard(b, White)

	moves := s.game.ValidMoves(sq("e2"))
	s.ElementsMatch([]string{"e3", "e4", "e5", "e6", "e7", "e8"}, endSquares(moves))
}

func (s *GameSuite) TestValidMovesEmptySquare() {
	s.Nil(s.game.ValidMoves(sq("e4")))
}

// Serialization

func (s *GameSuite) TestSerializeDeserializeCarriesTurn() {
	s.move("e2", "e4")

	restored, err := Deserialize(s.game.Serialize(), s.game.Turn())
	s.Require().NoError(err)
	s.True(s.game.Board().Equal(restored.Board()))
	s.Equal(Black, restored.Turn())
}

func (s *GameSuite) TestJSONRoundTrip() {
	s.move("d2", "d4")

	data, err := json.Marshal(s.game)
	s.Require().NoError(err)
	s.JSONEq(`{"board":"`+s.game.Serialize()+`","turn":"BLACK"}`, string(data))

	var decoded Game
	s.Require().NoError(json.Unmarshal(data, &decoded))
	s.Equal(s.game.Serialize(), decoded.Serialize())
	s.Equal(Black, decoded.Turn())
}

func (s *GameSuite) TestCloneIsIndependent() {
	c := s.game.Clone()
	s.Require().NoError(c.MakeMove(NewMove(sq("e2"), sq("e4"))))

	s.Equal(White, s.game.Turn())
	s.NotEqual(s.game.Serialize(), c.Serialize())
}

// Properties over random legal play

func (s *GameSuite) TestRandomPlayInvariants() {
	rng := rand.New(rand.NewPCG(7, 11))

	for game := 0; game < 20; game++ {
		g := NewGame()
		for ply := 0; ply < 80; ply++ {
			mover := g.Turn()
			legal := g.LegalMoves(mover)
			if len(legal) == 0 {
				break
			}

			for _, m := range legal {
				next := g.Clone()
				s.Require().NoError(next.MakeMove(m), m.String())
				s.False(next.IsInCheck(mover), "%s leaves %s in check", m, mover)
			}

			s.Require().NoError(g.MakeMove(legal[rng.IntN(len(legal))]))

			decoded, err := DeserializeBoard(g.Serialize())
			s.Require().NoError(err)
			s.True(g.Board().Equal(decoded))
		}
	}
}
