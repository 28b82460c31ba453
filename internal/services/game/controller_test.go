package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessgame-go/internal/chess"
	"github.com/mcoot/chessgame-go/internal/dependencies/mocks"
	"github.com/mcoot/chessgame-go/internal/gamelock"
	"github.com/mcoot/chessgame-go/internal/model"
	"github.com/mcoot/chessgame-go/internal/storage/memory"
	"github.com/mcoot/chessgame-go/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.storage, gamelock.New(), s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ControllerSuite) createGame() *model.GameRecord {
	record, err := s.controller.CreateGame(s.ctx, "friendly")
	s.Require().NoError(err)
	return record
}

// CreateGame tests

func (s *ControllerSuite) TestCreateGameStartsFromOpening() {
	s.random.QueueID("game-1")

	record, err := s.controller.CreateGame(s.ctx, "friendly")
	s.Require().NoError(err)

	s.Equal(model.GameID("game-1"), record.ID)
	s.Equal("friendly", record.Name)
	s.Equal(chess.NewBoard().Serialize(), record.Game.Serialize())
	s.Equal(chess.White, record.Game.Turn())
	s.Empty(record.WhiteUsername)
	s.Empty(record.BlackUsername)
}

func (s *ControllerSuite) TestCreateGamePersists() {
	record := s.createGame()

	stored, err := s.storage.GetGame(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal("friendly", stored.Name)
}

func (s *ControllerSuite) TestCreateGameRequiresName() {
	_, err := s.controller.CreateGame(s.ctx, "   ")
	s.ErrorIs(err, model.ErrInvalidInput)
}

// ListGames tests

func (s *ControllerSuite) TestListGamesInCreationOrder() {
	s.random.QueueID("b", "a")
	_, _ = s.controller.CreateGame(s.ctx, "first")
	s.clock.Advance(time.Second)
	_, _ = s.controller.CreateGame(s.ctx, "second")

	games, err := s.controller.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal("first", games[0].Name)
	s.Equal("second", games[1].Name)
}

// JoinGame tests

func (s *ControllerSuite) TestJoinGameClaimsSlot() {
	record := s.createGame()

	joined, err := s.controller.JoinGame(s.ctx, "alice", record.ID, chess.White)
	s.Require().NoError(err)
	s.Equal("alice", joined.WhiteUsername)

	stored, _ := s.storage.GetGame(s.ctx, record.ID)
	s.Equal("alice", stored.WhiteUsername)
	s.Empty(stored.BlackUsername)
}

func (s *ControllerSuite) TestJoinGameIsIdempotentForSameUser() {
	record := s.createGame()

	_, err := s.controller.JoinGame(s.ctx, "alice", record.ID, chess.Black)
	s.Require().NoError(err)
	_, err = s.controller.JoinGame(s.ctx, "alice", record.ID, chess.Black)
	s.NoError(err)
}

func (s *ControllerSuite) TestJoinGameRejectsTakenSlot() {
	record := s.createGame()
	_, _ = s.controller.JoinGame(s.ctx, "alice", record.ID, chess.White)

	_, err := s.controller.JoinGame(s.ctx, "bob", record.ID, chess.White)
	s.ErrorIs(err, model.ErrSlotTaken)
}

func (s *ControllerSuite) TestJoinGameSameUserBothColors() {
	record := s.createGame()
	_, _ = s.controller.JoinGame(s.ctx, "alice", record.ID, chess.White)

	joined, err := s.controller.JoinGame(s.ctx, "alice", record.ID, chess.Black)
	s.Require().NoError(err)
	s.Equal("alice", joined.WhiteUsername)
	s.Equal("alice", joined.BlackUsername)
}

func (s *ControllerSuite) TestJoinGameNotFound() {
	_, err := s.controller.JoinGame(s.ctx, "alice", "missing", chess.White)
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestJoinGameKeepsBoardState() {
	record := s.createGame()
	state := record.Game.Clone()
	s.Require().NoError(state.MakeMove(chess.NewMove(chess.MustParsePosition("e2"), chess.MustParsePosition("e4"))))
	s.Require().NoError(s.storage.UpdateGameState(s.ctx, record.ID, state))

	joined, err := s.controller.JoinGame(s.ctx, "bob", record.ID, chess.Black)
	s.Require().NoError(err)
	s.Equal(chess.Black, joined.Game.Turn())
}

func (s *ControllerSuite) TestConcurrentJoinsOneWinner() {
	record := s.createGame()

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.controller.JoinGame(s.ctx, string(rune('a'+i)), record.ID, chess.White)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			s.ErrorIs(err, model.ErrSlotTaken)
		}
	}
	s.Equal(1, winners)
}

// ObserveGame tests

func (s *ControllerSuite) TestObserveGame() {
	record := s.createGame()

	observed, err := s.controller.ObserveGame(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(record.ID, observed.ID)

	_, err = s.controller.ObserveGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

// Clear tests

func (s *ControllerSuite) TestClear() {
	_ = s.createGame()

	s.Require().NoError(s.controller.Clear(s.ctx))

	games, err := s.controller.ListGames(s.ctx)
	s.Require().NoError(err)
	s.Empty(games)
}
