// Package storagetest holds a conformance suite shared by every storage backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/chessgame-go/internal/chess"
	"github.com/mcoot/chessgame-go/internal/model"
	"github.com/mcoot/chessgame-go/internal/storage"
)

// Suite exercises the storage.Storage contract. Backends embed it and set
// Storage in their own SetupTest before calling Suite.SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var baseTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func (s *Suite) SetupTest() {
	s.Ctx = context.Background()
	s.Require().NotNil(s.Storage, "backend must set Storage before SetupTest")
	s.Require().NoError(s.Storage.Clear(s.Ctx))
}

func (s *Suite) newRecord(id model.GameID, offset time.Duration) *model.GameRecord {
	return &model.GameRecord{
		ID:        id,
		Name:      "game " + string(id),
		Game:      chess.NewGame(),
		CreatedAt: baseTime.Add(offset),
		UpdatedAt: baseTime.Add(offset),
	}
}

// User tests

func (s *Suite) TestCreateAndGetUser() {
	user := &model.User{Username: "alice", PasswordHash: "hash", Email: "a@example.com", CreatedAt: baseTime}
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, user))

	got, err := s.Storage.GetUser(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", got.Username)
	s.Equal("hash", got.PasswordHash)
	s.Equal("a@example.com", got.Email)
}

func (s *Suite) TestCreateUserRejectsDuplicate() {
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, &model.User{Username: "alice", PasswordHash: "h1"}))

	err := s.Storage.CreateUser(s.Ctx, &model.User{Username: "alice", PasswordHash: "h2"})
	s.ErrorIs(err, model.ErrUsernameExists)

	got, err := s.Storage.GetUser(s.Ctx, "alice")
	s.Require().NoError(err)
	s.Equal("h1", got.PasswordHash)
}

func (s *Suite) TestGetUserNotFound() {
	_, err := s.Storage.GetUser(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Game tests

func (s *Suite) TestCreateAndGetGame() {
	rec := s.newRecord("g1", 0)
	rec.WhiteUsername = "alice"
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, rec))

	got, err := s.Storage.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(rec.Name, got.Name)
	s.Equal("alice", got.WhiteUsername)
	s.Empty(got.BlackUsername)
	s.Equal(rec.Game.Serialize(), got.Game.Serialize())
	s.Equal(chess.White, got.Game.Turn())
}

func (s *Suite) TestGetGameNotFound() {
	_, err := s.Storage.GetGame(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestListGamesOrderedByCreation() {
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, s.newRecord("second", time.Minute)))
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, s.newRecord("first", 0)))

	games, err := s.Storage.ListGames(s.Ctx)
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(model.GameID("first"), games[0].ID)
	s.Equal(model.GameID("second"), games[1].ID)
}

func (s *Suite) TestListGamesEmpty() {
	games, err := s.Storage.ListGames(s.Ctx)
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *Suite) TestSaveGameUpdatesSlots() {
	rec := s.newRecord("g1", 0)
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, rec))

	rec.BlackUsername = "bob"
	s.Require().NoError(s.Storage.SaveGame(s.Ctx, rec))

	got, err := s.Storage.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal("bob", got.BlackUsername)
}

func (s *Suite) TestSaveGameNotFound() {
	err := s.Storage.SaveGame(s.Ctx, s.newRecord("missing", 0))
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestUpdateGameState() {
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, s.newRecord("g1", 0)))

	state := chess.NewGame()
	s.Require().NoError(state.MakeMove(chess.NewMove(chess.MustParsePosition("e2"), chess.MustParsePosition("e4"))))
	s.Require().NoError(s.Storage.UpdateGameState(s.Ctx, "g1", state))

	got, err := s.Storage.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(state.Serialize(), got.Game.Serialize())
	s.Equal(chess.Black, got.Game.Turn())
}

func (s *Suite) TestUpdateGameStateNotFound() {
	err := s.Storage.UpdateGameState(s.Ctx, "missing", chess.NewGame())
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestReturnedRecordsAreDetached() {
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, s.newRecord("g1", 0)))

	got, err := s.Storage.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Require().NoError(got.Game.MakeMove(chess.NewMove(chess.MustParsePosition("d2"), chess.MustParsePosition("d4"))))

	again, err := s.Storage.GetGame(s.Ctx, "g1")
	s.Require().NoError(err)
	s.Equal(chess.White, again.Game.Turn())
}

func (s *Suite) TestClear() {
	s.Require().NoError(s.Storage.CreateUser(s.Ctx, &model.User{Username: "alice"}))
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, s.newRecord("g1", 0)))

	s.Require().NoError(s.Storage.Clear(s.Ctx))

	_, err := s.Storage.GetUser(s.Ctx, "alice")
	s.ErrorIs(err, model.ErrUserNotFound)
	games, err := s.Storage.ListGames(s.Ctx)
	s.Require().NoError(err)
	s.Empty(games)
}
