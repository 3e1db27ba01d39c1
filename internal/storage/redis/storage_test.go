package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cardduel-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.ResultLogLength = 3

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) account(username string) *model.Account {
	return &model.Account{
		Username:     username,
		PasswordHash: "hashed",
		DisplayName:  username,
		Decks:        []model.Deck{},
		CreatedAt:    time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Account tests

func (s *StorageSuite) TestSaveAndGetAccount() {
	s.Require().NoError(s.storage.SaveAccount(s.ctx, s.account("alice")))

	got, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", got.Username)
	s.Equal("hashed", got.PasswordHash)
}

func (s *StorageSuite) TestAccountKeysAreCaseInsensitive() {
	s.Require().NoError(s.storage.SaveAccount(s.ctx, s.account("Alice")))

	got, err := s.storage.GetAccount(s.ctx, "ALICE")
	s.Require().NoError(err)
	s.Equal("Alice", got.Username)
}

func (s *StorageSuite) TestGetUnknownAccountFails() {
	_, err := s.storage.GetAccount(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestAccountExists() {
	exists, err := s.storage.AccountExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.SaveAccount(s.ctx, s.account("alice")))

	exists, err = s.storage.AccountExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)
}

// Deck tests

func (s *StorageSuite) TestDeckLifecycle() {
	s.Require().NoError(s.storage.SaveAccount(s.ctx, s.account("alice")))

	s.Require().NoError(s.storage.AddDeck(s.ctx, "alice", model.Deck{ID: "deck-1", Name: "first"}))
	s.Require().NoError(s.storage.AddDeck(s.ctx, "alice", model.Deck{ID: "deck-2", Name: "second"}))

	s.Require().NoError(s.storage.ModifyDeck(s.ctx, "alice", "deck-1", model.Deck{ID: "deck-1", Name: "renamed"}))
	s.Require().NoError(s.storage.RemoveDeck(s.ctx, "alice", "deck-2"))

	got, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(got.Decks, 1)
	s.Equal("renamed", got.Decks[0].Name)
}

func (s *StorageSuite) TestAddDeckEnforcesLimit() {
	full := s.account("alice")
	for i := 0; i < model.MaxDecksPerUser; i++ {
		full.Decks = append(full.Decks, model.Deck{ID: fmt.Sprintf("deck-%d", i)})
	}
	s.Require().NoError(s.storage.SaveAccount(s.ctx, full))

	s.ErrorIs(s.storage.AddDeck(s.ctx, "alice", model.Deck{ID: "deck-over"}), model.ErrDeckLimit)

	got, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Len(got.Decks, model.MaxDecksPerUser)
}

func (s *StorageSuite) TestDeckOpsOnMissingTargetsFail() {
	s.ErrorIs(s.storage.AddDeck(s.ctx, "nobody", model.Deck{ID: "deck-1"}), model.ErrAccountNotFound)

	s.Require().NoError(s.storage.SaveAccount(s.ctx, s.account("alice")))
	s.ErrorIs(s.storage.RemoveDeck(s.ctx, "alice", "deck-missing"), model.ErrDeckNotFound)
	s.ErrorIs(s.storage.ModifyDeck(s.ctx, "alice", "deck-missing", model.Deck{}), model.ErrDeckNotFound)
}

// Result tests

func (s *StorageSuite) TestRecentResultsMostRecentFirst() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.storage.AppendGameResult(s.ctx, &model.GameResult{
			RoomID: model.RoomID(fmt.Sprintf("room-%d", i)),
		}))
	}

	results, err := s.storage.GetRecentResults(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal(model.RoomID("room-2"), results[0].RoomID)
	s.Equal(model.RoomID("room-1"), results[1].RoomID)
}

func (s *StorageSuite) TestResultListIsTrimmed() {
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.storage.AppendGameResult(s.ctx, &model.GameResult{
			RoomID: model.RoomID(fmt.Sprintf("room-%d", i)),
		}))
	}

	// ResultLogLength is 3; the two oldest entries were trimmed
	results, err := s.storage.GetRecentResults(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal(model.RoomID("room-4"), results[0].RoomID)
	s.Equal(model.RoomID("room-2"), results[2].RoomID)
}
