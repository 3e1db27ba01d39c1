package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cardduel-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
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

func (s *StorageSuite) TestSaveAndGetAccount() {
	s.Require().NoError(s.storage.SaveAccount(s.ctx, s.account("alice")))

	got, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", got.Username)

	exists, err := s.storage.AccountExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestUsernameLookupIsCaseInsensitive() {
	s.Require().NoError(s.storage.SaveAccount(s.ctx, s.account("Alice")))

	got, err := s.storage.GetAccount(s.ctx, "ALICE")
	s.Require().NoError(err)
	s.Equal("Alice", got.Username)

	exists, err := s.storage.AccountExists(s.ctx, "alice")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestGetUnknownAccountFails() {
	_, err := s.storage.GetAccount(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrAccountNotFound)

	exists, err := s.storage.AccountExists(s.ctx, "nobody")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestGetAccountReturnsCopy() {
	s.Require().NoError(s.storage.SaveAccount(s.ctx, s.account("alice")))
	s.Require().NoError(s.storage.AddDeck(s.ctx, "alice", model.Deck{ID: "deck-1", Name: "original"}))

	got, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	got.Decks[0].Name = "mutated"
	got.DisplayName = "mutated"

	fresh, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("original", fresh.Decks[0].Name)
	s.Equal("alice", fresh.DisplayName)
}

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
	s.Require().NoError(s.storage.SaveAccount(s.ctx, s.account("alice")))

	for i := 0; i < model.MaxDecksPerUser; i++ {
		s.Require().NoError(s.storage.AddDeck(s.ctx, "alice", model.Deck{ID: fmt.Sprintf("deck-%d", i)}))
	}
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

func (s *StorageSuite) TestRecentResultsMostRecentFirst() {
	for i := 0; i < 5; i++ {
		s.Require().NoError(s.storage.AppendGameResult(s.ctx, &model.GameResult{
			RoomID: model.RoomID(fmt.Sprintf("room-%d", i)),
		}))
	}

	results, err := s.storage.GetRecentResults(s.ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(results, 3)
	s.Equal(model.RoomID("room-4"), results[0].RoomID)
	s.Equal(model.RoomID("room-2"), results[2].RoomID)
}

func (s *StorageSuite) TestRecentResultsZeroLimitReturnsAll() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.storage.AppendGameResult(s.ctx, &model.GameResult{
			RoomID: model.RoomID(fmt.Sprintf("room-%d", i)),
		}))
	}

	results, err := s.storage.GetRecentResults(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(results, 3)
}
