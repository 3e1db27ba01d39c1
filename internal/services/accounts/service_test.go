package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cardduel-go/internal/dependencies/mocks"
	"github.com/mcoot/cardduel-go/internal/model"
	"github.com/mcoot/cardduel-go/internal/storage/memory"
	"github.com/mcoot/cardduel-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestRegisterSucceeds() {
	ok, err := s.service.Register(s.ctx, "alice", "pass123", "Alice")
	s.Require().NoError(err)
	s.True(ok)

	account, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", account.Username)
	s.Equal("Alice", account.DisplayName)
	s.Equal(s.clock.Now(), account.CreatedAt)
	s.NotEqual("pass123", account.PasswordHash)
}

func (s *ServiceSuite) TestRegisterTakenUsernameRejected() {
	ok, err := s.service.Register(s.ctx, "alice", "pass123", "Alice")
	s.Require().NoError(err)
	s.Require().True(ok)

	ok, err = s.service.Register(s.ctx, "alice", "other", "Other Alice")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *ServiceSuite) TestLoginSucceeds() {
	_, err := s.service.Register(s.ctx, "alice", "pass123", "Alice")
	s.Require().NoError(err)

	account, err := s.service.Login(s.ctx, "alice", "pass123")
	s.Require().NoError(err)
	s.Require().NotNil(account)
	s.Equal("alice", account.Username)
}

func (s *ServiceSuite) TestLoginWrongPasswordReturnsNil() {
	_, err := s.service.Register(s.ctx, "alice", "pass123", "Alice")
	s.Require().NoError(err)

	account, err := s.service.Login(s.ctx, "alice", "wrong")
	s.Require().NoError(err)
	s.Nil(account)
}

func (s *ServiceSuite) TestLoginUnknownAccountReturnsNil() {
	account, err := s.service.Login(s.ctx, "nobody", "pass123")
	s.Require().NoError(err)
	s.Nil(account)
}

func (s *ServiceSuite) TestDeckLifecycle() {
	_, err := s.service.Register(s.ctx, "alice", "pass123", "Alice")
	s.Require().NoError(err)

	deck := model.Deck{ID: "deck-1", Name: "first", Faction: "north", Leader: "king"}
	s.Require().NoError(s.service.AddDeck(s.ctx, "alice", deck))

	deck.Name = "renamed"
	s.Require().NoError(s.service.ModifyDeck(s.ctx, "alice", "deck-1", deck))

	account, err := s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Require().Len(account.Decks, 1)
	s.Equal("renamed", account.Decks[0].Name)

	s.Require().NoError(s.service.RemoveDeck(s.ctx, "alice", "deck-1"))
	account, err = s.storage.GetAccount(s.ctx, "alice")
	s.Require().NoError(err)
	s.Empty(account.Decks)
}

func (s *ServiceSuite) TestDeckOpsOnUnknownAccountFail() {
	deck := model.Deck{ID: "deck-1"}
	s.ErrorIs(s.service.AddDeck(s.ctx, "nobody", deck), model.ErrAccountNotFound)
	s.ErrorIs(s.service.RemoveDeck(s.ctx, "nobody", "deck-1"), model.ErrAccountNotFound)
	s.ErrorIs(s.service.ModifyDeck(s.ctx, "nobody", "deck-1", deck), model.ErrAccountNotFound)
}
