package match_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/cardduel-go/internal/dependencies/mocks"
	"github.com/mcoot/cardduel-go/internal/model"
	"github.com/mcoot/cardduel-go/internal/notify"
	"github.com/mcoot/cardduel-go/internal/services/accounts"
	"github.com/mcoot/cardduel-go/internal/services/ai"
	"github.com/mcoot/cardduel-go/internal/services/cards"
	"github.com/mcoot/cardduel-go/internal/services/decks"
	"github.com/mcoot/cardduel-go/internal/services/match"
	"github.com/mcoot/cardduel-go/internal/services/room"
	"github.com/mcoot/cardduel-go/internal/services/session"
	"github.com/mcoot/cardduel-go/internal/storage/memory"
	"github.com/mcoot/cardduel-go/internal/testutil"
	"github.com/mcoot/cardduel-go/internal/transport"
)

type EngineSuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	hub      *notify.Hub
	rooms    *room.Registry
	registry *session.Registry
	engine   *match.Engine
	ctx      context.Context
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.storage = memory.New()
	logger := testutil.NopLogger()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.hub = notify.New(s.storage, 0, logger)
	s.rooms = room.NewRegistry(room.NopHost{}, s.clock, s.random, logger)
	accountsService := accounts.New(s.storage, s.clock, logger)
	s.registry = session.NewRegistry(
		accountsService, s.rooms, cards.New(logger), transport.NopSender{}, s.hub, logger)
	s.engine = match.NewEngine(
		s.registry, s.rooms, ai.NewResolver(ai.DefaultProfiles()),
		decks.NewBasicValidator(), s.hub, s.clock, logger)
	s.registry.AttachEngine(s.engine)
	s.ctx = context.Background()
}

func legalDeck(id string) model.Deck {
	cardList := make([]string, 25)
	for i := range cardList {
		cardList[i] = fmt.Sprintf("card-%d", i)
	}
	return model.Deck{
		ID:      id,
		Name:    "test deck " + id,
		Faction: "north",
		Leader:  "commander",
		Cards:   cardList,
	}
}

// login registers an account, logs it in under a fresh connection id, and
// gives it one legal deck named "deck-1"
func (s *EngineSuite) login(username string) model.ConnectionID {
	ok, err := s.registry.Register(s.ctx, username, "pass123", username)
	s.Require().NoError(err)
	s.Require().True(ok)

	connID := model.ConnectionID("conn-" + username)
	info, err := s.registry.Login(s.ctx, connID, username, "pass123")
	s.Require().NoError(err)
	s.Require().NotNil(info)

	s.Require().True(s.registry.AddDeck(s.ctx, connID, legalDeck("deck-1")))
	return connID
}

func (s *EngineSuite) stateOf(connID model.ConnectionID) model.UserState {
	user, ok := s.registry.Get(connID)
	s.Require().True(ok)
	return user.State
}

// Match validation tests

func (s *EngineSuite) TestMatchRejectsUnknownConnection() {
	s.False(s.engine.Match("no-such-conn", "deck-1", ""))
}

func (s *EngineSuite) TestMatchRejectsMissingDeck() {
	conn := s.login("alice")
	s.False(s.engine.Match(conn, "no-such-deck", ""))
	s.Equal(model.UserStateStandby, s.stateOf(conn))
}

func (s *EngineSuite) TestMatchRejectsIllegalDeck() {
	conn := s.login("alice")
	short := legalDeck("deck-2")
	short.Cards = short.Cards[:10]
	s.Require().True(s.registry.AddDeck(s.ctx, conn, short))

	s.False(s.engine.Match(conn, "deck-2", ""))
	s.Equal(model.UserStateStandby, s.stateOf(conn))
}

func (s *EngineSuite) TestMatchRejectsAlreadyQueued() {
	conn := s.login("alice")
	s.True(s.engine.Match(conn, "deck-1", ""))
	s.False(s.engine.Match(conn, "deck-1", ""))
	s.Equal(1, s.engine.WaitingCount())
}

// Open pool tests

func (s *EngineSuite) TestFirstOpenEntrantWaits() {
	conn := s.login("alice")
	s.True(s.engine.Match(conn, "deck-1", ""))

	s.Equal(model.UserStateMatch, s.stateOf(conn))
	s.Equal(1, s.engine.WaitingCount())
	s.Equal(0, s.rooms.Count())
}

func (s *EngineSuite) TestOpenPoolPairsTwoPlayers() {
	alice := s.login("alice")
	bob := s.login("bob")

	s.True(s.engine.Match(alice, "deck-1", ""))
	s.True(s.engine.Match(bob, "deck-1", ""))

	s.Equal(0, s.engine.WaitingCount())
	s.Equal(1, s.rooms.Count())
	s.Equal(model.UserStatePlay, s.stateOf(alice))
	s.Equal(model.UserStatePlay, s.stateOf(bob))
	s.Len(s.rooms.HumanPairs(), 1)
	s.Empty(s.rooms.AIPairs())
}

// Private password tests

func (s *EngineSuite) TestPrivatePasswordPairsOnSameKey() {
	alice := s.login("alice")
	bob := s.login("bob")

	s.True(s.engine.Match(alice, "deck-1", "secret-handshake"))
	s.Equal(model.UserStatePasswordMatch, s.stateOf(alice))

	s.True(s.engine.Match(bob, "deck-1", "secret-handshake"))

	s.Equal(0, s.engine.WaitingCount())
	s.Equal(1, s.rooms.Count())
	s.Equal(model.UserStatePlay, s.stateOf(alice))
	s.Equal(model.UserStatePlay, s.stateOf(bob))
}

func (s *EngineSuite) TestPrivatePasswordsDoNotCrossKeys() {
	alice := s.login("alice")
	bob := s.login("bob")

	s.True(s.engine.Match(alice, "deck-1", "key-one"))
	s.True(s.engine.Match(bob, "deck-1", "key-two"))

	s.Equal(2, s.engine.WaitingCount())
	s.Equal(0, s.rooms.Count())
}

func (s *EngineSuite) TestPrivatePasswordIgnoresOpenPool() {
	alice := s.login("alice")
	bob := s.login("bob")

	s.True(s.engine.Match(alice, "deck-1", ""))
	s.True(s.engine.Match(bob, "deck-1", "secret"))

	s.Equal(2, s.engine.WaitingCount())
	s.Equal(0, s.rooms.Count())
}

// AI password tests

func (s *EngineSuite) TestAIPasswordStartsAIGame() {
	conn := s.login("alice")
	s.True(s.engine.Match(conn, "deck-1", "ai"))

	s.Equal(model.UserStatePlayWithAI, s.stateOf(conn))
	s.Equal(1, s.rooms.Count())
	s.Empty(s.rooms.HumanPairs())

	pairs := s.rooms.AIPairs()
	s.Require().Len(pairs, 1)
	s.Equal("alice", pairs[0].Player1)
	s.Equal("Nova", pairs[0].Player2)
}

func (s *EngineSuite) TestAIPasswordIsCaseInsensitive() {
	conn := s.login("alice")
	s.True(s.engine.Match(conn, "deck-1", "AI1"))

	pairs := s.rooms.AIPairs()
	s.Require().Len(pairs, 1)
	s.Equal("Dragon Hunters", pairs[0].Player2)
}

func (s *EngineSuite) TestAIPasswordPrefersWaitingHuman() {
	alice := s.login("alice")
	bob := s.login("bob")

	s.True(s.engine.Match(alice, "deck-1", ""))
	s.True(s.engine.Match(bob, "deck-1", "ai"))

	s.Equal(0, s.engine.WaitingCount())
	s.Len(s.rooms.HumanPairs(), 1)
	s.Empty(s.rooms.AIPairs())
	s.Equal(model.UserStatePlay, s.stateOf(alice))
	s.Equal(model.UserStatePlay, s.stateOf(bob))
}

func (s *EngineSuite) TestForcingSuffixSkipsWaitingHumans() {
	alice := s.login("alice")
	bob := s.login("bob")

	s.True(s.engine.Match(alice, "deck-1", ""))
	s.True(s.engine.Match(bob, "deck-1", "ai#f"))

	s.Equal(1, s.engine.WaitingCount())
	s.Equal(model.UserStateMatch, s.stateOf(alice))
	s.Equal(model.UserStatePlayWithAI, s.stateOf(bob))
	s.Len(s.rooms.AIPairs(), 1)
}

// StopMatch tests

func (s *EngineSuite) TestStopMatchCancelsOpenQueue() {
	conn := s.login("alice")
	s.True(s.engine.Match(conn, "deck-1", ""))

	s.True(s.engine.StopMatch(conn))
	s.Equal(model.UserStateStandby, s.stateOf(conn))
	s.Equal(0, s.engine.WaitingCount())
}

func (s *EngineSuite) TestStopMatchCancelsPasswordQueue() {
	conn := s.login("alice")
	s.True(s.engine.Match(conn, "deck-1", "secret"))

	s.True(s.engine.StopMatch(conn))
	s.Equal(model.UserStateStandby, s.stateOf(conn))
	s.Equal(0, s.engine.WaitingCount())
}

func (s *EngineSuite) TestStopMatchRejectsStandbyUser() {
	conn := s.login("alice")
	s.False(s.engine.StopMatch(conn))
}

func (s *EngineSuite) TestStopMatchRejectsPlayingUser() {
	conn := s.login("alice")
	s.True(s.engine.Match(conn, "deck-1", "ai"))
	s.False(s.engine.StopMatch(conn))
	s.Equal(model.UserStatePlayWithAI, s.stateOf(conn))
}

func (s *EngineSuite) TestRequeueAfterStopMatch() {
	conn := s.login("alice")
	s.True(s.engine.Match(conn, "deck-1", ""))
	s.True(s.engine.StopMatch(conn))
	s.True(s.engine.Match(conn, "deck-1", "secret"))
	s.Equal(model.UserStatePasswordMatch, s.stateOf(conn))
}

// Game completion tests

func (s *EngineSuite) currentRoom(connID model.ConnectionID) model.RoomID {
	user, ok := s.registry.Get(connID)
	s.Require().True(ok)
	s.Require().NotNil(user.CurrentRoom)
	return *user.CurrentRoom
}

func (s *EngineSuite) TestFinishGameReturnsPlayersToStandby() {
	alice := s.login("alice")
	bob := s.login("bob")
	s.True(s.engine.Match(alice, "deck-1", ""))
	s.True(s.engine.Match(bob, "deck-1", ""))

	s.engine.FinishGame(s.ctx, s.currentRoom(alice), "alice")

	s.Equal(0, s.rooms.Count())
	s.Equal(model.UserStateStandby, s.stateOf(alice))
	s.Equal(model.UserStateStandby, s.stateOf(bob))
}

func (s *EngineSuite) TestFinishGameRecordsResult() {
	alice := s.login("alice")
	bob := s.login("bob")
	s.True(s.engine.Match(alice, "deck-1", ""))
	s.True(s.engine.Match(bob, "deck-1", ""))
	roomID := s.currentRoom(alice)

	s.engine.FinishGame(s.ctx, roomID, "bob")

	results := s.hub.RecentResults()
	s.Require().Len(results, 1)
	s.Equal(roomID, results[0].RoomID)
	s.Equal("bob", results[0].Winner)
	s.False(results[0].VersusAI)
	s.Equal(s.clock.Now(), results[0].FinishedAt)

	stored, err := s.storage.GetRecentResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(stored, 1)
}

func (s *EngineSuite) TestFinishGameMarksAIResult() {
	conn := s.login("alice")
	s.True(s.engine.Match(conn, "deck-1", "ai"))

	s.engine.FinishGame(s.ctx, s.currentRoom(conn), "Nova")

	results := s.hub.RecentResults()
	s.Require().Len(results, 1)
	s.True(results[0].VersusAI)
	s.Equal(model.UserStateStandby, s.stateOf(conn))
}

func (s *EngineSuite) TestFinishGameUnknownRoomIsNoop() {
	s.engine.FinishGame(s.ctx, "room-missing", "nobody")
	s.Empty(s.hub.RecentResults())
}

func (s *EngineSuite) TestPlayerLeaveForfeitsToOpponent() {
	alice := s.login("alice")
	bob := s.login("bob")
	s.True(s.engine.Match(alice, "deck-1", ""))
	s.True(s.engine.Match(bob, "deck-1", ""))

	s.engine.PlayerLeave(s.ctx, s.currentRoom(alice), alice, nil)

	results := s.hub.RecentResults()
	s.Require().Len(results, 1)
	s.Equal("bob", results[0].Winner)
	s.Equal(0, s.rooms.Count())
	s.Equal(model.UserStateStandby, s.stateOf(bob))
}

func (s *EngineSuite) TestPlayerLeaveUnknownRoomIsNoop() {
	conn := s.login("alice")
	s.engine.PlayerLeave(s.ctx, "room-missing", conn, nil)
	s.Empty(s.hub.RecentResults())
	s.Equal(model.UserStateStandby, s.stateOf(conn))
}

// Eviction tests

func (s *EngineSuite) TestEvictClearsQueueAndDropsUser() {
	conn := s.login("alice")
	s.True(s.engine.Match(conn, "deck-1", "secret"))

	user, ok := s.engine.Evict(conn)
	s.Require().True(ok)
	s.Equal(model.UserStatePasswordMatch, user.State)
	s.Equal(0, s.engine.WaitingCount())
	_, present := s.registry.Get(conn)
	s.False(present)
}

func (s *EngineSuite) TestEvictUnknownConnection() {
	_, ok := s.engine.Evict("no-such-conn")
	s.False(ok)
}

func (s *EngineSuite) TestEvictReportsRoomForPlayingUser() {
	conn := s.login("alice")
	s.True(s.engine.Match(conn, "deck-1", "ai"))
	roomID := s.currentRoom(conn)

	user, ok := s.engine.Evict(conn)
	s.Require().True(ok)
	s.Require().NotNil(user.CurrentRoom)
	s.Equal(roomID, *user.CurrentRoom)
	s.Equal(1, s.rooms.Count())
}

// Concurrency tests

func (s *EngineSuite) TestConcurrentSamePasswordPairsEveryone() {
	const players = 8
	conns := make([]model.ConnectionID, players)
	for i := range conns {
		conns[i] = s.login(fmt.Sprintf("player%d", i))
	}

	var wg sync.WaitGroup
	for _, conn := range conns {
		wg.Add(1)
		go func(c model.ConnectionID) {
			defer wg.Done()
			s.engine.Match(c, "deck-1", "shared-secret")
		}(conn)
	}
	wg.Wait()

	s.Equal(0, s.engine.WaitingCount())
	s.Equal(players/2, s.rooms.Count())
	for _, conn := range conns {
		s.Equal(model.UserStatePlay, s.stateOf(conn))
	}
}

func (s *EngineSuite) TestConcurrentOpenPoolNeverDoubleBooks() {
	const players = 9
	conns := make([]model.ConnectionID, players)
	for i := range conns {
		conns[i] = s.login(fmt.Sprintf("player%d", i))
	}

	var wg sync.WaitGroup
	for _, conn := range conns {
		wg.Add(1)
		go func(c model.ConnectionID) {
			defer wg.Done()
			s.engine.Match(c, "deck-1", "")
		}(conn)
	}
	wg.Wait()

	// Odd entrant count leaves exactly one waiting
	s.Equal(1, s.engine.WaitingCount())
	s.Equal(players/2, s.rooms.Count())
}

func (s *EngineSuite) TestConcurrentStopMatchAndPairing() {
	alice := s.login("alice")
	bob := s.login("bob")
	s.True(s.engine.Match(alice, "deck-1", ""))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.engine.StopMatch(alice)
	}()
	go func() {
		defer wg.Done()
		s.engine.Match(bob, "deck-1", "")
	}()
	wg.Wait()

	// Either the cancel won (both out of the queue eventually) or the
	// pairing won (both in a room); never a half-paired state
	aliceState := s.stateOf(alice)
	if aliceState == model.UserStatePlay {
		s.Equal(model.UserStatePlay, s.stateOf(bob))
		s.Equal(1, s.rooms.Count())
	} else {
		s.Equal(model.UserStateStandby, aliceState)
		s.Equal(0, s.rooms.Count())
	}
}
