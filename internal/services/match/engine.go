package match

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/cardduel-go/internal/dependencies/clock"
	"github.com/mcoot/cardduel-go/internal/model"
	"github.com/mcoot/cardduel-go/internal/notify"
	"github.com/mcoot/cardduel-go/internal/services/ai"
	"github.com/mcoot/cardduel-go/internal/services/decks"
	"github.com/mcoot/cardduel-go/internal/services/room"
)

// Directory is the slice of the session registry the engine needs: user
// lookup and atomic state transitions. Implemented by session.Registry.
//
// The engine calls the directory while holding its own lock; the directory
// must therefore never call back into the engine.
type Directory interface {
	// Get returns a copy of the user for the connection
	Get(connID model.ConnectionID) (model.User, bool)

	// Transition moves the user from one state to another atomically,
	// reporting whether the user existed and was in the from state
	Transition(connID model.ConnectionID, from, to model.UserState) bool

	// EnterRoom marks the user as playing in the given room
	EnterRoom(connID model.ConnectionID, roomID model.RoomID, state model.UserState) bool

	// ExitRoom returns the user to standby and clears its room
	ExitRoom(connID model.ConnectionID) bool

	// Drop removes the user outright, reporting whether it existed
	Drop(connID model.ConnectionID) bool
}

// entrant is one player waiting in the queue
type entrant struct {
	connID model.ConnectionID
	player *model.Player
	// password is the rendezvous key; empty for the open pool
	password string
}

// Engine pairs waiting players into rooms, applying the password policy:
// open pool first-come-first-served, AI profile passwords with human
// priority and a forcing suffix, private rendezvous keys otherwise.
//
// A single mutex guards the open pool, the rendezvous map, and the
// find-two-and-remove pairing step, so no entrant can be double-booked and
// a StopMatch racing a pairing attempt is decided by queue membership.
type Engine struct {
	mu         sync.Mutex
	open       []*entrant
	rendezvous map[string]*entrant

	directory Directory
	rooms     *room.Registry
	resolver  *ai.Resolver
	validator decks.Validator
	hub       *notify.Hub
	clock     clock.Clock
	logger    *slog.Logger
}

// NewEngine creates a matchmaking Engine
func NewEngine(
	directory Directory,
	rooms *room.Registry,
	resolver *ai.Resolver,
	validator decks.Validator,
	hub *notify.Hub,
	clk clock.Clock,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		rendezvous: make(map[string]*entrant),
		directory:  directory,
		rooms:      rooms,
		resolver:   resolver,
		validator:  validator,
		hub:        hub,
		clock:      clk,
		logger:     logger.With(slog.String("component", "match")),
	}
}

// Match enqueues a standby user holding a legal deck for pairing.
// It returns false, with no state change, for an unknown connection, a user
// not in standby, a missing deck, or a deck failing the legality check.
func (e *Engine) Match(connID model.ConnectionID, deckID string, password string) bool {
	e.mu.Lock()

	user, ok := e.directory.Get(connID)
	if !ok || user.State != model.UserStateStandby {
		e.mu.Unlock()
		return false
	}

	deck := user.GetDeck(deckID)
	if deck == nil || !e.validator.IsLegal(*deck) {
		e.mu.Unlock()
		return false
	}

	queued := model.UserStateMatch
	if password != "" {
		queued = model.UserStatePasswordMatch
	}
	if !e.directory.Transition(connID, model.UserStateStandby, queued) {
		// Lost a race with another request for this connection
		e.mu.Unlock()
		return false
	}

	ent := &entrant{
		connID:   connID,
		player:   model.NewHumanPlayer(&user, *deck),
		password: password,
	}
	e.place(ent)
	e.mu.Unlock()

	e.hub.PublishUsersChanged()
	return true
}

// place routes a new entrant per the password policy and pairs immediately
// when a counterpart is available. Caller holds e.mu.
func (e *Engine) place(ent *entrant) {
	// Open pool: first-come-first-served
	if ent.password == "" {
		if partner := e.takeOpen(); partner != nil {
			e.bind(partner, ent)
			return
		}
		e.open = append(e.open, ent)
		return
	}

	// AI profile passwords are checked before private rendezvous keys
	if profile, force, ok := e.resolver.Resolve(ent.password); ok {
		// A waiting open-pool human takes priority over the AI match,
		// unless the forcing suffix commits to the AI opponent
		if !force {
			if partner := e.takeOpen(); partner != nil {
				e.bind(partner, ent)
				return
			}
		}
		opponent := model.NewAIPlayer(profile.Key, profile.DisplayName, profile.Deck)
		e.bind(ent, &entrant{player: opponent})
		return
	}

	// Private rendezvous: pair on identical keys, otherwise wait
	if partner, ok := e.rendezvous[ent.password]; ok {
		delete(e.rendezvous, ent.password)
		e.bind(partner, ent)
		return
	}
	e.rendezvous[ent.password] = ent
}

// takeOpen pops the oldest open-pool entrant, or nil. Caller holds e.mu.
func (e *Engine) takeOpen() *entrant {
	if len(e.open) == 0 {
		return nil
	}
	ent := e.open[0]
	e.open = e.open[1:]
	return ent
}

// bind removes both entrants from waiting state and creates their room in
// one step. Caller holds e.mu.
func (e *Engine) bind(first, second *entrant) {
	created := e.rooms.Create(first.player, second.player)

	state := model.UserStatePlay
	if created.HasAI() {
		state = model.UserStatePlayWithAI
	}
	for _, ent := range []*entrant{first, second} {
		if ent.player.IsHuman() {
			e.directory.EnterRoom(ent.connID, created.ID, state)
		}
	}

	e.logger.Info("players paired",
		slog.String("room_id", string(created.ID)),
		slog.String("player1", first.player.DisplayName),
		slog.String("player2", second.player.DisplayName))
}

// StopMatch cancels a pending match. It returns false if the user is not
// queued, or if a concurrent pairing already claimed the entrant; the
// pairing then stands and the caller observes the finalized room state.
func (e *Engine) StopMatch(connID model.ConnectionID) bool {
	e.mu.Lock()

	user, ok := e.directory.Get(connID)
	if !ok || !user.State.IsQueued() {
		e.mu.Unlock()
		return false
	}

	if !e.remove(connID) {
		e.mu.Unlock()
		return false
	}

	e.directory.Transition(connID, user.State, model.UserStateStandby)
	e.mu.Unlock()

	e.hub.PublishUsersChanged()
	return true
}

// remove drops the entrant for the connection from whichever queue holds
// it, reporting whether it was waiting. Caller holds e.mu.
func (e *Engine) remove(connID model.ConnectionID) bool {
	for i, ent := range e.open {
		if ent.connID == connID {
			e.open = append(e.open[:i], e.open[i+1:]...)
			return true
		}
	}
	for key, ent := range e.rendezvous {
		if ent.connID == connID {
			delete(e.rendezvous, key)
			return true
		}
	}
	return false
}

// WaitingCount returns how many entrants are queued (open pool plus
// rendezvous waiters)
func (e *Engine) WaitingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.open) + len(e.rendezvous)
}

// Evict cancels any queue entry for the connection and removes the user
// from the directory in one critical section. Holding the pairing lock
// across both steps means an in-flight Match can neither enqueue nor pair
// the user once eviction starts, so no entrant of a dropped user can stay
// behind in a queue. It returns the user's last observed state.
func (e *Engine) Evict(connID model.ConnectionID) (model.User, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	user, ok := e.directory.Get(connID)
	if !ok {
		return model.User{}, false
	}
	e.remove(connID)
	e.directory.Drop(connID)
	return user, true
}

// PlayerLeave handles a player departing the given room (disconnect or
// transport fault). The room is told so it can apply its abandonment
// policy, then the game is finished as a forfeit in the opponent's favor.
func (e *Engine) PlayerLeave(ctx context.Context, roomID model.RoomID, connID model.ConnectionID, cause error) {
	active, ok := e.rooms.Get(roomID)
	if !ok {
		return
	}

	e.rooms.NotifyLeave(roomID, connID, cause)

	winner := ""
	if opponent := active.Opponent(connID); opponent != nil {
		winner = opponent.DisplayName
	}
	e.FinishGame(ctx, roomID, winner)
}

// FinishGame tears a room down: surviving users return to standby, the
// room is removed, and the result is recorded and published.
func (e *Engine) FinishGame(ctx context.Context, roomID model.RoomID, winner string) {
	finished, ok := e.rooms.Get(roomID)
	if !ok {
		return
	}

	e.rooms.Remove(roomID)

	for _, p := range []*model.Player{finished.Player1, finished.Player2} {
		if p.IsHuman() {
			e.directory.ExitRoom(p.ConnectionID)
		}
	}

	result := model.GameResult{
		RoomID:     roomID,
		Player1:    finished.Player1.DisplayName,
		Player2:    finished.Player2.DisplayName,
		Winner:     winner,
		VersusAI:   finished.HasAI(),
		FinishedAt: e.clock.Now(),
	}
	if err := e.hub.PublishGameOver(ctx, result); err != nil {
		e.logger.Error("failed to record game result",
			slog.String("room_id", string(roomID)),
			slog.String("error", err.Error()))
	}

	e.hub.PublishUsersChanged()
}
