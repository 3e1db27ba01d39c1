package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/cardduel-go/internal/model"
	"github.com/mcoot/cardduel-go/internal/notify"
	"github.com/mcoot/cardduel-go/internal/services/accounts"
	"github.com/mcoot/cardduel-go/internal/services/cards"
	"github.com/mcoot/cardduel-go/internal/services/match"
	"github.com/mcoot/cardduel-go/internal/services/room"
	"github.com/mcoot/cardduel-go/internal/transport"
)

// UserInfo is the caller-visible result of a successful login
type UserInfo struct {
	ConnectionID model.ConnectionID `json:"connection_id"`
	Username     string             `json:"username"`
	DisplayName  string             `json:"display_name"`
	Decks        []model.Deck       `json:"decks"`
}

// Registry is the authoritative map of active connections to users. It owns
// login, logout, deck mutation, and disconnect; matchmaking state
// transitions come back in through the match.Directory methods.
//
// Lock ordering: the match engine calls Directory methods while holding its
// own lock, so nothing here may call into the engine while holding mu.
type Registry struct {
	mu    sync.RWMutex
	users map[model.ConnectionID]*model.User

	accounts *accounts.Service
	engine   *match.Engine
	rooms    *room.Registry
	cards    cards.Provider
	sender   transport.Sender
	hub      *notify.Hub
	logger   *slog.Logger
}

// NewRegistry creates a session Registry. The engine is attached separately
// because engine and registry reference each other.
func NewRegistry(
	accountsService *accounts.Service,
	rooms *room.Registry,
	cardsProvider cards.Provider,
	sender transport.Sender,
	hub *notify.Hub,
	logger *slog.Logger,
) *Registry {
	r := &Registry{
		users:    make(map[model.ConnectionID]*model.User),
		accounts: accountsService,
		rooms:    rooms,
		cards:    cardsProvider,
		sender:   sender,
		hub:      hub,
		logger:   logger.With(slog.String("component", "session")),
	}
	hub.SetSnapshotSource(r.Snapshot)
	return r
}

// AttachEngine wires the matchmaking engine after construction
func (r *Registry) AttachEngine(engine *match.Engine) {
	r.engine = engine
}

// Ensure Registry satisfies the engine's directory contract
var _ match.Directory = (*Registry)(nil)

// Login validates credentials against the account store and registers the
// connection. A prior session for the same username is evicted first (the
// old connection gets a repeat-login notice, then a full disconnect), as is
// any prior registration of the same connection id. Authentication failure
// is a nil result, not an error.
func (r *Registry) Login(ctx context.Context, connID model.ConnectionID, username, password string) (*UserInfo, error) {
	account, err := r.accounts.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, nil
	}

	user := &model.User{
		ConnectionID: connID,
		Username:     account.Username,
		DisplayName:  account.DisplayName,
		Decks:        append([]model.Deck(nil), account.Decks...),
		State:        model.UserStateStandby,
	}

	// Evict duplicates until the insert happens with none present. The
	// re-check loop keeps the duplicate test and the insert in one
	// critical section without holding mu across the eviction itself.
	for {
		r.mu.Lock()
		evict, repeat := r.findDuplicate(connID, account.Username)
		if evict == "" {
			r.users[connID] = user
			r.mu.Unlock()
			break
		}
		r.mu.Unlock()

		if repeat {
			// Best-effort notice; a send failure never blocks eviction
			if err := r.sender.SendToClient(evict, transport.EventRepeatLogin, nil); err != nil {
				r.logger.Warn("repeat-login notice failed",
					slog.String("connection_id", string(evict)),
					slog.String("error", err.Error()))
			}
		}
		r.Disconnect(ctx, evict, nil)
	}

	r.logger.Info("user logged in",
		slog.String("connection_id", string(connID)),
		slog.String("username", account.Username))
	r.hub.PublishUsersChanged()

	return &UserInfo{
		ConnectionID: connID,
		Username:     account.Username,
		DisplayName:  account.DisplayName,
		Decks:        user.Decks,
	}, nil
}

// findDuplicate returns a connection that must be evicted before connID can
// register, preferring the same-username session. repeat reports whether
// the eviction is a repeat login (same username on another connection).
// Caller holds mu.
func (r *Registry) findDuplicate(connID model.ConnectionID, username string) (model.ConnectionID, bool) {
	for id, u := range r.users {
		if u.Username == username && id != connID {
			return id, true
		}
	}
	if _, ok := r.users[connID]; ok {
		return connID, false
	}
	return "", false
}

// Register creates a new account. No session side effects.
func (r *Registry) Register(ctx context.Context, username, password, displayName string) (bool, error) {
	return r.accounts.Register(ctx, username, password, displayName)
}

// Disconnect removes the connection's user: a queued entrant is cancelled,
// an active room is notified of the departure, and the user is dropped.
// Queue cancellation and removal happen together under the engine's pairing
// lock, so a Match racing the disconnect either completes first (and the
// user forfeits its room below) or finds the user already gone.
// Idempotent: unknown connections are a no-op.
func (r *Registry) Disconnect(ctx context.Context, connID model.ConnectionID, cause error) {
	user, ok := r.engine.Evict(connID)
	if !ok {
		return
	}

	if user.State.IsPlaying() && user.CurrentRoom != nil {
		r.engine.PlayerLeave(ctx, *user.CurrentRoom, connID, cause)
	}

	r.logger.Info("user disconnected",
		slog.String("connection_id", string(connID)))
	r.hub.PublishUsersChanged()
}

// AddDeck stores a new deck for the connection's user. Persistence happens
// first; the in-memory list mutates only after storage succeeds.
func (r *Registry) AddDeck(ctx context.Context, connID model.ConnectionID, deck model.Deck) bool {
	r.mu.RLock()
	user, ok := r.users[connID]
	if !ok {
		r.mu.RUnlock()
		return false
	}
	username := user.Username
	if len(user.Decks) >= model.MaxDecksPerUser {
		r.mu.RUnlock()
		return false
	}
	r.mu.RUnlock()

	// The store re-checks the cap under its own lock, so two adds racing
	// for the last slot cannot both land
	if err := r.accounts.AddDeck(ctx, username, deck); err != nil {
		if !errors.Is(err, model.ErrDeckLimit) {
			r.logger.Warn("deck persistence failed",
				slog.String("username", username),
				slog.String("error", err.Error()))
		}
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok = r.users[connID]
	if !ok {
		return false
	}
	user.Decks = append(user.Decks, deck)
	return true
}

// RemoveDeck deletes a deck for the connection's user
func (r *Registry) RemoveDeck(ctx context.Context, connID model.ConnectionID, deckID string) bool {
	r.mu.RLock()
	user, ok := r.users[connID]
	if !ok || user.GetDeck(deckID) == nil {
		r.mu.RUnlock()
		return false
	}
	username := user.Username
	r.mu.RUnlock()

	if err := r.accounts.RemoveDeck(ctx, username, deckID); err != nil {
		r.logger.Warn("deck removal failed",
			slog.String("username", username),
			slog.String("error", err.Error()))
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok = r.users[connID]
	if !ok {
		return false
	}
	return user.RemoveDeck(deckID)
}

// ModifyDeck replaces a deck for the connection's user
func (r *Registry) ModifyDeck(ctx context.Context, connID model.ConnectionID, deckID string, deck model.Deck) bool {
	r.mu.RLock()
	user, ok := r.users[connID]
	if !ok || user.GetDeck(deckID) == nil {
		r.mu.RUnlock()
		return false
	}
	username := user.Username
	r.mu.RUnlock()

	if err := r.accounts.ModifyDeck(ctx, username, deckID, deck); err != nil {
		r.logger.Warn("deck modification failed",
			slog.String("username", username),
			slog.String("error", err.Error()))
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok = r.users[connID]
	if !ok {
		return false
	}
	return user.ReplaceDeck(deckID, deck)
}

// GameOperation forwards an in-game action to the user's current room
func (r *Registry) GameOperation(connID model.ConnectionID, op model.Operation) error {
	r.mu.RLock()
	user, ok := r.users[connID]
	if !ok {
		r.mu.RUnlock()
		return model.ErrUserNotFound
	}
	if !user.State.IsPlaying() || user.CurrentRoom == nil {
		r.mu.RUnlock()
		return model.ErrNotInRoom
	}
	roomID := *user.CurrentRoom
	r.mu.RUnlock()

	return r.rooms.Deliver(roomID, connID, op)
}

// UserCount returns the number of registered connections
func (r *Registry) UserCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Snapshot builds the published session/room view: users grouped by state
// (excluding those in a room) plus the two room lists
func (r *Registry) Snapshot() model.Snapshot {
	r.mu.RLock()
	byState := make(map[model.UserState][]model.UserSummary)
	for _, u := range r.users {
		if u.State.IsPlaying() {
			continue
		}
		byState[u.State] = append(byState[u.State], model.UserSummary{
			DisplayName: u.DisplayName,
			State:       u.State,
		})
	}
	r.mu.RUnlock()

	return model.Snapshot{
		UsersByState: byState,
		HumanRooms:   r.rooms.HumanPairs(),
		AIRooms:      r.rooms.AIPairs(),
	}
}

// GetCardMap returns the serialized card catalog
func (r *Registry) GetCardMap() string {
	return r.cards.GetCardMap()
}

// Directory implementation (used by the match engine)

// Get returns a copy of the user for the connection
func (r *Registry) Get(connID model.ConnectionID) (model.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[connID]
	if !ok {
		return model.User{}, false
	}
	copied := *user
	copied.Decks = append([]model.Deck(nil), user.Decks...)
	return copied, true
}

// Transition moves the user between states atomically
func (r *Registry) Transition(connID model.ConnectionID, from, to model.UserState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[connID]
	if !ok || user.State != from {
		return false
	}
	user.State = to
	return true
}

// EnterRoom marks the user as playing in the given room
func (r *Registry) EnterRoom(connID model.ConnectionID, roomID model.RoomID, state model.UserState) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[connID]
	if !ok {
		return false
	}
	user.State = state
	user.CurrentRoom = &roomID
	return true
}

// Drop removes the connection's user outright. Called by the engine under
// its pairing lock during eviction.
func (r *Registry) Drop(connID model.ConnectionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.users[connID]
	delete(r.users, connID)
	return ok
}

// ExitRoom returns the user to standby
func (r *Registry) ExitRoom(connID model.ConnectionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[connID]
	if !ok {
		return false
	}
	user.State = model.UserStateStandby
	user.CurrentRoom = nil
	return true
}
