package room

import (
	"log/slog"
	"sync"

	"github.com/mcoot/cardduel-go/internal/dependencies/clock"
	"github.com/mcoot/cardduel-go/internal/dependencies/random"
	"github.com/mcoot/cardduel-go/internal/model"
)

// GameHost drives gameplay inside a room. The card-game rules engine and the
// AI opponent's decision-making live behind this boundary; the session core
// only creates rooms, forwards operations, and reports departures.
type GameHost interface {
	// GameStarted is called once when both players are bound
	GameStarted(room *model.Room)

	// HandleOperation forwards an in-game action from a connection
	HandleOperation(room *model.Room, from model.ConnectionID, op model.Operation) error

	// PlayerLeft notifies the room of a departure so it can apply its
	// abandonment policy. cause is the transport fault, if any.
	PlayerLeft(room *model.Room, connID model.ConnectionID, cause error)
}

// NopHost is a GameHost that accepts everything and does nothing.
// Used in tests and when no rules engine is attached.
type NopHost struct{}

var _ GameHost = (*NopHost)(nil)

func (NopHost) GameStarted(*model.Room) {}

func (NopHost) HandleOperation(*model.Room, model.ConnectionID, model.Operation) error { return nil }

func (NopHost) PlayerLeft(*model.Room, model.ConnectionID, error) {}

// Registry tracks all active rooms
type Registry struct {
	mu    sync.RWMutex
	rooms map[model.RoomID]*model.Room

	host   GameHost
	clock  clock.Clock
	random random.Random
	logger *slog.Logger
}

// NewRegistry creates a room Registry handing gameplay to the given host
func NewRegistry(host GameHost, clk clock.Clock, rnd random.Random, logger *slog.Logger) *Registry {
	return &Registry{
		rooms:  make(map[model.RoomID]*model.Room),
		host:   host,
		clock:  clk,
		random: rnd,
		logger: logger.With(slog.String("component", "rooms")),
	}
}

// Create binds two players into a new ready room and starts the game
func (r *Registry) Create(player1, player2 *model.Player) *model.Room {
	room := &model.Room{
		ID:        model.RoomID(r.random.ID("room_")),
		Player1:   player1,
		Player2:   player2,
		IsReady:   true,
		CreatedAt: r.clock.Now(),
	}

	r.mu.Lock()
	r.rooms[room.ID] = room
	r.mu.Unlock()

	r.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("player1", player1.DisplayName),
		slog.String("player2", player2.DisplayName),
		slog.Bool("versus_ai", room.HasAI()))

	r.host.GameStarted(room)
	return room
}

// Get returns the room with the given id
func (r *Registry) Get(id model.RoomID) (*model.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	return room, ok
}

// Remove drops a room from the registry
func (r *Registry) Remove(id model.RoomID) {
	r.mu.Lock()
	delete(r.rooms, id)
	r.mu.Unlock()
}

// Count returns the number of active rooms
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Deliver forwards an in-game operation to the room's host
func (r *Registry) Deliver(id model.RoomID, from model.ConnectionID, op model.Operation) error {
	room, ok := r.Get(id)
	if !ok {
		return model.ErrRoomNotFound
	}
	return r.host.HandleOperation(room, from, op)
}

// NotifyLeave tells the room's host that a player departed
func (r *Registry) NotifyLeave(id model.RoomID, connID model.ConnectionID, cause error) {
	room, ok := r.Get(id)
	if !ok {
		return
	}
	r.host.PlayerLeft(room, connID, cause)
}

// HumanPairs returns the public view of ready human-vs-human rooms
func (r *Registry) HumanPairs() []model.RoomPair {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pairs := []model.RoomPair{}
	for _, room := range r.rooms {
		if room.IsReady && room.HumanOnly() {
			pairs = append(pairs, room.Pair())
		}
	}
	return pairs
}

// AIPairs returns the public view of ready rooms involving at least one AI
func (r *Registry) AIPairs() []model.RoomPair {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pairs := []model.RoomPair{}
	for _, room := range r.rooms {
		if room.IsReady && room.HasAI() {
			pairs = append(pairs, room.Pair())
		}
	}
	return pairs
}
