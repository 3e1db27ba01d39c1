package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcoot/cardduel-go/internal/model"
	"github.com/mcoot/cardduel-go/internal/storage"
)

// EventType identifies the kind of a published event
type EventType string

const (
	EventUsersChanged EventType = "users_changed"
	EventGameOver     EventType = "game_over"
)

// Event is one published notification. Exactly one of Snapshot and Result
// is set, matching Type.
type Event struct {
	Type     EventType
	Snapshot *model.Snapshot
	Result   *model.GameResult
}

// Subscriber receives published events on a buffered channel. A subscriber
// that falls behind has events dropped rather than blocking the publisher.
type Subscriber struct {
	ch chan Event
}

// Events returns the subscriber's receive channel
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// DefaultSubscriberBuffer is the per-subscriber channel depth
const DefaultSubscriberBuffer = 64

// Hub is the notification/result sink: it fans session snapshots and game
// results out to subscribers and keeps a capped log of recent results.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
	snapshotFn  func() model.Snapshot

	resultsMu sync.Mutex
	results   []model.GameResult
	resultCap int

	storage storage.Storage
	logger  *slog.Logger
}

// New creates a Hub persisting results to the given store.
// resultCap bounds the in-memory recent-results log; <=0 uses the default.
func New(store storage.Storage, resultCap int, logger *slog.Logger) *Hub {
	if resultCap <= 0 {
		resultCap = model.DefaultResultLogCap
	}
	return &Hub{
		subscribers: make(map[*Subscriber]struct{}),
		resultCap:   resultCap,
		storage:     store,
		logger:      logger.With(slog.String("component", "notify")),
	}
}

// SetSnapshotSource wires the function that builds the published snapshot.
// Must be called before the first PublishUsersChanged.
func (h *Hub) SetSnapshotSource(fn func() model.Snapshot) {
	h.mu.Lock()
	h.snapshotFn = fn
	h.mu.Unlock()
}

// Subscribe registers a new subscriber
func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{ch: make(chan Event, DefaultSubscriberBuffer)}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscriber and closes its channel
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(sub.ch)
	}
	h.mu.Unlock()
}

// PublishUsersChanged builds a fresh snapshot and fans it out
func (h *Hub) PublishUsersChanged() {
	h.mu.RLock()
	fn := h.snapshotFn
	h.mu.RUnlock()
	if fn == nil {
		return
	}

	snapshot := fn()
	h.publish(Event{Type: EventUsersChanged, Snapshot: &snapshot})
}

// PublishGameOver persists a finished game and fans it out. Persistence
// failure aborts before any in-memory mutation.
func (h *Hub) PublishGameOver(ctx context.Context, result model.GameResult) error {
	if err := h.storage.AppendGameResult(ctx, &result); err != nil {
		return err
	}

	h.resultsMu.Lock()
	h.results = append(h.results, result)
	if len(h.results) > h.resultCap {
		h.results = h.results[len(h.results)-h.resultCap:]
	}
	h.resultsMu.Unlock()

	h.publish(Event{Type: EventGameOver, Result: &result})
	return nil
}

// RecentResults returns the capped recent-results log, oldest first
func (h *Hub) RecentResults() []model.GameResult {
	h.resultsMu.Lock()
	defer h.resultsMu.Unlock()
	return append([]model.GameResult(nil), h.results...)
}

// LoadRecent primes the in-memory result log from storage at startup
func (h *Hub) LoadRecent(ctx context.Context) error {
	stored, err := h.storage.GetRecentResults(ctx, h.resultCap)
	if err != nil {
		return err
	}

	// Storage returns most recent first; the log is kept oldest first
	loaded := make([]model.GameResult, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		loaded = append(loaded, stored[i])
	}

	h.resultsMu.Lock()
	h.results = loaded
	h.resultsMu.Unlock()
	return nil
}

// publish delivers an event to every subscriber without blocking
func (h *Hub) publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for sub := range h.subscribers {
		select {
		case sub.ch <- event:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("notification dropped - subscriber buffer full",
			slog.String("event", string(event.Type)),
			slog.Int("dropped", dropped))
	}
}
