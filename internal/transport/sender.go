package transport

import "github.com/mcoot/cardduel-go/internal/model"

// Event names pushed to clients
const (
	EventRepeatLogin  = "repeat_login"
	EventUsersChanged = "users_changed"
	EventGameOver     = "game_over"
)

// Sender delivers server-initiated messages to clients. Delivery is
// best-effort: callers treat a failed send as fire-and-forget and never let
// it block or fail a session-state transition.
type Sender interface {
	// SendToClient pushes an event to one connection
	SendToClient(connID model.ConnectionID, event string, payload any) error

	// Broadcast pushes an event to every connected client
	Broadcast(event string, payload any) error
}

// NopSender discards everything. Used when no push transport is attached.
type NopSender struct{}

var _ Sender = (*NopSender)(nil)

func (NopSender) SendToClient(model.ConnectionID, string, any) error { return nil }

func (NopSender) Broadcast(string, any) error { return nil }
