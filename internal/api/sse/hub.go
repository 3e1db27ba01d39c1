package sse

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mcoot/cardduel-go/internal/model"
	"github.com/mcoot/cardduel-go/internal/notify"
	"github.com/mcoot/cardduel-go/internal/transport"
)

// Hub tracks one SSE stream per connection id and implements the push side
// of the transport boundary. Sends are non-blocking: a slow client has
// messages dropped rather than stalling a state transition.
type Hub struct {
	mu      sync.RWMutex
	clients map[model.ConnectionID]*Client
	logger  *slog.Logger
}

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ConnectionID]*Client),
		logger:  logger.With(slog.String("component", "sse")),
	}
}

var _ transport.Sender = (*Hub)(nil)

// register attaches a client stream, displacing any previous stream for
// the same connection
func (h *Hub) register(client *Client) {
	h.mu.Lock()
	if prev, ok := h.clients[client.connID]; ok {
		close(prev.send)
	}
	h.clients[client.connID] = client
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("sse client registered",
		slog.String("connection_id", string(client.connID)),
		slog.Int("total_clients", total))
}

// unregister detaches a client stream if it is still the active one
func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	if current, ok := h.clients[client.connID]; ok && current == client {
		delete(h.clients, client.connID)
		close(client.send)
	}
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("sse client unregistered",
		slog.String("connection_id", string(client.connID)),
		slog.Int("total_clients", total))
}

// SendToClient pushes an event to one connection. Unknown connections and
// full buffers are not errors; delivery is best-effort.
func (h *Hub) SendToClient(connID model.ConnectionID, event string, payload any) error {
	msg, err := formatMessage(event, payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return nil
	}

	select {
	case client.send <- msg:
	default:
		h.logger.Warn("sse message dropped - client buffer full",
			slog.String("connection_id", string(connID)),
			slog.String("event", event))
	}
	return nil
}

// Broadcast pushes an event to every connected client
func (h *Hub) Broadcast(event string, payload any) error {
	msg, err := formatMessage(event, payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	dropped := 0
	for _, client := range h.clients {
		select {
		case client.send <- msg:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.logger.Warn("sse broadcast partial failure",
			slog.String("event", event),
			slog.Int("dropped", dropped))
	}
	return nil
}

// Pump translates published notifications into broadcasts until the
// subscriber's channel closes. Run it in its own goroutine.
func (h *Hub) Pump(sub *notify.Subscriber) {
	for event := range sub.Events() {
		switch event.Type {
		case notify.EventUsersChanged:
			_ = h.Broadcast(transport.EventUsersChanged, event.Snapshot)
		case notify.EventGameOver:
			_ = h.Broadcast(transport.EventGameOver, event.Result)
		}
	}
}

// ClientCount returns the number of attached streams
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// formatMessage renders an SSE frame with a JSON data payload
func formatMessage(event string, payload any) ([]byte, error) {
	data := []byte("null")
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}

	msg := make([]byte, 0, len(event)+len(data)+16)
	msg = append(msg, "event: "...)
	msg = append(msg, event...)
	msg = append(msg, "\ndata: "...)
	msg = append(msg, data...)
	msg = append(msg, "\n\n"...)
	return msg, nil
}
