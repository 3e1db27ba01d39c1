package handler

import (
	"net/http"

	"github.com/mcoot/cardduel-go/internal/api/middleware"
	"github.com/mcoot/cardduel-go/internal/api/sse"
	"github.com/mcoot/cardduel-go/internal/services/session"
)

// EventsHandler serves the per-connection SSE event stream. The stream is
// the connection's liveness signal: when it ends, the session is
// disconnected.
type EventsHandler struct {
	registry *session.Registry
	hub      *sse.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(registry *session.Registry, hub *sse.Hub) *EventsHandler {
	return &EventsHandler{registry: registry, hub: hub}
}

// Stream handles GET /api/v1/events
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	connID := middleware.GetConnectionID(r.Context())

	sse.Serve(w, r, h.hub, connID)

	// Stream ended: the network session is over
	h.registry.Disconnect(r.Context(), connID, r.Context().Err())
}
