package sse

import (
	"net/http"
	"time"

	"github.com/mcoot/cardduel-go/internal/model"
)

const (
	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Buffer size for outgoing messages
	sendBufferSize = 256
)

// Client is one attached SSE stream
type Client struct {
	connID model.ConnectionID
	send   chan []byte
}

// Serve handles the SSE stream for one connection. It blocks until the
// client goes away or the hub displaces the stream; the caller treats the
// return as the connection ending.
func Serve(w http.ResponseWriter, r *http.Request, hub *Hub, connID model.ConnectionID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	client := &Client{
		connID: connID,
		send:   make(chan []byte, sendBufferSize),
	}
	hub.register(client)
	defer hub.unregister(client)

	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, open := <-client.send:
			if !open {
				// Displaced by a newer stream for this connection
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
