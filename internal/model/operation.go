package model

import "encoding/json"

// Operation is an in-game action forwarded verbatim to the room's game
// host. The session core does not interpret the payload.
type Operation struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}
