package request

import (
	"encoding/json"

	"github.com/mcoot/cardduel-go/internal/model"
)

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MatchRequest is the request body for entering matchmaking
type MatchRequest struct {
	DeckID   string `json:"deck_id"`
	Password string `json:"password,omitempty"`
}

// DeckRequest is the request body for adding or modifying a deck
type DeckRequest struct {
	Deck model.Deck `json:"deck"`
}

// OperationRequest is the request body for an in-game action
type OperationRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}
