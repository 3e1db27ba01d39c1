package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/cardduel-go/internal/api/apierr"
	"github.com/mcoot/cardduel-go/internal/api/middleware"
	"github.com/mcoot/cardduel-go/internal/api/request"
	"github.com/mcoot/cardduel-go/internal/api/response"
	"github.com/mcoot/cardduel-go/internal/services/session"
)

// DeckHandler handles deck CRUD endpoints
type DeckHandler struct {
	registry *session.Registry
}

// NewDeckHandler creates a new deck handler
func NewDeckHandler(registry *session.Registry) *DeckHandler {
	return &DeckHandler{registry: registry}
}

// Add handles POST /api/v1/decks
func (h *DeckHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req request.DeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Deck.ID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("deck id is required"))
		return
	}

	connID := middleware.GetConnectionID(r.Context())
	ok := h.registry.AddDeck(r.Context(), connID, req.Deck)
	response.Ok(w, ok)
}

// Remove handles DELETE /api/v1/decks/{id}
func (h *DeckHandler) Remove(w http.ResponseWriter, r *http.Request) {
	deckID := mux.Vars(r)["id"]
	connID := middleware.GetConnectionID(r.Context())
	ok := h.registry.RemoveDeck(r.Context(), connID, deckID)
	response.Ok(w, ok)
}

// Modify handles PUT /api/v1/decks/{id}
func (h *DeckHandler) Modify(w http.ResponseWriter, r *http.Request) {
	var req request.DeckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	deckID := mux.Vars(r)["id"]
	connID := middleware.GetConnectionID(r.Context())
	ok := h.registry.ModifyDeck(r.Context(), connID, deckID, req.Deck)
	response.Ok(w, ok)
}
