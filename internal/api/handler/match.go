package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/cardduel-go/internal/api/apierr"
	"github.com/mcoot/cardduel-go/internal/api/middleware"
	"github.com/mcoot/cardduel-go/internal/api/request"
	"github.com/mcoot/cardduel-go/internal/api/response"
	"github.com/mcoot/cardduel-go/internal/services/match"
)

// MatchHandler handles matchmaking endpoints
type MatchHandler struct {
	engine *match.Engine
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(engine *match.Engine) *MatchHandler {
	return &MatchHandler{engine: engine}
}

// Start handles POST /api/v1/match. A rejection (wrong state, unknown
// deck, illegal deck) is an ordinary ok=false.
func (h *MatchHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req request.MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.DeckID == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("deck_id is required"))
		return
	}

	connID := middleware.GetConnectionID(r.Context())
	ok := h.engine.Match(connID, req.DeckID, req.Password)
	response.Ok(w, ok)
}

// Stop handles DELETE /api/v1/match
func (h *MatchHandler) Stop(w http.ResponseWriter, r *http.Request) {
	connID := middleware.GetConnectionID(r.Context())
	ok := h.engine.StopMatch(connID)
	response.Ok(w, ok)
}
