package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/cardduel-go/internal/api/apierr"
	"github.com/mcoot/cardduel-go/internal/api/middleware"
	"github.com/mcoot/cardduel-go/internal/api/request"
	"github.com/mcoot/cardduel-go/internal/api/response"
	"github.com/mcoot/cardduel-go/internal/model"
	"github.com/mcoot/cardduel-go/internal/services/session"
)

// GameHandler forwards in-game operations
type GameHandler struct {
	registry *session.Registry
}

// NewGameHandler creates a new game handler
func NewGameHandler(registry *session.Registry) *GameHandler {
	return &GameHandler{registry: registry}
}

// Operation handles POST /api/v1/game/operation
func (h *GameHandler) Operation(w http.ResponseWriter, r *http.Request) {
	var req request.OperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Type == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("operation type is required"))
		return
	}

	connID := middleware.GetConnectionID(r.Context())
	op := model.Operation{Type: req.Type, Data: req.Data}
	if err := h.registry.GameOperation(connID, op); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}
