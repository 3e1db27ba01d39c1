package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/cardduel-go/internal/api/apierr"
	"github.com/mcoot/cardduel-go/internal/api/middleware"
	"github.com/mcoot/cardduel-go/internal/api/request"
	"github.com/mcoot/cardduel-go/internal/api/response"
	"github.com/mcoot/cardduel-go/internal/dependencies/random"
	"github.com/mcoot/cardduel-go/internal/model"
	"github.com/mcoot/cardduel-go/internal/services/session"
)

// SessionHandler handles registration, login and logout
type SessionHandler struct {
	registry *session.Registry
	random   random.Random
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(registry *session.Registry, rnd random.Random) *SessionHandler {
	return &SessionHandler{registry: registry, random: rnd}
}

// Register handles POST /api/v1/session/register
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username and password are required"))
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	ok, err := h.registry.Register(r.Context(), req.Username, req.Password, req.DisplayName)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	status := http.StatusCreated
	if !ok {
		status = http.StatusOK
	}
	response.JSON(w, status, response.OkResponse{Ok: ok})
}

// Login handles POST /api/v1/session/login.
// A fresh connection id is issued and returned with the user info.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Username == "" || req.Password == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("username and password are required"))
		return
	}

	connID := model.ConnectionID(h.random.ID("conn_"))
	info, err := h.registry.Login(r.Context(), connID, req.Username, req.Password)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if info == nil {
		apierr.WriteError(w, apierr.NewInvalidCredentialsError())
		return
	}

	response.JSON(w, http.StatusOK, info)
}

// Logout handles POST /api/v1/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	connID := middleware.GetConnectionID(r.Context())
	h.registry.Disconnect(r.Context(), connID, nil)
	response.NoContent(w)
}
