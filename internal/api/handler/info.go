package handler

import (
	"net/http"

	"github.com/mcoot/cardduel-go/internal/api/response"
	"github.com/mcoot/cardduel-go/internal/notify"
	"github.com/mcoot/cardduel-go/internal/services/session"
)

// InfoHandler serves the public read-only views: user snapshot, counts,
// version, notes, card catalog, recent results
type InfoHandler struct {
	registry *session.Registry
	hub      *notify.Hub
}

// NewInfoHandler creates a new info handler
func NewInfoHandler(registry *session.Registry, hub *notify.Hub) *InfoHandler {
	return &InfoHandler{registry: registry, hub: hub}
}

// Users handles GET /api/v1/users
func (h *InfoHandler) Users(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.registry.Snapshot())
}

// UserCount handles GET /api/v1/users/count
func (h *InfoHandler) UserCount(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.CountResponse{Count: h.registry.UserCount()})
}

// Version handles GET /api/v1/meta/version
func (h *InfoHandler) Version(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.VersionResponse{Version: h.registry.GetLatestVersion()})
}

// Notes handles GET /api/v1/meta/notes
func (h *InfoHandler) Notes(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.NotesResponse{Notes: h.registry.GetNotes()})
}

// Cards handles GET /api/v1/meta/cards. The catalog is opaque serialized
// data from the card provider, passed through untouched.
func (h *InfoHandler) Cards(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(h.registry.GetCardMap()))
}

// Results handles GET /api/v1/results
func (h *InfoHandler) Results(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.ResultsResponse{Results: h.hub.RecentResults()})
}
