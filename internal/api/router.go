package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/cardduel-go/internal/api/handler"
	"github.com/mcoot/cardduel-go/internal/api/middleware"
	"github.com/mcoot/cardduel-go/internal/api/sse"
	"github.com/mcoot/cardduel-go/internal/dependencies/random"
	"github.com/mcoot/cardduel-go/internal/notify"
	"github.com/mcoot/cardduel-go/internal/services/match"
	"github.com/mcoot/cardduel-go/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger    *slog.Logger
	Registry  *session.Registry
	Engine    *match.Engine
	NotifyHub *notify.Hub
	StreamHub *sse.Hub
	Random    random.Random
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.Registry, cfg.Random)
	matchHandler := handler.NewMatchHandler(cfg.Engine)
	deckHandler := handler.NewDeckHandler(cfg.Registry)
	gameHandler := handler.NewGameHandler(cfg.Registry)
	infoHandler := handler.NewInfoHandler(cfg.Registry, cfg.NotifyHub)
	eventsHandler := handler.NewEventsHandler(cfg.Registry, cfg.StreamHub)

	authMiddleware := middleware.Auth(cfg.Registry)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Session routes (no auth needed to register or log in)
	api.HandleFunc("/session/register", sessionHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/session/login", sessionHandler.Login).Methods(http.MethodPost)

	logout := api.PathPrefix("/session/logout").Subrouter()
	logout.Use(authMiddleware)
	logout.HandleFunc("", sessionHandler.Logout).Methods(http.MethodPost)

	// Matchmaking routes
	matches := api.PathPrefix("/match").Subrouter()
	matches.Use(authMiddleware)
	matches.HandleFunc("", matchHandler.Start).Methods(http.MethodPost)
	matches.HandleFunc("", matchHandler.Stop).Methods(http.MethodDelete)

	// Deck routes
	decks := api.PathPrefix("/decks").Subrouter()
	decks.Use(authMiddleware)
	decks.HandleFunc("", deckHandler.Add).Methods(http.MethodPost)
	decks.HandleFunc("/{id}", deckHandler.Modify).Methods(http.MethodPut)
	decks.HandleFunc("/{id}", deckHandler.Remove).Methods(http.MethodDelete)

	// In-game operation forwarding
	game := api.PathPrefix("/game").Subrouter()
	game.Use(authMiddleware)
	game.HandleFunc("/operation", gameHandler.Operation).Methods(http.MethodPost)

	// Event stream (the connection's liveness signal)
	events := api.PathPrefix("/events").Subrouter()
	events.Use(authMiddleware)
	events.HandleFunc("", eventsHandler.Stream).Methods(http.MethodGet)

	// Public read-only views
	api.HandleFunc("/users", infoHandler.Users).Methods(http.MethodGet)
	api.HandleFunc("/users/count", infoHandler.UserCount).Methods(http.MethodGet)
	api.HandleFunc("/results", infoHandler.Results).Methods(http.MethodGet)
	api.HandleFunc("/meta/version", infoHandler.Version).Methods(http.MethodGet)
	api.HandleFunc("/meta/notes", infoHandler.Notes).Methods(http.MethodGet)
	api.HandleFunc("/meta/cards", infoHandler.Cards).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
