package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/cardduel-go/internal/api/sse"
	"github.com/mcoot/cardduel-go/internal/dependencies/clock"
	"github.com/mcoot/cardduel-go/internal/dependencies/random"
	"github.com/mcoot/cardduel-go/internal/notify"
	"github.com/mcoot/cardduel-go/internal/services/accounts"
	"github.com/mcoot/cardduel-go/internal/services/ai"
	"github.com/mcoot/cardduel-go/internal/services/cards"
	"github.com/mcoot/cardduel-go/internal/services/decks"
	"github.com/mcoot/cardduel-go/internal/services/match"
	"github.com/mcoot/cardduel-go/internal/services/room"
	"github.com/mcoot/cardduel-go/internal/services/session"
	"github.com/mcoot/cardduel-go/internal/storage"
	"github.com/mcoot/cardduel-go/internal/storage/memory"
	redisstorage "github.com/mcoot/cardduel-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Accounts  *accounts.Service
	Registry  *session.Registry
	Engine    *match.Engine
	Rooms     *room.Registry
	Cards     *cards.Service
	NotifyHub *notify.Hub
	StreamHub *sse.Hub
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional; defaults to a no-op)
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	StorageType string
	// RedisConfig holds Redis settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// ResultLogCap bounds the recent-results log (0 = default)
	ResultLogCap int
	// GameHost drives gameplay inside rooms (optional; defaults to NopHost)
	GameHost room.GameHost
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	host := cfg.GameHost
	if host == nil {
		host = room.NopHost{}
	}

	return newWithDependencies(store, clock.New(), random.New(), host, cfg.ResultLogCap, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	host room.GameHost,
	resultCap int,
	logger *slog.Logger,
) *App {
	notifyHub := notify.New(store, resultCap, logger)
	streamHub := sse.NewHub(logger)
	rooms := room.NewRegistry(host, clk, rnd, logger)
	cardsService := cards.New(logger)
	accountsService := accounts.New(store, clk, logger)

	registry := session.NewRegistry(accountsService, rooms, cardsService, streamHub, notifyHub, logger)

	engine := match.NewEngine(
		registry,
		rooms,
		ai.NewResolver(ai.DefaultProfiles()),
		decks.NewBasicValidator(),
		notifyHub,
		clk,
		logger,
	)
	registry.AttachEngine(engine)

	// Stream published notifications out over SSE
	go streamHub.Pump(notifyHub.Subscribe())

	return &App{
		Storage:   store,
		Clock:     clk,
		Random:    rnd,
		Accounts:  accountsService,
		Registry:  registry,
		Engine:    engine,
		Rooms:     rooms,
		Cards:     cardsService,
		NotifyHub: notifyHub,
		StreamHub: streamHub,
	}
}
