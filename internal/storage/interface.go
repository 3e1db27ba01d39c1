package storage

import (
	"context"

	"github.com/mcoot/cardduel-go/internal/model"
)

// Storage defines the interface for the persistent account store.
// Deck mutations persist here before the in-memory session state is touched;
// a storage failure must leave the stored account unchanged.
type Storage interface {
	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, username string) (*model.Account, error)
	AccountExists(ctx context.Context, username string) (bool, error)

	// Deck persistence, keyed by account username
	AddDeck(ctx context.Context, username string, deck model.Deck) error
	RemoveDeck(ctx context.Context, username string, deckID string) error
	ModifyDeck(ctx context.Context, username string, deckID string, deck model.Deck) error

	// Game result persistence
	AppendGameResult(ctx context.Context, result *model.GameResult) error
	GetRecentResults(ctx context.Context, limit int) ([]model.GameResult, error)
}
