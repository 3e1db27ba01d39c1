package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/mcoot/cardduel-go/internal/model"
	"github.com/mcoot/cardduel-go/internal/storage"
)

// Storage is an in-memory implementation of the account store
type Storage struct {
	mu sync.RWMutex

	accounts map[string]*model.Account // keyed by lowercased username
	results  []model.GameResult
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts: make(map[string]*model.Account),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func accountKey(username string) string {
	return strings.ToLower(username)
}

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[accountKey(account.Username)] = account
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, username string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[accountKey(username)]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	copied := *account
	copied.Decks = append([]model.Deck(nil), account.Decks...)
	return &copied, nil
}

func (s *Storage) AccountExists(ctx context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[accountKey(username)]
	return ok, nil
}

// Deck persistence

func (s *Storage) AddDeck(ctx context.Context, username string, deck model.Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountKey(username)]
	if !ok {
		return model.ErrAccountNotFound
	}
	// The cap is enforced here, under the store's lock, so concurrent adds
	// against a nearly-full account cannot both slip past a caller's check
	if len(account.Decks) >= model.MaxDecksPerUser {
		return model.ErrDeckLimit
	}
	account.Decks = append(account.Decks, deck)
	return nil
}

func (s *Storage) RemoveDeck(ctx context.Context, username string, deckID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountKey(username)]
	if !ok {
		return model.ErrAccountNotFound
	}
	for i := range account.Decks {
		if account.Decks[i].ID == deckID {
			account.Decks = append(account.Decks[:i], account.Decks[i+1:]...)
			return nil
		}
	}
	return model.ErrDeckNotFound
}

func (s *Storage) ModifyDeck(ctx context.Context, username string, deckID string, deck model.Deck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountKey(username)]
	if !ok {
		return model.ErrAccountNotFound
	}
	for i := range account.Decks {
		if account.Decks[i].ID == deckID {
			account.Decks[i] = deck
			return nil
		}
	}
	return model.ErrDeckNotFound
}

// Game result persistence

func (s *Storage) AppendGameResult(ctx context.Context, result *model.GameResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, *result)
	return nil
}

func (s *Storage) GetRecentResults(ctx context.Context, limit int) ([]model.GameResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.results) {
		limit = len(s.results)
	}
	// Most recent first
	out := make([]model.GameResult, 0, limit)
	for i := len(s.results) - 1; i >= len(s.results)-limit; i-- {
		out = append(out, s.results[i])
	}
	return out, nil
}
