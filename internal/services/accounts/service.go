package accounts

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/cardduel-go/internal/dependencies/clock"
	"github.com/mcoot/cardduel-go/internal/model"
	"github.com/mcoot/cardduel-go/internal/storage"
)

// Service is the credential side of the account store: registration,
// password checks, and deck persistence. It has no session state; the
// session registry layers connection tracking on top.
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new accounts Service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "accounts")),
	}
}

// Login validates credentials and returns the stored account on success.
// Authentication failure surfaces as a nil account, not an error: the
// caller-visible contract is absence of a result.
func (s *Service) Login(ctx context.Context, username, password string) (*model.Account, error) {
	account, err := s.storage.GetAccount(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}

	return account, nil
}

// Register creates a new account, reporting false if the username is taken
func (s *Service) Register(ctx context.Context, username, password, displayName string) (bool, error) {
	exists, err := s.storage.AccountExists(ctx, username)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	now := s.clock.Now()
	account := &model.Account{
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
		Decks:        []model.Deck{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return false, err
	}

	s.logger.Info("account registered", slog.String("username", username))
	return true, nil
}

// AddDeck persists a new deck on the account
func (s *Service) AddDeck(ctx context.Context, username string, deck model.Deck) error {
	return s.storage.AddDeck(ctx, username, deck)
}

// RemoveDeck removes a deck from the account
func (s *Service) RemoveDeck(ctx context.Context, username string, deckID string) error {
	return s.storage.RemoveDeck(ctx, username, deckID)
}

// ModifyDeck replaces a deck on the account
func (s *Service) ModifyDeck(ctx context.Context, username string, deckID string, deck model.Deck) error {
	return s.storage.ModifyDeck(ctx, username, deckID, deck)
}
