package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/cardduel-go/internal/model"
	"github.com/mcoot/cardduel-go/internal/storage"
)

// Storage is a Redis-backed implementation of the account store
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{client: client, cfg: cfg}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{client: client, cfg: cfg}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, accountKey(account.Username), data, 0).Err()
}

func (s *Storage) GetAccount(ctx context.Context, username string) (*model.Account, error) {
	data, err := s.client.Get(ctx, accountKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	var account model.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) AccountExists(ctx context.Context, username string) (bool, error) {
	n, err := s.client.Exists(ctx, accountKey(username)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Deck persistence
//
// Deck mutations are read-modify-write on the account JSON under WATCH, so a
// concurrent mutation of the same account retries rather than clobbering.

const deckTxnRetries = 5

func (s *Storage) mutateDecks(ctx context.Context, username string, mutate func(*model.Account) error) error {
	key := accountKey(username)

	txn := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrAccountNotFound
			}
			return err
		}

		var account model.Account
		if err := json.Unmarshal(data, &account); err != nil {
			return err
		}

		if err := mutate(&account); err != nil {
			return err
		}

		updated, err := json.Marshal(&account)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})
		return err
	}

	for i := 0; i < deckTxnRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return redis.TxFailedErr
}

func (s *Storage) AddDeck(ctx context.Context, username string, deck model.Deck) error {
	return s.mutateDecks(ctx, username, func(account *model.Account) error {
		// Checked inside the WATCH transaction so a concurrent add against
		// the same account cannot push the list past the cap
		if len(account.Decks) >= model.MaxDecksPerUser {
			return model.ErrDeckLimit
		}
		account.Decks = append(account.Decks, deck)
		return nil
	})
}

func (s *Storage) RemoveDeck(ctx context.Context, username string, deckID string) error {
	return s.mutateDecks(ctx, username, func(account *model.Account) error {
		for i := range account.Decks {
			if account.Decks[i].ID == deckID {
				account.Decks = append(account.Decks[:i], account.Decks[i+1:]...)
				return nil
			}
		}
		return model.ErrDeckNotFound
	})
}

func (s *Storage) ModifyDeck(ctx context.Context, username string, deckID string, deck model.Deck) error {
	return s.mutateDecks(ctx, username, func(account *model.Account) error {
		for i := range account.Decks {
			if account.Decks[i].ID == deckID {
				account.Decks[i] = deck
				return nil
			}
		}
		return model.ErrDeckNotFound
	})
}

// Game result persistence

func (s *Storage) AppendGameResult(ctx context.Context, result *model.GameResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, resultsKey(), data)
	if s.cfg.ResultLogLength > 0 {
		pipe.LTrim(ctx, resultsKey(), 0, s.cfg.ResultLogLength-1)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRecentResults(ctx context.Context, limit int) ([]model.GameResult, error) {
	if limit <= 0 {
		limit = int(s.cfg.ResultLogLength)
	}

	items, err := s.client.LRange(ctx, resultsKey(), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, err
	}

	results := make([]model.GameResult, 0, len(items))
	for _, item := range items {
		var result model.GameResult
		if err := json.Unmarshal([]byte(item), &result); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
