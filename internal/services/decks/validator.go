package decks

import "github.com/mcoot/cardduel-go/internal/model"

// Validator is the deck legality check a deck must pass before it may enter
// matchmaking. The full rules live with the card catalog; the session core
// only needs the boolean verdict.
type Validator interface {
	IsLegal(deck model.Deck) bool
}

// Basic deck construction limits
const (
	MinDeckCards = 25
	MaxDeckCards = 40
)

// BasicValidator applies the baseline construction rules: a leader is chosen
// and the card count is within limits
type BasicValidator struct{}

// NewBasicValidator creates a BasicValidator
func NewBasicValidator() *BasicValidator {
	return &BasicValidator{}
}

var _ Validator = (*BasicValidator)(nil)

// IsLegal reports whether the deck meets the baseline construction rules
func (v *BasicValidator) IsLegal(deck model.Deck) bool {
	if deck.Leader == "" || deck.Faction == "" {
		return false
	}
	return len(deck.Cards) >= MinDeckCards && len(deck.Cards) <= MaxDeckCards
}
