package model

// ConnectionID uniquely identifies one network session.
// Its lifetime is the lifetime of the underlying connection.
type ConnectionID string

// UserState is the lifecycle state of a connected user
type UserState string

const (
	// UserStateStandby is a logged-in user with no pending match and no active game
	UserStateStandby UserState = "standby"
	// UserStateMatch is a user queued in the open pool (no password)
	UserStateMatch UserState = "match"
	// UserStatePasswordMatch is a user queued under a password key
	UserStatePasswordMatch UserState = "password_match"
	// UserStatePlay is a user in a human-vs-human room
	UserStatePlay UserState = "play"
	// UserStatePlayWithAI is a user in a human-vs-AI room
	UserStatePlayWithAI UserState = "play_with_ai"
)

// IsQueued reports whether the state is one of the two waiting states
func (s UserState) IsQueued() bool {
	return s == UserStateMatch || s == UserStatePasswordMatch
}

// IsPlaying reports whether the state is one of the two in-room states
func (s UserState) IsPlaying() bool {
	return s == UserStatePlay || s == UserStatePlayWithAI
}

// MaxDecksPerUser is the ceiling on a user's deck list
const MaxDecksPerUser = 40

// User is the per-connection session entity.
// All mutation happens under the session registry's lock.
type User struct {
	ConnectionID ConnectionID
	Username     string
	DisplayName  string
	Decks        []Deck
	State        UserState
	CurrentRoom  *RoomID // nil unless State is play or play_with_ai
}

// GetDeck returns the deck with the given id, or nil if the user doesn't own it
func (u *User) GetDeck(id string) *Deck {
	for i := range u.Decks {
		if u.Decks[i].ID == id {
			return &u.Decks[i]
		}
	}
	return nil
}

// RemoveDeck drops the deck with the given id from the user's list,
// reporting whether it was present
func (u *User) RemoveDeck(id string) bool {
	for i := range u.Decks {
		if u.Decks[i].ID == id {
			u.Decks = append(u.Decks[:i], u.Decks[i+1:]...)
			return true
		}
	}
	return false
}

// ReplaceDeck swaps the deck with the given id for a new one in place,
// reporting whether it was present
func (u *User) ReplaceDeck(id string, deck Deck) bool {
	for i := range u.Decks {
		if u.Decks[i].ID == id {
			u.Decks[i] = deck
			return true
		}
	}
	return false
}
