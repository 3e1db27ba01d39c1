package model

import "time"

// Account is a registered player account as held by the account store.
// The password hash never travels with a live session; sessions carry a
// User built from the account at login time.
type Account struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"` // bcrypt hash
	DisplayName  string    `json:"display_name"`
	Decks        []Deck    `json:"decks"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
