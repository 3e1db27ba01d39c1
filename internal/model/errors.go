package model

import "errors"

// Common errors used across the application. Request rejections (bad deck,
// wrong state, taken username) are ordinary false results rather than
// errors; these cover genuinely absent entities.
var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")

	// Session errors
	ErrUserNotFound = errors.New("user is not connected")

	// Deck errors
	ErrDeckNotFound = errors.New("deck not found")
	ErrDeckLimit    = errors.New("deck limit reached")

	// Room errors
	ErrRoomNotFound = errors.New("room not found")
	ErrNotInRoom    = errors.New("user is not in a room")
)
