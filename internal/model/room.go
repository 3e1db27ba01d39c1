package model

import "time"

// RoomID uniquely identifies a game room
type RoomID string

// Room holds a bound pair of players. The gameplay state machine itself
// lives behind the room registry's GameHost boundary; the session core only
// tracks membership and readiness.
type Room struct {
	ID        RoomID
	Player1   *Player
	Player2   *Player
	IsReady   bool // true once both sides are bound
	CreatedAt time.Time
}

// HasAI reports whether at least one side is an AI player
func (r *Room) HasAI() bool {
	return r.Player1.IsAI() || r.Player2.IsAI()
}

// HumanOnly reports whether both sides are connection-backed
func (r *Room) HumanOnly() bool {
	return r.Player1.IsHuman() && r.Player2.IsHuman()
}

// PlayerFor returns the room's player backed by the given connection, or nil
func (r *Room) PlayerFor(connID ConnectionID) *Player {
	if r.Player1.IsHuman() && r.Player1.ConnectionID == connID {
		return r.Player1
	}
	if r.Player2.IsHuman() && r.Player2.ConnectionID == connID {
		return r.Player2
	}
	return nil
}

// Opponent returns the other side of the room relative to the given connection
func (r *Room) Opponent(connID ConnectionID) *Player {
	if r.Player1.IsHuman() && r.Player1.ConnectionID == connID {
		return r.Player2
	}
	return r.Player1
}

// Pair returns the two display names as a RoomPair view
func (r *Room) Pair() RoomPair {
	return RoomPair{
		Player1: r.Player1.DisplayName,
		Player2: r.Player2.DisplayName,
	}
}
