package model

import "time"

// GameResult is the immutable record of a finished game
type GameResult struct {
	RoomID     RoomID    `json:"room_id"`
	Player1    string    `json:"player1"`
	Player2    string    `json:"player2"`
	Winner     string    `json:"winner"` // empty on a draw or abandonment
	VersusAI   bool      `json:"versus_ai"`
	FinishedAt time.Time `json:"finished_at"`
}

// DefaultResultLogCap is how many recent results the notification sink keeps
const DefaultResultLogCap = 50
