package model

// UserSummary is the per-user slice of a snapshot
type UserSummary struct {
	DisplayName string    `json:"display_name"`
	State       UserState `json:"state"`
}

// RoomPair is the public view of one ready room
type RoomPair struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

// Snapshot is the aggregated session/room view published on every
// state-changing event. Users currently in a room are excluded from
// UsersByState and appear in the room lists instead.
type Snapshot struct {
	UsersByState map[UserState][]UserSummary `json:"users_by_state"`
	HumanRooms   []RoomPair                  `json:"human_rooms"`
	AIRooms      []RoomPair                  `json:"ai_rooms"`
}
