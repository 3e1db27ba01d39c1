package model

// Deck is a user-built card list. IDs are unique within one user's deck list
type Deck struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Faction string   `json:"faction"`
	Leader  string   `json:"leader"`
	Cards   []string `json:"cards"`
}
