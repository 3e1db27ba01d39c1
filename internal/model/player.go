package model

// PlayerKind tags the two participant variants
type PlayerKind string

const (
	PlayerKindHuman PlayerKind = "human"
	PlayerKindAI    PlayerKind = "ai"
)

// Player is a participant in a room: either a connected user with a chosen
// deck, or an AI opponent resolved from a profile. Room code switches on
// Kind rather than relying on dynamic dispatch.
type Player struct {
	Kind        PlayerKind
	DisplayName string

	// Human fields
	ConnectionID ConnectionID // empty for AI players
	Deck         Deck

	// AI fields
	Profile string // AI profile key, empty for human players
}

// NewHumanPlayer binds a connected user and a chosen deck into a participant
func NewHumanPlayer(user *User, deck Deck) *Player {
	return &Player{
		Kind:         PlayerKindHuman,
		DisplayName:  user.DisplayName,
		ConnectionID: user.ConnectionID,
		Deck:         deck,
	}
}

// NewAIPlayer builds a participant for a known AI profile
func NewAIPlayer(profile, displayName string, deck Deck) *Player {
	return &Player{
		Kind:        PlayerKindAI,
		DisplayName: displayName,
		Profile:     profile,
		Deck:        deck,
	}
}

// IsHuman reports whether the player is backed by a connection
func (p *Player) IsHuman() bool {
	return p != nil && p.Kind == PlayerKindHuman
}

// IsAI reports whether the player is an AI opponent
func (p *Player) IsAI() bool {
	return p != nil && p.Kind == PlayerKindAI
}
