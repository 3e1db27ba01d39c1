package ai

import (
	"strings"

	"github.com/mcoot/cardduel-go/internal/model"
)

// ForceSuffix on a match password skips human-pairing priority and commits
// directly to the AI opponent (e.g. "ai#f").
const ForceSuffix = "#f"

// Profile describes one built-in AI opponent
type Profile struct {
	Key         string
	DisplayName string
	Deck        model.Deck
}

// Resolver maps match passwords to known AI opponent profiles,
// case-insensitively, honoring the optional forcing suffix
type Resolver struct {
	profiles map[string]Profile
}

// NewResolver creates a resolver over the given profiles
func NewResolver(profiles []Profile) *Resolver {
	m := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		m[strings.ToLower(p.Key)] = p
	}
	return &Resolver{profiles: m}
}

// DefaultProfiles returns the built-in AI opponents
func DefaultProfiles() []Profile {
	return []Profile{
		{
			Key:         "ai",
			DisplayName: "Nova",
			Deck:        builtinDeck("ai", "neutral", "nova_leader"),
		},
		{
			Key:         "ai1",
			DisplayName: "Dragon Hunters",
			Deck:        builtinDeck("ai1", "hunters", "hunt_leader"),
		},
	}
}

// Resolve checks a match password against the known AI profiles.
// It returns the matched profile, whether the forcing suffix was present,
// and whether the password named an AI profile at all.
func (r *Resolver) Resolve(password string) (Profile, bool, bool) {
	key := strings.ToLower(password)
	force := strings.HasSuffix(key, ForceSuffix)
	if force {
		key = strings.TrimSuffix(key, ForceSuffix)
	}
	profile, ok := r.profiles[key]
	if !ok {
		return Profile{}, false, false
	}
	return profile, force, true
}

// builtinDeck fabricates a legal stock deck for an AI profile
func builtinDeck(id, faction, leader string) model.Deck {
	cards := make([]string, 25)
	for i := range cards {
		cards[i] = faction + "_stock"
	}
	return model.Deck{
		ID:      "ai_" + id,
		Name:    "stock " + id,
		Faction: faction,
		Leader:  leader,
		Cards:   cards,
	}
}
