package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/cardduel-go/internal/services/decks"
)

func TestResolve(t *testing.T) {
	resolver := NewResolver(DefaultProfiles())

	tests := []struct {
		name        string
		password    string
		wantOK      bool
		wantForce   bool
		wantDisplay string
	}{
		{"default profile", "ai", true, false, "Nova"},
		{"uppercase", "AI", true, false, "Nova"},
		{"second profile", "ai1", true, false, "Dragon Hunters"},
		{"mixed case", "Ai1", true, false, "Dragon Hunters"},
		{"forcing suffix", "ai#f", true, true, "Nova"},
		{"forcing suffix uppercase", "AI1#F", true, true, "Dragon Hunters"},
		{"private key", "secret", false, false, ""},
		{"suffix on private key", "secret#f", false, false, ""},
		{"empty", "", false, false, ""},
		{"suffix alone", "#f", false, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, force, ok := resolver.Resolve(tt.password)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantForce, force)
			assert.Equal(t, tt.wantDisplay, profile.DisplayName)
		})
	}
}

func TestDefaultProfileDecksAreLegal(t *testing.T) {
	validator := decks.NewBasicValidator()
	for _, profile := range DefaultProfiles() {
		assert.True(t, validator.IsLegal(profile.Deck), "profile %s", profile.Key)
	}
}
