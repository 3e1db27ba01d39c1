package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case LoginResult:
		o.printLoginResult(v)
	case OkResult:
		o.printOkResult(v)
	case Snapshot:
		o.printSnapshot(v)
	case CountResult:
		fmt.Printf("Online users: %d\n", v.Count)
	case VersionResult:
		fmt.Printf("Latest version: %s\n", v.Version)
	case NotesResult:
		fmt.Println(v.Notes)
	case ResultsResult:
		o.printResults(v)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Deck response type (matches API)
type Deck struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Faction string   `json:"faction"`
	Leader  string   `json:"leader"`
	Cards   []string `json:"cards"`
}

// LoginResult combines user info and the issued connection id
type LoginResult struct {
	ConnectionID string `json:"connection_id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	Decks        []Deck `json:"decks"`
}

// OkResult is the accepted/rejected verdict of a request
type OkResult struct {
	Ok bool `json:"ok"`
}

// UserSummary response type
type UserSummary struct {
	DisplayName string `json:"display_name"`
	State       string `json:"state"`
}

// RoomPair response type
type RoomPair struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

// Snapshot response type
type Snapshot struct {
	UsersByState map[string][]UserSummary `json:"users_by_state"`
	HumanRooms   []RoomPair               `json:"human_rooms"`
	AIRooms      []RoomPair               `json:"ai_rooms"`
}

// CountResult response type
type CountResult struct {
	Count int `json:"count"`
}

// VersionResult response type
type VersionResult struct {
	Version string `json:"version"`
}

// NotesResult response type
type NotesResult struct {
	Notes string `json:"notes"`
}

// GameResult response type
type GameResult struct {
	RoomID     string    `json:"room_id"`
	Player1    string    `json:"player1"`
	Player2    string    `json:"player2"`
	Winner     string    `json:"winner"`
	VersusAI   bool      `json:"versus_ai"`
	FinishedAt time.Time `json:"finished_at"`
}

// ResultsResult response type
type ResultsResult struct {
	Results []GameResult `json:"results"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printLoginResult(l LoginResult) {
	fmt.Printf("Logged in: %s (%s)\n", l.DisplayName, l.Username)
	fmt.Printf("Connection: %s\n", l.ConnectionID)
	fmt.Printf("Decks (%d):\n", len(l.Decks))
	for _, d := range l.Decks {
		fmt.Printf("  - %s: %s [%s] leader=%s cards=%d\n", d.ID, d.Name, d.Faction, d.Leader, len(d.Cards))
	}
}

func (o *Output) printOkResult(r OkResult) {
	if r.Ok {
		fmt.Println("Accepted")
	} else {
		fmt.Println("Rejected")
	}
}

func (o *Output) printSnapshot(s Snapshot) {
	states := make([]string, 0, len(s.UsersByState))
	for state := range s.UsersByState {
		states = append(states, state)
	}
	sort.Strings(states)

	for _, state := range states {
		users := s.UsersByState[state]
		fmt.Printf("%s (%d):\n", state, len(users))
		for _, u := range users {
			fmt.Printf("  - %s\n", u.DisplayName)
		}
	}

	fmt.Printf("Human rooms (%d):\n", len(s.HumanRooms))
	for _, p := range s.HumanRooms {
		fmt.Printf("  - %s vs %s\n", p.Player1, p.Player2)
	}

	fmt.Printf("AI rooms (%d):\n", len(s.AIRooms))
	for _, p := range s.AIRooms {
		fmt.Printf("  - %s vs %s\n", p.Player1, p.Player2)
	}
}

func (o *Output) printResults(r ResultsResult) {
	fmt.Printf("Recent results (%d):\n", len(r.Results))
	for _, res := range r.Results {
		vs := "human"
		if res.VersusAI {
			vs = "ai"
		}
		winner := res.Winner
		if winner == "" {
			winner = "(none)"
		}
		fmt.Printf("  [%s] %s vs %s - winner: %s (%s)\n",
			res.FinishedAt.Format("2006-01-02 15:04:05"),
			res.Player1, res.Player2, winner, vs)
	}
}
