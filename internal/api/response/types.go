package response

import "github.com/mcoot/cardduel-go/internal/model"

// OkResponse carries the boolean verdict of a rejected-or-accepted request.
// A rejected request is an ordinary false, not an error payload.
type OkResponse struct {
	Ok bool `json:"ok"`
}

// CountResponse carries a single integer count
type CountResponse struct {
	Count int `json:"count"`
}

// VersionResponse carries the latest client version string
type VersionResponse struct {
	Version string `json:"version"`
}

// NotesResponse carries the operator bulletin text
type NotesResponse struct {
	Notes string `json:"notes"`
}

// ResultsResponse carries the recent game results, oldest first
type ResultsResponse struct {
	Results []model.GameResult `json:"results"`
}
