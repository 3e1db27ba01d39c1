package session

// LatestVersion is the newest client build the server knows about
const LatestVersion = "0.1.0.1"

// operatorNotes is the static bulletin shown on the client's front page
const operatorNotes = `Welcome to the cardduel test server - have fun!

Matching with an empty password pairs you with the next open entrant.
Enter password "ai" or "ai1" to challenge a built-in AI opponent
(when another open match is pending, the human match takes priority).
Append #f to an AI password (e.g. "ai#f") to force the AI match and
skip human pairing entirely.

Any other password is a private key: share it with a friend and you
will be paired together as soon as you both queue with it.

Notes:
1. Accounts are separate from other servers - register a new one.
2. The server may restart for updates; games in progress are forfeit.
`

// GetLatestVersion returns the newest client version string
func (r *Registry) GetLatestVersion() string {
	return LatestVersion
}

// GetNotes returns the operator bulletin text
func (r *Registry) GetNotes() string {
	return operatorNotes
}
