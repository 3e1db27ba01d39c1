package redis

import (
	"fmt"
	"strings"
)

// Key prefix for all session-server data
const keyPrefix = "cardduel"

// accountKey returns the Redis key for an Account.
// Usernames are case-insensitive, so the key is lowercased.
func accountKey(username string) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, strings.ToLower(username))
}

// resultsKey returns the Redis key for the recent game results list
func resultsKey() string {
	return fmt.Sprintf("%s:results", keyPrefix)
}
