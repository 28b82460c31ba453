package redis

import (
	"fmt"

	"github.com/mcoot/chessgame-go/internal/model"
)

// Key prefix for all chess data
const keyPrefix = "chess"

// userKey returns the Redis key for a User
func userKey(username string) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, username)
}

// gameKey returns the Redis key for a GameRecord
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gamesIndexKey returns the Redis key for the sorted set of game IDs, scored by creation time
func gamesIndexKey() string {
	return fmt.Sprintf("%s:idx:games", keyPrefix)
}

// scanPattern matches every key this package writes
func scanPattern() string {
	return keyPrefix + ":*"
}
