package redis

import (
	"fmt"

	"github.com/softpunk/emberfell/internal/model"
)

// Key prefix for all game data
const keyPrefix = "emberfell"

// characterKey returns the Redis key for a Character
func characterKey(id model.CharacterID) string {
	return fmt.Sprintf("%s:character:%s", keyPrefix, id)
}

// ownerIndexKey returns the Redis key for the SET of a player's character ids
func ownerIndexKey(owner model.PlayerID) string {
	return fmt.Sprintf("%s:idx:owner_characters:%s", keyPrefix, owner)
}
