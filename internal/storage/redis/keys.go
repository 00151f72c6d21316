package redis

import (
	"fmt"

	"github.com/huntworks/trailhunt/internal/model"
)

// Key prefix for all hunt-related data
const keyPrefix = "trailhunt"

// progressKey returns the Redis key for a participant's Progress
func progressKey(id model.ParticipantID) string {
	return fmt.Sprintf("%s:progress:%s", keyPrefix, id)
}

// participantsKey returns the Redis key for the SET of participants with progress
func participantsKey() string {
	return fmt.Sprintf("%s:idx:participants", keyPrefix)
}
