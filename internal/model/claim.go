package model

import "time"

// ClaimResult describes a successful checkpoint claim
type ClaimResult struct {
	ParticipantID    ParticipantID
	CheckpointID     CheckpointID
	ClearedCount     int // post-claim count
	TotalCheckpoints int
	Complete         bool
	ClaimedAt        time.Time
}
