package model

import "time"

// Overview is the public summary of the hunt
type Overview struct {
	TotalCheckpoints int
	Checkpoints      []Checkpoint // id order, passphrases stripped
	Participants     int          // participants with at least one cleared checkpoint
}

// Standing is one leaderboard row
type Standing struct {
	Rank          int
	ParticipantID ParticipantID
	ClearedCount  int
	Complete      bool
	UpdatedAt     time.Time
}
