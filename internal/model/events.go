package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventCheckpointCleared EventType = "checkpoint_cleared"
	EventHuntCompleted     EventType = "hunt_completed"
	EventProgressReset     EventType = "progress_reset"
)

// Event is the base structure for all events
type Event struct {
	Type          EventType
	Timestamp     time.Time
	ParticipantID ParticipantID // The participant the event is about
	Payload       any           // Type-specific data
}

// CheckpointClearedPayload contains data for checkpoint cleared events
type CheckpointClearedPayload struct {
	CheckpointID     CheckpointID
	ClearedCount     int
	TotalCheckpoints int
}

// HuntCompletedPayload contains data for hunt completed events
type HuntCompletedPayload struct {
	TotalCheckpoints int
}

// ProgressResetPayload contains data for progress reset events
type ProgressResetPayload struct {
	ClearedCount int // count wiped by the reset
}
