package model

import "time"

// ParticipantID uniquely identifies a participant across the system.
// Values come from the identity resolver; everything else treats them as opaque.
type ParticipantID string

// Progress tracks one participant's cleared checkpoints.
//
// Cleared keeps clear order for audit and event display, but membership is
// what matters: a checkpoint appears at most once, and ClearedCount always
// equals len(Cleared).
type Progress struct {
	ParticipantID ParticipantID
	ClearedCount  int
	Cleared       []CheckpointID
	UpdatedAt     time.Time // time of last successful claim
}

// NewProgress returns the zero-valued record for a participant
func NewProgress(id ParticipantID) *Progress {
	return &Progress{ParticipantID: id}
}

// HasCleared reports whether the checkpoint is in the cleared set
func (p *Progress) HasCleared(id CheckpointID) bool {
	for _, cleared := range p.Cleared {
		if cleared == id {
			return true
		}
	}
	return false
}

// MarkCleared appends the checkpoint to the cleared set and bumps the count.
// Returns ErrAlreadyCleared without mutating anything if it is already present.
func (p *Progress) MarkCleared(id CheckpointID, at time.Time) error {
	if p.HasCleared(id) {
		return ErrAlreadyCleared
	}
	p.Cleared = append(p.Cleared, id)
	p.ClearedCount = len(p.Cleared)
	p.UpdatedAt = at
	return nil
}

// Clone returns a deep copy safe to hand to another goroutine
func (p *Progress) Clone() *Progress {
	out := *p
	out.Cleared = make([]CheckpointID, len(p.Cleared))
	copy(out.Cleared, p.Cleared)
	return &out
}

// ProgressReport is the derived read-only view of a participant's progress
type ProgressReport struct {
	Progress         *Progress
	TotalCheckpoints int
	Complete         bool // ClearedCount == TotalCheckpoints
}
