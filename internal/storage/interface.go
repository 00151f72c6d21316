package storage

import (
	"context"
	"time"

	"github.com/huntworks/trailhunt/internal/model"
)

// Storage defines the interface for progress persistence.
//
// ApplyClaim is the only mutating call on the claim path and must be atomic:
// concurrent claims for the same participant serialize, and a duplicate
// checkpoint is rejected with model.ErrAlreadyCleared without touching the
// record. Backend failures are wrapped with model.ErrStoreUnavailable.
type Storage interface {
	// GetProgress returns the participant's progress. Participants are
	// auto-provisioned: an absent record comes back zero-valued rather
	// than as an error, and reads never persist anything.
	GetProgress(ctx context.Context, id model.ParticipantID) (*model.Progress, error)

	// ApplyClaim adds a checkpoint to the participant's cleared set,
	// increments the count and stamps UpdatedAt, atomically. Returns the
	// updated record.
	ApplyClaim(ctx context.Context, id model.ParticipantID, checkpoint model.CheckpointID, at time.Time) (*model.Progress, error)

	// ListProgress returns every participant with at least one cleared
	// checkpoint, in no particular order.
	ListProgress(ctx context.Context) ([]*model.Progress, error)

	// DeleteProgress removes a participant's record; absent records are a no-op.
	DeleteProgress(ctx context.Context, id model.ParticipantID) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any backend resources.
	Close() error
}
