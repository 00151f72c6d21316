package secrets

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/huntworks/trailhunt/internal/model"
)

// Service resolves checkpoint ids to their expected passphrases.
//
// The mapping is built once at startup, directly or from a manifest file,
// and never mutated afterwards, so reads need no locking. Rotating a
// passphrase means restarting the process with an updated manifest.
type Service struct {
	checkpoints map[model.CheckpointID]model.Checkpoint
	ids         []model.CheckpointID // ascending
}

// New creates a Service from a list of checkpoints.
// Passphrases are trimmed here so the claim path only pays for case folding.
func New(checkpoints []model.Checkpoint) (*Service, error) {
	s := &Service{
		checkpoints: make(map[model.CheckpointID]model.Checkpoint, len(checkpoints)),
	}

	for _, cp := range checkpoints {
		if !cp.ID.Valid() {
			return nil, fmt.Errorf("checkpoint %d: id must be positive", cp.ID)
		}
		if _, exists := s.checkpoints[cp.ID]; exists {
			return nil, fmt.Errorf("checkpoint %d: duplicate id", cp.ID)
		}
		cp.Passphrase = strings.TrimSpace(cp.Passphrase)
		if cp.Passphrase == "" {
			return nil, fmt.Errorf("checkpoint %d: passphrase is empty", cp.ID)
		}
		s.checkpoints[cp.ID] = cp
		s.ids = append(s.ids, cp.ID)
	}

	sort.Slice(s.ids, func(i, j int) bool { return s.ids[i] < s.ids[j] })
	return s, nil
}

// Lookup returns the expected passphrase for a checkpoint.
// Returns ErrUnknownCheckpoint for ids outside this hunt.
func (s *Service) Lookup(ctx context.Context, id model.CheckpointID) (string, error) {
	cp, ok := s.checkpoints[id]
	if !ok {
		return "", model.ErrUnknownCheckpoint
	}
	return cp.Passphrase, nil
}

// Checkpoints returns the hunt's checkpoints in id order.
// Passphrases are stripped from the copies; only Lookup reveals them.
func (s *Service) Checkpoints(ctx context.Context) ([]model.Checkpoint, error) {
	out := make([]model.Checkpoint, 0, len(s.ids))
	for _, id := range s.ids {
		cp := s.checkpoints[id]
		cp.Passphrase = ""
		out = append(out, cp)
	}
	return out, nil
}

// Count returns the number of checkpoints, i.e. the completion target
func (s *Service) Count(ctx context.Context) (int, error) {
	return len(s.checkpoints), nil
}

// Interface for dependency injection.
// Signatures are context-aware because the store sits at an I/O-shaped
// boundary even though this implementation is an in-memory map.
type ServiceInterface interface {
	Lookup(ctx context.Context, id model.CheckpointID) (string, error)
	Checkpoints(ctx context.Context) ([]model.Checkpoint, error)
	Count(ctx context.Context) (int, error)
}

var _ ServiceInterface = (*Service)(nil)
