package memory

import (
	"context"
	"sync"
	"time"

	"github.com/huntworks/trailhunt/internal/model"
	"github.com/huntworks/trailhunt/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records never escape without being cloned, so callers cannot mutate
// shared state behind the lock.
type Storage struct {
	mu       sync.RWMutex
	progress map[model.ParticipantID]*model.Progress
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		progress: make(map[model.ParticipantID]*model.Progress),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetProgress(ctx context.Context, id model.ParticipantID) (*model.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prog, ok := s.progress[id]
	if !ok {
		return model.NewProgress(id), nil
	}
	return prog.Clone(), nil
}

func (s *Storage) ApplyClaim(ctx context.Context, id model.ParticipantID, checkpoint model.CheckpointID, at time.Time) (*model.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prog, ok := s.progress[id]
	if !ok {
		prog = model.NewProgress(id)
	}
	if err := prog.MarkCleared(checkpoint, at); err != nil {
		return nil, err
	}
	s.progress[id] = prog
	return prog.Clone(), nil
}

func (s *Storage) ListProgress(ctx context.Context) ([]*model.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*model.Progress, 0, len(s.progress))
	for _, prog := range s.progress {
		out = append(out, prog.Clone())
	}
	return out, nil
}

func (s *Storage) DeleteProgress(ctx context.Context, id model.ParticipantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.progress, id)
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

func (s *Storage) Close() error {
	return nil
}
