package hunt

import (
	"context"
	"log/slog"
	"sort"

	"github.com/huntworks/trailhunt/internal/model"
	"github.com/huntworks/trailhunt/internal/secrets"
	"github.com/huntworks/trailhunt/internal/storage"
)

// Service provides the read-side and admin operations around the hunt:
// the public overview, the leaderboard, and progress administration.
type Service struct {
	secrets secrets.ServiceInterface
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new hunt Service
func New(secrets secrets.ServiceInterface, storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		secrets: secrets,
		storage: storage,
		logger:  logger,
	}
}

// Overview returns the participant-facing shape of the hunt
func (s *Service) Overview(ctx context.Context) (*model.Overview, error) {
	checkpoints, err := s.secrets.Checkpoints(ctx)
	if err != nil {
		return nil, err
	}

	total, err := s.secrets.Count(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.storage.ListProgress(ctx)
	if err != nil {
		return nil, err
	}

	return &model.Overview{
		TotalCheckpoints: total,
		Checkpoints:      checkpoints,
		Participants:     len(records),
	}, nil
}

// Leaderboard returns current standings. Sorted by cleared count
// descending, with earlier progress winning ties and participant id as
// the final tie-break for determinism. A limit of 0 means no limit.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]model.Standing, error) {
	records, err := s.storage.ListProgress(ctx)
	if err != nil {
		return nil, err
	}

	total, err := s.secrets.Count(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].ClearedCount != records[j].ClearedCount {
			return records[i].ClearedCount > records[j].ClearedCount
		}
		if !records[i].UpdatedAt.Equal(records[j].UpdatedAt) {
			return records[i].UpdatedAt.Before(records[j].UpdatedAt)
		}
		return records[i].ParticipantID < records[j].ParticipantID
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	standings := make([]model.Standing, 0, len(records))
	for i, record := range records {
		standings = append(standings, model.Standing{
			Rank:          i + 1,
			ParticipantID: record.ParticipantID,
			ClearedCount:  record.ClearedCount,
			Complete:      record.ClearedCount == total,
			UpdatedAt:     record.UpdatedAt,
		})
	}

	return standings, nil
}

// AllProgress returns every participant's record, participant-sorted
func (s *Service) AllProgress(ctx context.Context) ([]*model.Progress, error) {
	records, err := s.storage.ListProgress(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ParticipantID < records[j].ParticipantID
	})

	return records, nil
}

// ResetProgress wipes one participant's record and returns it as it
// stood, so the caller can report what was removed. Resetting an absent
// participant succeeds with a zero-valued record.
func (s *Service) ResetProgress(ctx context.Context, id model.ParticipantID) (*model.Progress, error) {
	previous, err := s.storage.GetProgress(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.storage.DeleteProgress(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("progress reset",
		slog.String("participant_id", string(id)),
		slog.Int("cleared_count", previous.ClearedCount),
	)

	return previous, nil
}

// Interface for dependency injection
type ServiceInterface interface {
	Overview(ctx context.Context) (*model.Overview, error)
	Leaderboard(ctx context.Context, limit int) ([]model.Standing, error)
	AllProgress(ctx context.Context) ([]*model.Progress, error)
	ResetProgress(ctx context.Context, id model.ParticipantID) (*model.Progress, error)
}

var _ ServiceInterface = (*Service)(nil)
