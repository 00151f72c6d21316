package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/huntworks/trailhunt/internal/dependencies/mocks"
	"github.com/huntworks/trailhunt/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.ClaimRetries = 64 // enough headroom for the contention tests
	cfg.RetryJitter = time.Millisecond

	s.storage = NewWithClient(client, mocks.NewMockRandom(), cfg)
	s.ctx = context.Background()
	s.now = time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Progress tests

func (s *StorageSuite) TestGetProgressAutoProvisions() {
	prog, err := s.storage.GetProgress(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.ParticipantID("alice"), prog.ParticipantID)
	s.Equal(0, prog.ClearedCount)
	s.Empty(prog.Cleared)

	// Reads must not persist the zero record
	s.False(s.mini.Exists(progressKey("alice")))
}

func (s *StorageSuite) TestApplyClaim() {
	prog, err := s.storage.ApplyClaim(s.ctx, "alice", 1, s.now)
	s.Require().NoError(err)

	s.Equal(1, prog.ClearedCount)
	s.Equal([]model.CheckpointID{1}, prog.Cleared)
	s.Equal(s.now, prog.UpdatedAt)

	retrieved, err := s.storage.GetProgress(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(prog, retrieved)
}

func (s *StorageSuite) TestApplyClaimAccumulates() {
	_, err := s.storage.ApplyClaim(s.ctx, "alice", 3, s.now)
	s.Require().NoError(err)
	_, err = s.storage.ApplyClaim(s.ctx, "alice", 1, s.now.Add(time.Minute))
	s.Require().NoError(err)
	prog, err := s.storage.ApplyClaim(s.ctx, "alice", 2, s.now.Add(2*time.Minute))
	s.Require().NoError(err)

	s.Equal(3, prog.ClearedCount)
	s.Equal([]model.CheckpointID{3, 1, 2}, prog.Cleared) // clear order retained
	s.Equal(s.now.Add(2*time.Minute), prog.UpdatedAt)
}

func (s *StorageSuite) TestApplyClaimAlreadyCleared() {
	_, err := s.storage.ApplyClaim(s.ctx, "alice", 1, s.now)
	s.Require().NoError(err)

	_, err = s.storage.ApplyClaim(s.ctx, "alice", 1, s.now.Add(time.Minute))
	s.ErrorIs(err, model.ErrAlreadyCleared)

	// The failed claim must not have touched the record
	prog, err := s.storage.GetProgress(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, prog.ClearedCount)
	s.Equal(s.now, prog.UpdatedAt)
}

func (s *StorageSuite) TestApplyClaimIndexesParticipant() {
	_, err := s.storage.ApplyClaim(s.ctx, "alice", 1, s.now)
	s.Require().NoError(err)
	_, err = s.storage.ApplyClaim(s.ctx, "bob", 1, s.now)
	s.Require().NoError(err)

	members, err := s.mini.Members(participantsKey())
	s.Require().NoError(err)
	s.ElementsMatch([]string{"alice", "bob"}, members)
}

func (s *StorageSuite) TestListProgress() {
	_, _ = s.storage.ApplyClaim(s.ctx, "alice", 1, s.now)
	_, _ = s.storage.ApplyClaim(s.ctx, "alice", 2, s.now)
	_, _ = s.storage.ApplyClaim(s.ctx, "bob", 1, s.now)

	all, err := s.storage.ListProgress(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *StorageSuite) TestListProgressEmpty() {
	all, err := s.storage.ListProgress(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *StorageSuite) TestDeleteProgress() {
	_, _ = s.storage.ApplyClaim(s.ctx, "alice", 1, s.now)

	err := s.storage.DeleteProgress(s.ctx, "alice")
	s.Require().NoError(err)

	s.False(s.mini.Exists(progressKey("alice")))

	prog, err := s.storage.GetProgress(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(0, prog.ClearedCount)

	all, err := s.storage.ListProgress(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *StorageSuite) TestDeleteProgressAbsent() {
	err := s.storage.DeleteProgress(s.ctx, "nonexistent")
	s.NoError(err)
}

func (s *StorageSuite) TestPing() {
	s.NoError(s.storage.Ping(s.ctx))
}

func (s *StorageSuite) TestPingUnavailable() {
	s.mini.Close()

	err := s.storage.Ping(s.ctx)
	s.ErrorIs(err, model.ErrStoreUnavailable)
}

// Concurrency tests

func (s *StorageSuite) TestConcurrentClaimsSameCheckpoint() {
	const attempts = 16

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.storage.ApplyClaim(s.ctx, "alice", 1, s.now)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			s.ErrorIs(err, model.ErrAlreadyCleared)
		}
	}
	s.Equal(1, successes)

	prog, err := s.storage.GetProgress(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, prog.ClearedCount)
	s.Equal(prog.ClearedCount, len(prog.Cleared))
}

func (s *StorageSuite) TestConcurrentClaimsDistinctCheckpoints() {
	const checkpoints = 16

	var wg sync.WaitGroup
	errs := make([]error, checkpoints)
	for i := 0; i < checkpoints; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.storage.ApplyClaim(s.ctx, "alice", model.CheckpointID(i+1), s.now)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.NoError(err)
	}

	prog, err := s.storage.GetProgress(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(checkpoints, prog.ClearedCount)
	s.Equal(prog.ClearedCount, len(prog.Cleared))
}
