package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/huntworks/trailhunt/internal/dependencies/random"
	"github.com/huntworks/trailhunt/internal/model"
	"github.com/huntworks/trailhunt/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Progress lives as one JSON blob per participant; ApplyClaim uses
// WATCH-based optimistic concurrency so racing claims for the same
// participant serialize without a server-side lock.
type Storage struct {
	client *redis.Client
	random random.Random
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config, rnd random.Random) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		random: rnd,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, rnd random.Random, cfg Config) *Storage {
	return &Storage{
		client: client,
		random: rnd,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetProgress(ctx context.Context, id model.ParticipantID) (*model.Progress, error) {
	data, err := s.client.Get(ctx, progressKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.NewProgress(id), nil
		}
		return nil, storeErr(err)
	}

	var prog model.Progress
	if err := json.Unmarshal(data, &prog); err != nil {
		return nil, storeErr(err)
	}
	return &prog, nil
}

func (s *Storage) ApplyClaim(ctx context.Context, id model.ParticipantID, checkpoint model.CheckpointID, at time.Time) (*model.Progress, error) {
	key := progressKey(id)

	var updated *model.Progress
	txf := func(tx *redis.Tx) error {
		prog := model.NewProgress(id)

		data, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			// First claim for this participant
		case err != nil:
			return err
		default:
			if err := json.Unmarshal(data, prog); err != nil {
				return err
			}
		}

		if err := prog.MarkCleared(checkpoint, at); err != nil {
			return err
		}

		encoded, err := json.Marshal(prog)
		if err != nil {
			return err
		}

		// EXEC fails with redis.TxFailedErr if the watched key changed
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			pipe.SAdd(ctx, participantsKey(), string(id))
			return nil
		})
		if err != nil {
			return err
		}

		updated = prog
		return nil
	}

	for attempt := 0; attempt < s.cfg.ClaimRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return updated, nil
		case errors.Is(err, redis.TxFailedErr):
			// Another claim for this participant landed first; back off and retry
			if err := s.backoff(ctx); err != nil {
				return nil, err
			}
		case errors.Is(err, model.ErrAlreadyCleared):
			return nil, model.ErrAlreadyCleared
		default:
			return nil, storeErr(err)
		}
	}

	return nil, storeErr(fmt.Errorf("claim contention persisted after %d attempts", s.cfg.ClaimRetries))
}

func (s *Storage) ListProgress(ctx context.Context) ([]*model.Progress, error) {
	ids, err := s.client.SMembers(ctx, participantsKey()).Result()
	if err != nil {
		return nil, storeErr(err)
	}

	if len(ids) == 0 {
		return []*model.Progress{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = progressKey(model.ParticipantID(id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, storeErr(err)
	}

	records := make([]*model.Progress, 0, len(values))
	for _, val := range values {
		if val == nil {
			continue // index entry with no record (reset raced a list)
		}
		var prog model.Progress
		if err := json.Unmarshal([]byte(val.(string)), &prog); err != nil {
			continue // Skip invalid data
		}
		records = append(records, &prog)
	}

	return records, nil
}

func (s *Storage) DeleteProgress(ctx context.Context, id model.ParticipantID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, progressKey(id))
	pipe.SRem(ctx, participantsKey(), string(id))
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return storeErr(err)
	}
	return nil
}

// backoff sleeps for a random slice of the configured jitter window
func (s *Storage) backoff(ctx context.Context) error {
	jitter := time.Duration(s.random.Intn(int(s.cfg.RetryJitter)))
	select {
	case <-ctx.Done():
		return storeErr(ctx.Err())
	case <-time.After(jitter):
		return nil
	}
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
}
