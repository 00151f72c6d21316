package claim

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/huntworks/trailhunt/internal/dependencies/clock"
	"github.com/huntworks/trailhunt/internal/identity"
	"github.com/huntworks/trailhunt/internal/model"
	"github.com/huntworks/trailhunt/internal/secrets"
	"github.com/huntworks/trailhunt/internal/storage"
)

// Controller runs the claim pipeline: authenticate, validate, check the
// passphrase, apply. Each claim fails with exactly one error kind, decided
// by a fixed check order, so a caller never learns whether a checkpoint
// exists (or what its passphrase is) without authenticating first.
type Controller struct {
	resolver identity.Resolver
	secrets  secrets.ServiceInterface
	storage  storage.Storage
	clock    clock.Clock
	logger   *slog.Logger
}

// NewController creates a new claim Controller
func NewController(
	resolver identity.Resolver,
	secrets secrets.ServiceInterface,
	storage storage.Storage,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		resolver: resolver,
		secrets:  secrets,
		storage:  storage,
		clock:    clock,
		logger:   logger,
	}
}

// Claim validates and applies one checkpoint claim.
//
// Check order, first failure wins:
// resolve credential, validate checkpoint id, reject if already cleared,
// look up the expected passphrase, compare passphrases, apply atomically.
// A duplicate that slips past the early check because of a concurrent
// claim still surfaces ErrAlreadyCleared from the store.
func (c *Controller) Claim(ctx context.Context, cred identity.Credential, checkpointID model.CheckpointID, passphrase string) (*model.ClaimResult, error) {
	participantID, err := c.resolver.Resolve(ctx, cred)
	if err != nil {
		return nil, err
	}

	if !checkpointID.Valid() {
		return nil, model.ErrInvalidCheckpoint
	}

	prog, err := c.storage.GetProgress(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if prog.HasCleared(checkpointID) {
		return nil, model.ErrAlreadyCleared
	}

	expected, err := c.secrets.Lookup(ctx, checkpointID)
	if err != nil {
		return nil, err
	}

	if !passphraseMatches(passphrase, expected) {
		return nil, model.ErrInvalidPassphrase
	}

	total, err := c.secrets.Count(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := c.storage.ApplyClaim(ctx, participantID, checkpointID, c.clock.Now())
	if err != nil {
		if !errors.Is(err, model.ErrAlreadyCleared) {
			c.logger.Error("failed to apply claim",
				slog.String("participant_id", string(participantID)),
				slog.Int("checkpoint_id", int(checkpointID)),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	result := &model.ClaimResult{
		ParticipantID:    participantID,
		CheckpointID:     checkpointID,
		ClearedCount:     updated.ClearedCount,
		TotalCheckpoints: total,
		Complete:         updated.ClearedCount == total,
		ClaimedAt:        updated.UpdatedAt,
	}

	c.logger.Info("checkpoint claimed",
		slog.String("participant_id", string(participantID)),
		slog.Int("checkpoint_id", int(checkpointID)),
		slog.Int("cleared_count", result.ClearedCount),
		slog.Bool("complete", result.Complete),
	)

	return result, nil
}

// ProgressFor returns the participant's progress with completion judged
// against the current checkpoint count. Completion is derived on read and
// never stored, so shrinking or growing the manifest between restarts
// re-derives it consistently.
func (c *Controller) ProgressFor(ctx context.Context, id model.ParticipantID) (*model.ProgressReport, error) {
	prog, err := c.storage.GetProgress(ctx, id)
	if err != nil {
		return nil, err
	}

	total, err := c.secrets.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &model.ProgressReport{
		Progress:         prog,
		TotalCheckpoints: total,
		Complete:         prog.ClearedCount == total,
	}, nil
}

// passphraseMatches compares a submitted passphrase against the expected
// one: both sides trimmed, then a Unicode case-insensitive comparison.
// Interior whitespace is significant, so "app le" never matches "apple".
func passphraseMatches(submitted, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(submitted), strings.TrimSpace(expected))
}

// Interface for dependency injection
type ControllerInterface interface {
	Claim(ctx context.Context, cred identity.Credential, checkpointID model.CheckpointID, passphrase string) (*model.ClaimResult, error)
	ProgressFor(ctx context.Context, id model.ParticipantID) (*model.ProgressReport, error)
}

var _ ControllerInterface = (*Controller)(nil)
