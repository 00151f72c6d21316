package sse

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/huntworks/trailhunt/internal/dependencies/clock"
	"github.com/huntworks/trailhunt/internal/model"
)

// Broadcaster handles broadcasting hunt events to SSE clients
type Broadcaster struct {
	hub    *Hub
	clock  clock.Clock
	logger *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hub *Hub, clk clock.Clock, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hub:    hub,
		clock:  clk,
		logger: logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// BroadcastCheckpointCleared broadcasts a successful claim to all clients
func (b *Broadcaster) BroadcastCheckpointCleared(result *model.ClaimResult) {
	b.publish(model.Event{
		Type:          model.EventCheckpointCleared,
		Timestamp:     result.ClaimedAt,
		ParticipantID: result.ParticipantID,
		Payload: model.CheckpointClearedPayload{
			CheckpointID:     result.CheckpointID,
			ClearedCount:     result.ClearedCount,
			TotalCheckpoints: result.TotalCheckpoints,
		},
	})
}

// BroadcastHuntCompleted broadcasts that a participant cleared the final checkpoint
func (b *Broadcaster) BroadcastHuntCompleted(result *model.ClaimResult) {
	b.publish(model.Event{
		Type:          model.EventHuntCompleted,
		Timestamp:     result.ClaimedAt,
		ParticipantID: result.ParticipantID,
		Payload: model.HuntCompletedPayload{
			TotalCheckpoints: result.TotalCheckpoints,
		},
	})
}

// BroadcastProgressReset broadcasts that a participant's progress was wiped
func (b *Broadcaster) BroadcastProgressReset(participantID model.ParticipantID, previous *model.Progress) {
	b.publish(model.Event{
		Type:          model.EventProgressReset,
		Timestamp:     b.clock.Now(),
		ParticipantID: participantID,
		Payload: model.ProgressResetPayload{
			ClearedCount: previous.ClearedCount,
		},
	})
}

func (b *Broadcaster) publish(event model.Event) {
	data, err := encodeEvent(event)
	if err != nil {
		b.logger.Error("sse failed to encode event",
			slog.String("event_type", string(event.Type)),
			slog.Any("error", err))
		return
	}
	b.hub.BroadcastEvent(string(event.Type), string(data))
}

// eventBody is the JSON wire form of a live feed event
type eventBody struct {
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	ParticipantID string    `json:"participant_id"`
	Payload       any       `json:"payload,omitempty"`
}

type checkpointClearedBody struct {
	CheckpointID     int `json:"checkpoint_id"`
	ClearedCount     int `json:"cleared_count"`
	TotalCheckpoints int `json:"total_checkpoints"`
}

type huntCompletedBody struct {
	TotalCheckpoints int `json:"total_checkpoints"`
}

type progressResetBody struct {
	ClearedCount int `json:"cleared_count"`
}

// encodeEvent converts a model event to its JSON wire form
func encodeEvent(event model.Event) ([]byte, error) {
	body := eventBody{
		Type:          string(event.Type),
		Timestamp:     event.Timestamp,
		ParticipantID: string(event.ParticipantID),
	}

	switch p := event.Payload.(type) {
	case model.CheckpointClearedPayload:
		body.Payload = checkpointClearedBody{
			CheckpointID:     int(p.CheckpointID),
			ClearedCount:     p.ClearedCount,
			TotalCheckpoints: p.TotalCheckpoints,
		}
	case model.HuntCompletedPayload:
		body.Payload = huntCompletedBody{
			TotalCheckpoints: p.TotalCheckpoints,
		}
	case model.ProgressResetPayload:
		body.Payload = progressResetBody{
			ClearedCount: p.ClearedCount,
		}
	}

	return json.Marshal(body)
}
