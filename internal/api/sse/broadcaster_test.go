package sse

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/huntworks/trailhunt/internal/dependencies/mocks"
	"github.com/huntworks/trailhunt/internal/model"
	"github.com/huntworks/trailhunt/internal/testutil"
)

// newTestFeed wires a hub, one registered client and a broadcaster on a fixed clock
func newTestFeed(t *testing.T) (*Broadcaster, *Hub, *Client, time.Time) {
	t.Helper()

	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)

	hub := NewHub(testutil.NopLogger())
	go hub.Run()
	t.Cleanup(hub.Close)

	client := NewClient(hub, "watcher")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	broadcaster := NewBroadcaster(hub, mocks.NewMockClock(now), testutil.NopLogger())
	return broadcaster, hub, client, now
}

// receiveEvent pulls the event name and decoded JSON body out of the next message
func receiveEvent(t *testing.T, client *Client) (string, map[string]any) {
	t.Helper()

	select {
	case msg := <-client.send:
		var eventName, data string
		for _, line := range strings.Split(string(msg), "\n") {
			if strings.HasPrefix(line, "event: ") {
				eventName = strings.TrimPrefix(line, "event: ")
			}
			if strings.HasPrefix(line, "data: ") {
				data = strings.TrimPrefix(line, "data: ")
			}
		}
		var body map[string]any
		if err := json.Unmarshal([]byte(data), &body); err != nil {
			t.Fatalf("event data is not valid JSON: %v\nmessage: %q", err, string(msg))
		}
		return eventName, body
	case <-time.After(100 * time.Millisecond):
		t.Fatal("client did not receive an event")
		return "", nil
	}
}

func TestBroadcaster_CheckpointCleared(t *testing.T) {
	broadcaster, _, client, _ := newTestFeed(t)

	claimedAt := time.Date(2025, 5, 10, 9, 15, 0, 0, time.UTC)
	broadcaster.BroadcastCheckpointCleared(&model.ClaimResult{
		ParticipantID:    "alice",
		CheckpointID:     2,
		ClearedCount:     1,
		TotalCheckpoints: 3,
		Complete:         false,
		ClaimedAt:        claimedAt,
	})

	eventName, body := receiveEvent(t, client)
	if eventName != "checkpoint_cleared" {
		t.Errorf("event name = %q, want %q", eventName, "checkpoint_cleared")
	}
	if body["participant_id"] != "alice" {
		t.Errorf("participant_id = %v, want alice", body["participant_id"])
	}
	if body["timestamp"] != claimedAt.Format(time.RFC3339Nano) {
		t.Errorf("timestamp = %v, want %v", body["timestamp"], claimedAt.Format(time.RFC3339Nano))
	}

	payload, ok := body["payload"].(map[string]any)
	if !ok {
		t.Fatalf("payload missing or not an object: %v", body["payload"])
	}
	if payload["checkpoint_id"] != float64(2) {
		t.Errorf("payload checkpoint_id = %v, want 2", payload["checkpoint_id"])
	}
	if payload["cleared_count"] != float64(1) {
		t.Errorf("payload cleared_count = %v, want 1", payload["cleared_count"])
	}
	if payload["total_checkpoints"] != float64(3) {
		t.Errorf("payload total_checkpoints = %v, want 3", payload["total_checkpoints"])
	}
}

func TestBroadcaster_HuntCompleted(t *testing.T) {
	broadcaster, _, client, _ := newTestFeed(t)

	claimedAt := time.Date(2025, 5, 10, 10, 30, 0, 0, time.UTC)
	broadcaster.BroadcastHuntCompleted(&model.ClaimResult{
		ParticipantID:    "bob",
		CheckpointID:     3,
		ClearedCount:     3,
		TotalCheckpoints: 3,
		Complete:         true,
		ClaimedAt:        claimedAt,
	})

	eventName, body := receiveEvent(t, client)
	if eventName != "hunt_completed" {
		t.Errorf("event name = %q, want %q", eventName, "hunt_completed")
	}
	if body["participant_id"] != "bob" {
		t.Errorf("participant_id = %v, want bob", body["participant_id"])
	}

	payload, ok := body["payload"].(map[string]any)
	if !ok {
		t.Fatalf("payload missing or not an object: %v", body["payload"])
	}
	if payload["total_checkpoints"] != float64(3) {
		t.Errorf("payload total_checkpoints = %v, want 3", payload["total_checkpoints"])
	}
}

func TestBroadcaster_ProgressReset(t *testing.T) {
	broadcaster, _, client, now := newTestFeed(t)

	previous := &model.Progress{
		ParticipantID: "carol",
		ClearedCount:  2,
		Cleared:       []model.CheckpointID{1, 3},
		UpdatedAt:     now.Add(-time.Hour),
	}
	broadcaster.BroadcastProgressReset("carol", previous)

	eventName, body := receiveEvent(t, client)
	if eventName != "progress_reset" {
		t.Errorf("event name = %q, want %q", eventName, "progress_reset")
	}
	if body["participant_id"] != "carol" {
		t.Errorf("participant_id = %v, want carol", body["participant_id"])
	}
	// Resets are stamped at broadcast time, not with the wiped record's timestamp
	if body["timestamp"] != now.Format(time.RFC3339Nano) {
		t.Errorf("timestamp = %v, want %v", body["timestamp"], now.Format(time.RFC3339Nano))
	}

	payload, ok := body["payload"].(map[string]any)
	if !ok {
		t.Fatalf("payload missing or not an object: %v", body["payload"])
	}
	if payload["cleared_count"] != float64(2) {
		t.Errorf("payload cleared_count = %v, want 2", payload["cleared_count"])
	}
}

func TestBroadcaster_ReachesAllClients(t *testing.T) {
	broadcaster, hub, client1, _ := newTestFeed(t)

	client2 := NewClient(hub, "second-watcher")
	hub.Register(client2)
	time.Sleep(10 * time.Millisecond)

	broadcaster.BroadcastCheckpointCleared(&model.ClaimResult{
		ParticipantID:    "alice",
		CheckpointID:     1,
		ClearedCount:     1,
		TotalCheckpoints: 3,
		ClaimedAt:        time.Date(2025, 5, 10, 9, 5, 0, 0, time.UTC),
	})

	for i, client := range []*Client{client1, client2} {
		eventName, _ := receiveEvent(t, client)
		if eventName != "checkpoint_cleared" {
			t.Errorf("client %d got event %q, want checkpoint_cleared", i+1, eventName)
		}
	}
}
