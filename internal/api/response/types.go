package response

import (
	"time"

	"github.com/huntworks/trailhunt/internal/model"
)

// ClaimResult is the response for a successful claim
type ClaimResult struct {
	ParticipantID    string    `json:"participant_id"`
	CheckpointID     int       `json:"checkpoint_id"`
	ClearedCount     int       `json:"cleared_count"`
	TotalCheckpoints int       `json:"total_checkpoints"`
	Complete         bool      `json:"complete"`
	ClaimedAt        time.Time `json:"claimed_at"`
}

// ClaimResultFromModel converts a model.ClaimResult to a response ClaimResult
func ClaimResultFromModel(r *model.ClaimResult) ClaimResult {
	return ClaimResult{
		ParticipantID:    string(r.ParticipantID),
		CheckpointID:     int(r.CheckpointID),
		ClearedCount:     r.ClearedCount,
		TotalCheckpoints: r.TotalCheckpoints,
		Complete:         r.Complete,
		ClaimedAt:        r.ClaimedAt,
	}
}

// Progress represents a participant's progress record
type Progress struct {
	ParticipantID string    `json:"participant_id"`
	ClearedCount  int       `json:"cleared_count"`
	Cleared       []int     `json:"cleared"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProgressFromModel converts a model.Progress to a response Progress.
// Cleared is always a JSON array, never null
func ProgressFromModel(p *model.Progress) Progress {
	cleared := make([]int, len(p.Cleared))
	for i, id := range p.Cleared {
		cleared[i] = int(id)
	}
	return Progress{
		ParticipantID: string(p.ParticipantID),
		ClearedCount:  p.ClearedCount,
		Cleared:       cleared,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ProgressReport is the response for a participant's derived progress view
type ProgressReport struct {
	Progress         Progress `json:"progress"`
	TotalCheckpoints int      `json:"total_checkpoints"`
	Complete         bool     `json:"complete"`
}

// ProgressReportFromModel converts a model.ProgressReport
func ProgressReportFromModel(r *model.ProgressReport) ProgressReport {
	return ProgressReport{
		Progress:         ProgressFromModel(r.Progress),
		TotalCheckpoints: r.TotalCheckpoints,
		Complete:         r.Complete,
	}
}

// Checkpoint represents a checkpoint in the public overview.
// Passphrases never appear in responses
type Checkpoint struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CheckpointFromModel converts a model.Checkpoint
func CheckpointFromModel(c model.Checkpoint) Checkpoint {
	return Checkpoint{
		ID:   int(c.ID),
		Name: c.Name,
	}
}

// Overview is the response for the public hunt summary
type Overview struct {
	TotalCheckpoints int          `json:"total_checkpoints"`
	Checkpoints      []Checkpoint `json:"checkpoints"`
	Participants     int          `json:"participants"`
}

// OverviewFromModel converts a model.Overview
func OverviewFromModel(o *model.Overview) Overview {
	checkpoints := make([]Checkpoint, len(o.Checkpoints))
	for i, c := range o.Checkpoints {
		checkpoints[i] = CheckpointFromModel(c)
	}
	return Overview{
		TotalCheckpoints: o.TotalCheckpoints,
		Checkpoints:      checkpoints,
		Participants:     o.Participants,
	}
}

// Standing is one leaderboard row
type Standing struct {
	Rank          int       `json:"rank"`
	ParticipantID string    `json:"participant_id"`
	ClearedCount  int       `json:"cleared_count"`
	Complete      bool      `json:"complete"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// StandingFromModel converts a model.Standing
func StandingFromModel(s model.Standing) Standing {
	return Standing{
		Rank:          s.Rank,
		ParticipantID: string(s.ParticipantID),
		ClearedCount:  s.ClearedCount,
		Complete:      s.Complete,
		UpdatedAt:     s.UpdatedAt,
	}
}

// Leaderboard is the response for leaderboard queries
type Leaderboard struct {
	Standings []Standing `json:"standings"`
}

// LeaderboardFromModel converts a slice of model standings
func LeaderboardFromModel(standings []model.Standing) Leaderboard {
	out := make([]Standing, len(standings))
	for i, s := range standings {
		out[i] = StandingFromModel(s)
	}
	return Leaderboard{Standings: out}
}

// ProgressList is the response for the admin progress listing
type ProgressList struct {
	Participants []Progress `json:"participants"`
}

// ProgressListFromModel converts a slice of model progress records
func ProgressListFromModel(records []*model.Progress) ProgressList {
	out := make([]Progress, len(records))
	for i, p := range records {
		out[i] = ProgressFromModel(p)
	}
	return ProgressList{Participants: out}
}

// Health is the response for health checks
type Health struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}
