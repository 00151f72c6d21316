package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case ClaimResult:
		o.printClaimResult(v)
	case ProgressReport:
		o.printProgressReport(v)
	case Overview:
		o.printOverview(v)
	case Leaderboard:
		o.printLeaderboard(v)
	case ProgressList:
		o.printProgressList(v)
	case MintedToken:
		o.printMintedToken(v)
	case KeyPair:
		o.printKeyPair(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// ClaimResult response type (matches API)
type ClaimResult struct {
	ParticipantID    string    `json:"participant_id"`
	CheckpointID     int       `json:"checkpoint_id"`
	ClearedCount     int       `json:"cleared_count"`
	TotalCheckpoints int       `json:"total_checkpoints"`
	Complete         bool      `json:"complete"`
	ClaimedAt        time.Time `json:"claimed_at"`
}

// Progress response type
type Progress struct {
	ParticipantID string    `json:"participant_id"`
	ClearedCount  int       `json:"cleared_count"`
	Cleared       []int     `json:"cleared"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProgressReport response type
type ProgressReport struct {
	Progress         Progress `json:"progress"`
	TotalCheckpoints int      `json:"total_checkpoints"`
	Complete         bool     `json:"complete"`
}

// Checkpoint response type
type Checkpoint struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Overview response type
type Overview struct {
	TotalCheckpoints int          `json:"total_checkpoints"`
	Checkpoints      []Checkpoint `json:"checkpoints"`
	Participants     int          `json:"participants"`
}

// Standing response type
type Standing struct {
	Rank          int       `json:"rank"`
	ParticipantID string    `json:"participant_id"`
	ClearedCount  int       `json:"cleared_count"`
	Complete      bool      `json:"complete"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Leaderboard response type
type Leaderboard struct {
	Standings []Standing `json:"standings"`
}

// ProgressList response type
type ProgressList struct {
	Participants []Progress `json:"participants"`
}

// MintedToken is a locally minted JWT, not an API response
type MintedToken struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expires_at"`
}

// KeyPair is a locally generated signing keypair, not an API response
type KeyPair struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// HealthResult response type
type HealthResult struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

func (o *Output) printClaimResult(r ClaimResult) {
	fmt.Printf("Checkpoint %d cleared!\n", r.CheckpointID)
	fmt.Printf("Progress: %d/%d\n", r.ClearedCount, r.TotalCheckpoints)
	if r.Complete {
		fmt.Println("Hunt complete! All checkpoints cleared.")
	}
}

func (o *Output) printProgress(p Progress) {
	cleared := make([]string, len(p.Cleared))
	for i, id := range p.Cleared {
		cleared[i] = fmt.Sprintf("%d", id)
	}

	fmt.Printf("Participant: %s\n", p.ParticipantID)
	fmt.Printf("Cleared: %d", p.ClearedCount)
	if len(cleared) > 0 {
		fmt.Printf(" (%s)", strings.Join(cleared, ", "))
	}
	fmt.Println()
	if !p.UpdatedAt.IsZero() {
		fmt.Printf("Last claim: %s\n", p.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	}
}

func (o *Output) printProgressReport(r ProgressReport) {
	o.printProgress(r.Progress)
	fmt.Printf("Total Checkpoints: %d\n", r.TotalCheckpoints)
	if r.Complete {
		fmt.Println("Hunt complete!")
	}
}

func (o *Output) printOverview(v Overview) {
	fmt.Printf("Checkpoints (%d):\n", v.TotalCheckpoints)
	for _, c := range v.Checkpoints {
		fmt.Printf("  %d. %s\n", c.ID, c.Name)
	}
	fmt.Printf("Participants: %d\n", v.Participants)
}

func (o *Output) printLeaderboard(l Leaderboard) {
	if len(l.Standings) == 0 {
		fmt.Println("No claims yet")
		return
	}

	for _, s := range l.Standings {
		marker := ""
		if s.Complete {
			marker = " [complete]"
		}
		fmt.Printf("%3d. %s - %d cleared%s\n", s.Rank, s.ParticipantID, s.ClearedCount, marker)
	}
}

func (o *Output) printProgressList(l ProgressList) {
	fmt.Printf("Participants (%d):\n", len(l.Participants))
	for _, p := range l.Participants {
		fmt.Printf("  - %s: %d cleared\n", p.ParticipantID, p.ClearedCount)
	}
}

func (o *Output) printMintedToken(m MintedToken) {
	fmt.Printf("Subject: %s\n", m.Subject)
	fmt.Printf("Expires: %s\n", m.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Token: %s\n", m.Token)
}

func (o *Output) printKeyPair(k KeyPair) {
	fmt.Printf("Public Key: %s\n", k.PublicKey)
	fmt.Printf("Private Key: %s\n", k.PrivateKey)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Storage: %s\n", h.Storage)
}
