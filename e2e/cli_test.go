package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huntworks/trailhunt/internal/api"
	"github.com/huntworks/trailhunt/internal/factory"
	"github.com/huntworks/trailhunt/internal/identity"
	"github.com/huntworks/trailhunt/internal/model"
)

const (
	adminToken = "e2e-admin"
	jwtSecret  = "e2e-signing-secret"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	tokenFile  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "trailhunt-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/trailhunt")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// Create temp token file
	tokenFile := filepath.Join(t.TempDir(), "token")

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		tokenFile:  tokenFile,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token-file", r.tokenFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) runWithToken(token string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--token", token,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// Create application with dev tokens and a JWT secret so both
	// credential styles work
	app, err := factory.New(factory.Config{
		Logger:      logger,
		Checkpoints: factory.TestCheckpoints(),
		DevTokens: map[identity.Credential]model.ParticipantID{
			factory.TestTokenAlice: "alice",
			factory.TestTokenBob:   "bob",
		},
		JWT: &identity.JWTConfig{Secret: []byte(jwtSecret)},
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		Resolver:        app.Resolver,
		ClaimController: app.ClaimController,
		HuntService:     app.HuntService,
		Storage:         app.Storage,
		Hub:             app.Hub,
		Broadcaster:     app.Broadcaster,
		AdminToken:      adminToken,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
			_ = app.Close()
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type claimResponse struct {
	ParticipantID    string `json:"participant_id"`
	CheckpointID     int    `json:"checkpoint_id"`
	ClearedCount     int    `json:"cleared_count"`
	TotalCheckpoints int    `json:"total_checkpoints"`
	Complete         bool   `json:"complete"`
}

type progressResponse struct {
	Progress struct {
		ParticipantID string `json:"participant_id"`
		ClearedCount  int    `json:"cleared_count"`
		Cleared       []int  `json:"cleared"`
	} `json:"progress"`
	TotalCheckpoints int  `json:"total_checkpoints"`
	Complete         bool `json:"complete"`
}

type overviewResponse struct {
	TotalCheckpoints int `json:"total_checkpoints"`
	Checkpoints      []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"checkpoints"`
	Participants int `json:"participants"`
}

type leaderboardResponse struct {
	Standings []struct {
		Rank          int    `json:"rank"`
		ParticipantID string `json:"participant_id"`
		ClearedCount  int    `json:"cleared_count"`
		Complete      bool   `json:"complete"`
	} `json:"standings"`
}

type progressListResponse struct {
	Participants []struct {
		ParticipantID string `json:"participant_id"`
		ClearedCount  int    `json:"cleared_count"`
	} `json:"participants"`
}

type mintedTokenResponse struct {
	Token   string `json:"token"`
	Subject string `json:"subject"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "ok", resp.Storage)
}

func TestCLI_HuntOverview(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("hunt")
	require.NoError(t, err, "output: %s", output)

	var resp overviewResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, 3, resp.TotalCheckpoints)
	require.Len(t, resp.Checkpoints, 3)
	assert.Equal(t, "Cafeteria", resp.Checkpoints[0].Name)
}

func TestCLI_ClaimAndProgress(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Claim a checkpoint
	output, err := cli.runWithToken(factory.TestTokenAlice, "claim", "2", "gym")
	require.NoError(t, err, "output: %s", output)

	var claim claimResponse
	require.NoError(t, json.Unmarshal([]byte(output), &claim))
	assert.Equal(t, "alice", claim.ParticipantID)
	assert.Equal(t, 1, claim.ClearedCount)
	assert.False(t, claim.Complete)

	// Check progress
	output, err = cli.runWithToken(factory.TestTokenAlice, "progress")
	require.NoError(t, err, "output: %s", output)

	var progress progressResponse
	require.NoError(t, json.Unmarshal([]byte(output), &progress))
	assert.Equal(t, 1, progress.Progress.ClearedCount)
	assert.Equal(t, []int{2}, progress.Progress.Cleared)

	// Wrong passphrase
	output, err = cli.runWithToken(factory.TestTokenAlice, "claim", "1", "wrong")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "passphrase")

	// Duplicate claim
	output, err = cli.runWithToken(factory.TestTokenAlice, "claim", "2", "gym")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "already")

	// Finish the hunt
	_, err = cli.runWithToken(factory.TestTokenAlice, "claim", "1", "cafeteria")
	require.NoError(t, err)
	output, err = cli.runWithToken(factory.TestTokenAlice, "claim", "3", "library")
	require.NoError(t, err, "output: %s", output)

	require.NoError(t, json.Unmarshal([]byte(output), &claim))
	assert.True(t, claim.Complete)
}

func TestCLI_Leaderboard(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	_, err := cli.runWithToken(factory.TestTokenAlice, "claim", "1", "cafeteria")
	require.NoError(t, err)
	_, err = cli.runWithToken(factory.TestTokenAlice, "claim", "2", "gym")
	require.NoError(t, err)
	_, err = cli.runWithToken(factory.TestTokenBob, "claim", "3", "library")
	require.NoError(t, err)

	output, err := cli.run("leaderboard")
	require.NoError(t, err, "output: %s", output)

	var board leaderboardResponse
	require.NoError(t, json.Unmarshal([]byte(output), &board))
	require.Len(t, board.Standings, 2)
	assert.Equal(t, "alice", board.Standings[0].ParticipantID)
	assert.Equal(t, 2, board.Standings[0].ClearedCount)
	assert.Equal(t, "bob", board.Standings[1].ParticipantID)

	// Limit to the top row
	output, err = cli.run("leaderboard", "--limit", "1")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &board))
	assert.Len(t, board.Standings, 1)
}

func TestCLI_AdminCommands(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	_, err := cli.runWithToken(factory.TestTokenAlice, "claim", "1", "cafeteria")
	require.NoError(t, err)

	// List progress
	output, err := cli.run("admin", "list", "--admin-token", adminToken)
	require.NoError(t, err, "output: %s", output)

	var list progressListResponse
	require.NoError(t, json.Unmarshal([]byte(output), &list))
	require.Len(t, list.Participants, 1)
	assert.Equal(t, "alice", list.Participants[0].ParticipantID)

	// Reset alice
	output, err = cli.run("admin", "reset", "alice", "--admin-token", adminToken)
	require.NoError(t, err, "output: %s", output)

	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.Contains(t, msg.Message, "alice")

	// Alice's progress is gone
	output, err = cli.runWithToken(factory.TestTokenAlice, "progress")
	require.NoError(t, err, "output: %s", output)

	var progress progressResponse
	require.NoError(t, json.Unmarshal([]byte(output), &progress))
	assert.Equal(t, 0, progress.Progress.ClearedCount)

	// Wrong admin token is rejected
	output, err = cli.run("admin", "list", "--admin-token", "nope")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "authentication")
}

func TestCLI_MintedTokenFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Mint a JWT for carol and save it to the token file
	output, err := cli.run("token", "new", "--subject", "carol", "--secret", jwtSecret, "--save")
	require.NoError(t, err, "output: %s", output)

	var minted mintedTokenResponse
	require.NoError(t, json.Unmarshal([]byte(output), &minted))
	assert.Equal(t, "carol", minted.Subject)
	assert.NotEmpty(t, minted.Token)

	// The saved token authenticates claims
	output, err = cli.run("claim", "3", "library")
	require.NoError(t, err, "output: %s", output)

	var claim claimResponse
	require.NoError(t, json.Unmarshal([]byte(output), &claim))
	assert.Equal(t, "carol", claim.ParticipantID)
}

func TestCLI_TokenHash(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	output, err := cli.run("token", "hash", "some-admin-token")
	require.NoError(t, err, "output: %s", output)

	var msg messageResponse
	require.NoError(t, json.Unmarshal([]byte(output), &msg))
	assert.True(t, strings.HasPrefix(msg.Message, "$2"), "expected bcrypt hash, got %q", msg.Message)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr)

	// Progress without a token
	output, err := cli.run("progress")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "authentication")

	// Unknown checkpoint
	output, err = cli.runWithToken(factory.TestTokenAlice, "claim", "9", "anything")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Checkpoint id must be a number
	output, err = cli.runWithToken(factory.TestTokenAlice, "claim", "banana", "anything")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "invalid checkpoint id")
}
