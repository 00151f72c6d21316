package factory

import (
	"time"

	"github.com/huntworks/trailhunt/internal/dependencies/mocks"
	"github.com/huntworks/trailhunt/internal/identity"
	"github.com/huntworks/trailhunt/internal/model"
	"github.com/huntworks/trailhunt/internal/secrets"
	"github.com/huntworks/trailhunt/internal/storage/memory"
	"github.com/huntworks/trailhunt/internal/testutil"
)

// Tokens accepted by the test app's static resolver
const (
	TestTokenAlice = "tok-alice"
	TestTokenBob   = "tok-bob"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// TestCheckpoints returns the canned manifest wired into NewTestApp
func TestCheckpoints() []model.Checkpoint {
	return []model.Checkpoint{
		{ID: 1, Name: "Cafeteria", Passphrase: "cafeteria"},
		{ID: 2, Name: "Gym", Passphrase: "gym"},
		{ID: 3, Name: "Library", Passphrase: "library"},
	}
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	secretService, err := secrets.New(TestCheckpoints())
	if err != nil {
		panic(err)
	}

	resolver := identity.NewStaticResolver(map[identity.Credential]model.ParticipantID{
		TestTokenAlice: "alice",
		TestTokenBob:   "bob",
	})

	app := newWithDependencies(store, mockClock, mockRandom, secretService, resolver, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}
