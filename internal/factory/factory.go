package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/huntworks/trailhunt/internal/api/sse"
	"github.com/huntworks/trailhunt/internal/dependencies/clock"
	"github.com/huntworks/trailhunt/internal/dependencies/random"
	"github.com/huntworks/trailhunt/internal/identity"
	"github.com/huntworks/trailhunt/internal/model"
	"github.com/huntworks/trailhunt/internal/secrets"
	"github.com/huntworks/trailhunt/internal/services/claim"
	"github.com/huntworks/trailhunt/internal/services/hunt"
	"github.com/huntworks/trailhunt/internal/storage"
	"github.com/huntworks/trailhunt/internal/storage/memory"
	redisstorage "github.com/huntworks/trailhunt/internal/storage/redis"
	sqlitestorage "github.com/huntworks/trailhunt/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSqlite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	SecretService   *secrets.Service
	Resolver        identity.Resolver
	ClaimController *claim.Controller
	HuntService     *hunt.Service
	Hub             *sse.Hub
	Broadcaster     *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SqlitePath is the database file (required if StorageType is "sqlite")
	SqlitePath string
	// ManifestPath is the checkpoint manifest file to load
	ManifestPath string
	// Checkpoints provides the manifest directly, taking precedence over ManifestPath
	Checkpoints []model.Checkpoint
	// JWT enables the JWT resolver when non-nil
	JWT *identity.JWTConfig
	// DevTokens enables the static resolver when non-empty
	DevTokens map[identity.Credential]model.ParticipantID
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig, rnd)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypeSqlite:
		if cfg.SqlitePath == "" {
			return nil, errors.New("SqlitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlitestorage.New(cfg.SqlitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	// Load the checkpoint manifest
	var secretService *secrets.Service
	var err error
	switch {
	case len(cfg.Checkpoints) > 0:
		secretService, err = secrets.New(cfg.Checkpoints)
	case cfg.ManifestPath != "":
		secretService, err = secrets.LoadFile(cfg.ManifestPath)
	default:
		err = errors.New("checkpoint manifest required: set ManifestPath or Checkpoints")
	}
	if err != nil {
		return nil, fmt.Errorf("load checkpoints: %w", err)
	}

	// Select the identity resolver
	resolver, err := newResolver(cfg, clk)
	if err != nil {
		return nil, err
	}

	return newWithDependencies(store, clk, rnd, secretService, resolver, logger), nil
}

// newResolver builds the identity resolver from the configured sources.
// When both static tokens and JWT are configured, static tokens win ties
func newResolver(cfg Config, clk clock.Clock) (identity.Resolver, error) {
	var resolvers []identity.Resolver

	if len(cfg.DevTokens) > 0 {
		resolvers = append(resolvers, identity.NewStaticResolver(cfg.DevTokens))
	}
	if cfg.JWT != nil {
		jwtResolver, err := identity.NewJWTResolver(*cfg.JWT, clk)
		if err != nil {
			return nil, err
		}
		resolvers = append(resolvers, jwtResolver)
	}

	switch len(resolvers) {
	case 0:
		return nil, errors.New("identity resolver required: set DevTokens or JWT")
	case 1:
		return resolvers[0], nil
	default:
		return identity.Chain(resolvers), nil
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	secretService *secrets.Service,
	resolver identity.Resolver,
	logger *slog.Logger,
) *App {
	// Create services
	claimController := claim.NewController(resolver, secretService, store, clk, logger)
	huntService := hunt.New(secretService, store, logger)

	// Create the live feed
	hub := sse.NewHub(logger)
	go hub.Run()
	broadcaster := sse.NewBroadcaster(hub, clk, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		SecretService:   secretService,
		Resolver:        resolver,
		ClaimController: claimController,
		HuntService:     huntService,
		Hub:             hub,
		Broadcaster:     broadcaster,
	}
}

// Close stops the live feed and releases the storage backend
func (a *App) Close() error {
	a.Hub.Close()
	return a.Storage.Close()
}
