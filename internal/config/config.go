package config

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Storage backend names accepted in TRAILHUNT_STORAGE
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSqlite = "sqlite"
)

// Config holds server configuration, read from TRAILHUNT_* environment variables
type Config struct {
	Host      string `env:"TRAILHUNT_HOST"`
	Port      int    `env:"TRAILHUNT_PORT" envDefault:"8080"`
	LogLevel  string `env:"TRAILHUNT_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"TRAILHUNT_LOG_FORMAT" envDefault:"json"`

	Storage    string `env:"TRAILHUNT_STORAGE" envDefault:"memory"`
	RedisURL   string `env:"TRAILHUNT_REDIS_URL" envDefault:"redis://localhost:6379"`
	SqlitePath string `env:"TRAILHUNT_SQLITE_PATH" envDefault:"trailhunt.db"`

	// Checkpoints is the path to the secret manifest
	Checkpoints string `env:"TRAILHUNT_CHECKPOINTS" envDefault:"checkpoints.yaml"`

	// At most one JWT key source may be set; DevTokens may coexist with either
	JWTSecret    string `env:"TRAILHUNT_JWT_SECRET"`
	JWTPublicKey string `env:"TRAILHUNT_JWT_PUBLIC_KEY"`
	JWTIssuer    string `env:"TRAILHUNT_JWT_ISSUER"`
	JWTAudience  string `env:"TRAILHUNT_JWT_AUDIENCE"`

	// AdminToken is either the raw operator token or a bcrypt hash of it.
	// Empty disables the admin endpoints
	AdminToken string `env:"TRAILHUNT_ADMIN_TOKEN"`

	// DevTokens maps static bearer tokens to participant ids for local runs
	DevTokens map[string]string `env:"TRAILHUNT_DEV_TOKENS" envKeyValSeparator:"="`
}

// Load reads and validates configuration from the environment
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageRedis, StorageSqlite:
	default:
		return fmt.Errorf("invalid TRAILHUNT_STORAGE %q: must be memory, redis or sqlite", c.Storage)
	}

	if c.Storage == StorageRedis && c.RedisURL == "" {
		return errors.New("TRAILHUNT_REDIS_URL required when TRAILHUNT_STORAGE=redis")
	}
	if c.Storage == StorageSqlite && c.SqlitePath == "" {
		return errors.New("TRAILHUNT_SQLITE_PATH required when TRAILHUNT_STORAGE=sqlite")
	}

	if c.JWTSecret != "" && c.JWTPublicKey != "" {
		return errors.New("TRAILHUNT_JWT_SECRET and TRAILHUNT_JWT_PUBLIC_KEY are mutually exclusive")
	}
	if len(c.DevTokens) == 0 && c.JWTSecret == "" && c.JWTPublicKey == "" {
		return errors.New("no identity source configured: set TRAILHUNT_JWT_SECRET, TRAILHUNT_JWT_PUBLIC_KEY or TRAILHUNT_DEV_TOKENS")
	}

	if c.JWTPublicKey != "" {
		if _, err := c.PublicKey(); err != nil {
			return err
		}
	}

	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return fmt.Errorf("invalid TRAILHUNT_LOG_FORMAT %q: must be json or text", c.LogFormat)
	}

	return nil
}

// PublicKey decodes the configured base64 ed25519 verification key
func (c *Config) PublicKey() (ed25519.PublicKey, error) {
	if c.JWTPublicKey == "" {
		return nil, nil
	}

	raw, err := base64.StdEncoding.DecodeString(c.JWTPublicKey)
	if err != nil {
		return nil, fmt.Errorf("decode TRAILHUNT_JWT_PUBLIC_KEY: %w", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("TRAILHUNT_JWT_PUBLIC_KEY is %d bytes, want %d", len(raw), ed25519.PublicKeySize)
	}

	return ed25519.PublicKey(raw), nil
}

// SlogLevel maps the configured log level name to a slog.Level
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid TRAILHUNT_LOG_LEVEL %q: must be debug, info, warn or error", c.LogLevel)
	}
}

// NewLogger builds the application logger from the configured level and format
func (c *Config) NewLogger() *slog.Logger {
	level, err := c.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
