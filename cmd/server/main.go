package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/huntworks/trailhunt/internal/api"
	"github.com/huntworks/trailhunt/internal/config"
	"github.com/huntworks/trailhunt/internal/factory"
	"github.com/huntworks/trailhunt/internal/identity"
	"github.com/huntworks/trailhunt/internal/model"
	redisstorage "github.com/huntworks/trailhunt/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		Logger:       logger,
		StorageType:  cfg.Storage,
		SqlitePath:   cfg.SqlitePath,
		ManifestPath: cfg.Checkpoints,
	}

	if cfg.Storage == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	if cfg.JWTSecret != "" || cfg.JWTPublicKey != "" {
		jwtCfg := &identity.JWTConfig{
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		}
		if cfg.JWTSecret != "" {
			jwtCfg.Secret = []byte(cfg.JWTSecret)
		}
		if cfg.JWTPublicKey != "" {
			pub, err := cfg.PublicKey()
			if err != nil {
				logger.Error("invalid JWT public key", slog.String("error", err.Error()))
				os.Exit(1)
			}
			jwtCfg.PublicKey = pub
		}
		factoryCfg.JWT = jwtCfg
	}

	if len(cfg.DevTokens) > 0 {
		devTokens := make(map[identity.Credential]model.ParticipantID, len(cfg.DevTokens))
		for token, id := range cfg.DevTokens {
			devTokens[identity.Credential(token)] = model.ParticipantID(id)
		}
		factoryCfg.DevTokens = devTokens
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		Resolver:        app.Resolver,
		ClaimController: app.ClaimController,
		HuntService:     app.HuntService,
		Storage:         app.Storage,
		Hub:             app.Hub,
		Broadcaster:     app.Broadcaster,
		AdminToken:      cfg.AdminToken,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.Storage),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if err := app.Close(); err != nil {
		logger.Error("cleanup error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
