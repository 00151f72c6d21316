package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/huntworks/trailhunt/internal/api/handler"
	"github.com/huntworks/trailhunt/internal/api/middleware"
	"github.com/huntworks/trailhunt/internal/api/response"
	"github.com/huntworks/trailhunt/internal/api/sse"
	"github.com/huntworks/trailhunt/internal/identity"
	"github.com/huntworks/trailhunt/internal/services/claim"
	"github.com/huntworks/trailhunt/internal/services/hunt"
	"github.com/huntworks/trailhunt/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger          *slog.Logger
	Resolver        identity.Resolver
	ClaimController claim.ControllerInterface
	HuntService     hunt.ServiceInterface
	Storage         storage.Storage
	Hub             *sse.Hub
	Broadcaster     *sse.Broadcaster
	AdminToken      string
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	claimHandler := handler.NewClaimHandler(cfg.ClaimController, cfg.Broadcaster)
	huntHandler := handler.NewHuntHandler(cfg.HuntService)
	adminHandler := handler.NewAdminHandler(cfg.HuntService, cfg.Broadcaster)
	eventsHandler := handler.NewEventsHandler(cfg.Hub)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.Resolver)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.Resolver)
	adminMiddleware := middleware.Admin(cfg.AdminToken)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public routes
	api.HandleFunc("/hunt", huntHandler.Overview).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", huntHandler.Leaderboard).Methods(http.MethodGet)

	// Claims carry their credential to the engine, so no auth middleware here
	api.HandleFunc("/claims", claimHandler.Submit).Methods(http.MethodPost)

	// Protected progress routes
	progress := api.PathPrefix("/progress").Subrouter()
	progress.Use(authMiddleware)
	progress.HandleFunc("/me", claimHandler.Me).Methods(http.MethodGet)

	// Live feed (auth optional)
	events := api.PathPrefix("/events").Subrouter()
	events.Use(optionalAuthMiddleware)
	events.HandleFunc("", eventsHandler.Stream).Methods(http.MethodGet)

	// Operator routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(adminMiddleware)
	admin.HandleFunc("/progress", adminHandler.ListProgress).Methods(http.MethodGet)
	admin.HandleFunc("/progress/{participant_id}", adminHandler.ResetProgress).Methods(http.MethodDelete)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler(cfg.Storage)).Methods(http.MethodGet)

	return r
}

// healthHandler reports liveness and whether the progress store answers pings
func healthHandler(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := response.Health{Status: "ok", Storage: "ok"}
		status := http.StatusOK
		if err := store.Ping(r.Context()); err != nil {
			health.Status = "degraded"
			health.Storage = "unavailable"
			status = http.StatusServiceUnavailable
		}
		response.JSON(w, status, health)
	}
}
