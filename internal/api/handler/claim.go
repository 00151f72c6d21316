package handler

import (
	"encoding/json"
	"net/http"

	"github.com/huntworks/trailhunt/internal/api/middleware"
	"github.com/huntworks/trailhunt/internal/api/request"
	"github.com/huntworks/trailhunt/internal/api/response"
	"github.com/huntworks/trailhunt/internal/api/sse"
	"github.com/huntworks/trailhunt/internal/identity"
	"github.com/huntworks/trailhunt/internal/model"
	"github.com/huntworks/trailhunt/internal/services/claim"
)

// ClaimHandler handles claim and progress endpoints
type ClaimHandler struct {
	engine      claim.ControllerInterface
	broadcaster *sse.Broadcaster
}

// NewClaimHandler creates a new claim handler
func NewClaimHandler(engine claim.ControllerInterface, broadcaster *sse.Broadcaster) *ClaimHandler {
	return &ClaimHandler{
		engine:      engine,
		broadcaster: broadcaster,
	}
}

// Submit handles POST /api/v1/claims.
// The route carries no auth middleware; the engine resolves the credential
// itself so authentication failures always win over checkpoint validation
func (h *ClaimHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req request.ClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	cred := identity.Credential(middleware.ExtractToken(r))
	result, err := h.engine.Claim(r.Context(), cred, model.CheckpointID(req.CheckpointID), req.Passphrase)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Broadcast to SSE clients
	if h.broadcaster != nil {
		h.broadcaster.BroadcastCheckpointCleared(result)
		if result.Complete {
			h.broadcaster.BroadcastHuntCompleted(result)
		}
	}

	response.JSON(w, http.StatusOK, response.ClaimResultFromModel(result))
}

// Me handles GET /api/v1/progress/me
func (h *ClaimHandler) Me(w http.ResponseWriter, r *http.Request) {
	participantID := middleware.MustGetParticipant(r.Context())

	report, err := h.engine.ProgressFor(r.Context(), participantID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProgressReportFromModel(report))
}
