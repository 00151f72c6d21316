package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/huntworks/trailhunt/internal/api/response"
	"github.com/huntworks/trailhunt/internal/api/sse"
	"github.com/huntworks/trailhunt/internal/model"
	"github.com/huntworks/trailhunt/internal/services/hunt"
)

// AdminHandler handles the operator endpoints
type AdminHandler struct {
	huntService hunt.ServiceInterface
	broadcaster *sse.Broadcaster
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(huntService hunt.ServiceInterface, broadcaster *sse.Broadcaster) *AdminHandler {
	return &AdminHandler{
		huntService: huntService,
		broadcaster: broadcaster,
	}
}

// ListProgress handles GET /api/v1/admin/progress
func (h *AdminHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	records, err := h.huntService.AllProgress(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProgressListFromModel(records))
}

// ResetProgress handles DELETE /api/v1/admin/progress/{participant_id}
func (h *AdminHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	participantID := model.ParticipantID(mux.Vars(r)["participant_id"])

	previous, err := h.huntService.ResetProgress(r.Context(), participantID)
	if err != nil {
		WriteError(w, err)
		return
	}

	// Broadcast to SSE clients
	if h.broadcaster != nil {
		h.broadcaster.BroadcastProgressReset(participantID, previous)
	}

	response.NoContent(w)
}
