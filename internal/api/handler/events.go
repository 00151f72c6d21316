package handler

import (
	"net/http"

	"github.com/huntworks/trailhunt/internal/api/middleware"
	"github.com/huntworks/trailhunt/internal/api/sse"
)

// EventsHandler handles the live feed endpoint
type EventsHandler struct {
	hub *sse.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(hub *sse.Hub) *EventsHandler {
	return &EventsHandler{
		hub: hub,
	}
}

// Stream handles GET /api/v1/events.
// Anonymous clients are welcome; a resolved credential only labels the
// connection in logs
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	participantID := middleware.GetParticipant(r.Context())
	sse.ServeSSE(w, r, h.hub, participantID)
}
