package handler

import (
	"net/http"
	"strconv"

	"github.com/huntworks/trailhunt/internal/api/response"
	"github.com/huntworks/trailhunt/internal/services/hunt"
)

// HuntHandler handles the public hunt endpoints
type HuntHandler struct {
	huntService hunt.ServiceInterface
}

// NewHuntHandler creates a new hunt handler
func NewHuntHandler(huntService hunt.ServiceInterface) *HuntHandler {
	return &HuntHandler{
		huntService: huntService,
	}
}

// Overview handles GET /api/v1/hunt
func (h *HuntHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.huntService.Overview(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.OverviewFromModel(overview))
}

// Leaderboard handles GET /api/v1/leaderboard
func (h *HuntHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			WriteError(w, NewInvalidRequestError("limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	standings, err := h.huntService.Leaderboard(r.Context(), limit)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromModel(standings))
}
