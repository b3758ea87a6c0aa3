package handlers

import (
	"net/http"

	"github.com/Aidyn07/esports-arena/middleware"
	"github.com/Aidyn07/esports-arena/models"
	"github.com/Aidyn07/esports-arena/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(s services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: s}
}

// Stats отдаёт сводку по собственным турнирам запрашивающего организатора.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	organizerID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	stats, err := h.dashboardService.GetOrganizerStats(r.Context(), organizerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats, nil)
}

func (h *DashboardHandler) TournamentHealth(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	health, err := h.dashboardService.GetTournamentHealth(r.Context(), tournamentID, actorID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, health, nil)
}

func (h *DashboardHandler) ParticipantBreakdown(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := urlParamInt(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	filter := services.ParticipantBreakdownFilter{OrderDesc: r.URL.Query().Get("order") == "desc"}

	if raw := r.URL.Query().Get("payment_status"); raw != "" {
		status := models.PaymentStatus(raw)
		filter.PaymentStatus = &status
	}
	if raw := r.URL.Query().Get("checked_in"); raw != "" {
		checkedIn := raw == "true"
		filter.CheckedIn = &checkedIn
	}

	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	filter.Limit = limit
	filter.Offset = offset

	breakdown, err := h.dashboardService.GetParticipantBreakdown(r.Context(), tournamentID, actorID, filter)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown, nil)
}
