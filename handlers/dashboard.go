package handlers

import (
	"net/http"

	"github.com/Dosada05/hackathon-portal/services"
)

// DashboardHandler обслуживает вкладки админ-панели.
type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(s services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: s}
}

func (h *DashboardHandler) UserCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.dashboardService.UserCounts(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, counts, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DashboardHandler) EventCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.dashboardService.EventCounts(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, counts, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DashboardHandler) Hackathons(w http.ResponseWriter, r *http.Request) {
	hackathons, err := h.dashboardService.Hackathons(r.Context())
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"hackathons": hackathons}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
