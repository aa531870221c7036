package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Dosada05/hackathon-portal/services"
)

type HackathonHandler struct {
	hackathonService services.HackathonService
	reportService    services.ReportService
}

func NewHackathonHandler(hs services.HackathonService, rs services.ReportService) *HackathonHandler {
	return &HackathonHandler{
		hackathonService: hs,
		reportService:    rs,
	}
}

// List godoc
// @Summary Список хакатонов
// @Tags hackathons
// @Produce json
// @Param q query string false "Поиск по названию и месту проведения"
// @Success 200 {array} models.Hackathon
// @Router /hackathons [get]
func (h *HackathonHandler) List(w http.ResponseWriter, r *http.Request) {
	hackathons, err := h.hackathonService.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, hackathons, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Get godoc
// @Summary Хакатон по ID
// @Tags hackathons
// @Produce json
// @Param hackathonID path string true "Hackathon ID"
// @Success 200 {object} models.Hackathon
// @Failure 404 {object} map[string]string
// @Router /hackathons/{hackathonID} [get]
func (h *HackathonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "hackathonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	hackathon, err := h.hackathonService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, hackathon, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Add godoc
// @Summary Создать хакатон
// @Tags hackathons
// @Accept json
// @Produce json
// @Param body body services.CreateHackathonInput true "Форма хакатона"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Security BearerAuth
// @Router /hackathons/add [post]
func (h *HackathonHandler) Add(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.CreateHackathonInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	hackathon, err := h.hackathonService.Create(r.Context(), actor.ID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"message": "Hackathon added successfully!", "hackathon": hackathon}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateReport godoc
// @Summary PDF-отчёт по хакатону
// @Tags hackathons
// @Produce application/pdf
// @Param hackathonID path string true "Hackathon ID"
// @Success 200 {file} binary
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /hackathons/generate-report/{hackathonID} [get]
func (h *HackathonHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id, err := getIDFromURL(r, "hackathonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.reportService.HackathonReport(r.Context(), actor, id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Content)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(report.Filename)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(report.Content)
}
