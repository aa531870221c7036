package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/hackathon-portal/models"
	"github.com/Dosada05/hackathon-portal/services"
)

type ProposalHandler struct {
	proposalService services.ProposalService
}

func NewProposalHandler(ps services.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalService: ps}
}

// List godoc
// @Summary Заявки на хакатоны организатора
// @Tags proposals
// @Produce json
// @Param organizerId query string true "Organizer ID"
// @Success 200 {array} models.ProposalView
// @Security BearerAuth
// @Router /proposals [get]
func (h *ProposalHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	proposals, err := h.proposalService.ListByOrganizer(r.Context(), actor, r.URL.Query().Get("organizerId"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, proposals, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Approve godoc
// @Summary Одобрить заявку
// @Tags proposals
// @Produce json
// @Param proposalID path string true "Registration ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /proposals/{proposalID}/approve [put]
func (h *ProposalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.proposalService.Approve, "Proposal approved")
}

// Reject godoc
// @Summary Отклонить заявку
// @Tags proposals
// @Produce json
// @Param proposalID path string true "Registration ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /proposals/{proposalID}/reject [put]
func (h *ProposalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.proposalService.Reject, "Proposal rejected")
}

type decideFunc func(ctx context.Context, actor services.Actor, registrationID string) (*models.ProposalView, error)

func (h *ProposalHandler) decide(w http.ResponseWriter, r *http.Request, decide decideFunc, message string) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	id, err := getIDFromURL(r, "proposalID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	proposal, err := decide(r.Context(), actor, id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": message, "proposal": proposal}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
