package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/Dosada05/hackathon-portal/models"
	"github.com/Dosada05/hackathon-portal/services"
	"github.com/gabriel-vasile/mimetype"
)

// Лимит на весь multipart-запрос: файл плюс текстовые поля формы.
const maxRegistrationBody = services.MaxProposalSize + 1<<20

type RegistrationHandler struct {
	registrationService services.RegistrationService
	hackathonService    services.HackathonService
}

func NewRegistrationHandler(rs services.RegistrationService, hs services.HackathonService) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: rs,
		hackathonService:    hs,
	}
}

// Register godoc
// @Summary Регистрация студента на хакатон
// @Tags registrations
// @Description Принимает JSON (соло) или multipart/form-data (команда, поле members: JSON-строка, file: PDF до 5 МБ).
// @Accept json,mpfd
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string "Регистрация закрыта"
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Уже зарегистрирован"
// @Security BearerAuth
// @Router /registeredhackathon/register [post]
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var (
		input    services.RegistrationInput
		proposal *services.ProposalUpload
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		input, proposal, err = readRegistrationForm(w, r)
	} else {
		err = readJSON(w, r, &input)
	}
	if err != nil {
		if errors.Is(err, services.ErrInvalidProposalFile) {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		badRequestResponse(w, r, err)
		return
	}

	reg, err := h.registrationService.Register(r.Context(), actor, input, proposal)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"message": "Registration successful", "registration": reg}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func readRegistrationForm(w http.ResponseWriter, r *http.Request) (services.RegistrationInput, *services.ProposalUpload, error) {
	var input services.RegistrationInput

	r.Body = http.MaxBytesReader(w, r.Body, maxRegistrationBody)
	if err := r.ParseMultipartForm(maxRegistrationBody); err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return input, nil, services.ErrInvalidProposalFile
		}
		return input, nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	input.HackathonID = r.FormValue("hackathonId")
	input.StudentID = r.FormValue("studentId")
	input.TeamName = r.FormValue("teamName")
	input.Name = r.FormValue("name")
	input.Email = r.FormValue("email")
	input.LeaderName = r.FormValue("leaderName")
	input.LeaderEmail = r.FormValue("leaderEmail")
	input.DateOfBirth = r.FormValue("datebirth")
	input.Phone = r.FormValue("phone")
	input.Education = r.FormValue("education")
	input.HasParticipated = r.FormValue("hasParticipated")

	if raw := r.FormValue("isTeam"); raw != "" {
		isTeam, err := strconv.ParseBool(raw)
		if err != nil {
			return input, nil, fmt.Errorf("isTeam must be true or false")
		}
		input.IsTeam = isTeam
	}
	if raw := r.FormValue("members"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &input.Members); err != nil {
			return input, nil, fmt.Errorf("members must be a JSON array: %w", err)
		}
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil, nil
	}
	if err != nil {
		return input, nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	defer file.Close()

	if header.Size > services.MaxProposalSize {
		return input, nil, services.ErrInvalidProposalFile
	}
	data, err := io.ReadAll(io.LimitReader(file, services.MaxProposalSize+1))
	if err != nil {
		return input, nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) > services.MaxProposalSize {
		return input, nil, services.ErrInvalidProposalFile
	}

	// Тип определяем по содержимому: заголовок Content-Type части формы задаёт клиент.
	detected := mimetype.Detect(data)
	if !detected.Is("application/pdf") {
		return input, nil, services.ErrInvalidProposalFile
	}

	return input, &services.ProposalUpload{
		Filename:    header.Filename,
		ContentType: "application/pdf",
		Size:        int64(len(data)),
		Reader:      bytes.NewReader(data),
	}, nil
}

// Check godoc
// @Summary Зарегистрирован ли текущий студент на хакатон
// @Tags registrations
// @Produce json
// @Param hackathonID path string true "Hackathon ID"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /registeredhackathon/check/{hackathonID} [get]
func (h *RegistrationHandler) Check(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	hackathonID, err := getIDFromURL(r, "hackathonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	registered := false
	if actor.Role == models.RoleStudent {
		registered, err = h.registrationService.IsRegistered(r.Context(), actor.ID, hackathonID)
		if err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"isRegistered": registered}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByHackathon godoc
// @Summary Участники хакатона
// @Tags registrations
// @Produce json
// @Param hackathonID path string true "Hackathon ID"
// @Success 200 {array} models.Registration
// @Security BearerAuth
// @Router /registeredhackathon/hackathon/{hackathonID} [get]
func (h *RegistrationHandler) ListByHackathon(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	hackathonID, err := getIDFromURL(r, "hackathonID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	regs, err := h.registrationService.ListByHackathon(r.Context(), actor, hackathonID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, regs, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// OrganizerHackathons godoc
// @Summary Хакатоны организатора
// @Tags registrations
// @Produce json
// @Param organizerID path string true "Organizer ID"
// @Param type query string false "upcoming (upcomin) или conducted"
// @Success 200 {array} models.Hackathon
// @Security BearerAuth
// @Router /registeredhackathon/organizer/{organizerID} [get]
func (h *RegistrationHandler) OrganizerHackathons(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	organizerID, err := getIDFromURL(r, "organizerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	hackathons, err := h.hackathonService.ListByOrganizer(r.Context(), actor, organizerID, r.URL.Query().Get("type"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, hackathons, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StudentHackathons godoc
// @Summary Хакатоны студента
// @Tags registrations
// @Produce json
// @Param studentID path string true "Student ID"
// @Param type query string false "upcoming или participated"
// @Success 200 {array} models.StudentEvent
// @Security BearerAuth
// @Router /registeredhackathon/registeredhackathons/{studentID} [get]
func (h *RegistrationHandler) StudentHackathons(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	studentID, err := getIDFromURL(r, "studentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	events, err := h.registrationService.StudentHackathons(r.Context(), actor, studentID, r.URL.Query().Get("type"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, events, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
