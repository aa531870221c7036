package handlers

import (
	"context"
	"net/http"

	"github.com/Dosada05/hackathon-portal/models"
	"github.com/Dosada05/hackathon-portal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type signUpFunc func(ctx context.Context, input services.SignUpInput) (*models.User, error)

// RegisterStudent godoc
// @Summary Регистрация студента
// @Tags users
// @Accept json
// @Produce json
// @Param body body services.SignUpInput true "Данные пользователя"
// @Success 201 {object} map[string]string
// @Failure 409 {object} map[string]string "Email или username заняты"
// @Failure 422 {object} map[string]interface{} "Ошибка валидации"
// @Router /user/register/student [post]
func (h *UserHandler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, h.userService.RegisterStudent, "Student registered successfully")
}

// RegisterOrganizer godoc
// @Summary Регистрация организатора (адрес обязателен)
// @Tags users
// @Accept json
// @Produce json
// @Param body body services.SignUpInput true "Данные пользователя"
// @Success 201 {object} map[string]string
// @Router /user/register/organizer [post]
func (h *UserHandler) RegisterOrganizer(w http.ResponseWriter, r *http.Request) {
	h.register(w, r, h.userService.RegisterOrganizer, "Organizer registered successfully")
}

func (h *UserHandler) register(w http.ResponseWriter, r *http.Request, signUp signUpFunc, message string) {
	var input services.SignUpInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if _, err := signUp(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"message": message}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListStudents(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, users, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) ListOrganizers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListOrganizers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, users, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
