package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/hackathon-portal/models"
	"github.com/Dosada05/hackathon-portal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// loginFailed отвечает 400, а не 401: неверный пароль не должен выглядеть как
// истёкшая сессия для клиента, который разлогинивает по 401.
func loginFailed(w http.ResponseWriter, r *http.Request, message string) {
	if err := writeJSON(w, http.StatusBadRequest, jsonResponse{"success": false, "message": message, "error": message}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func loginSucceeded(w http.ResponseWriter, r *http.Request, res *services.LoginResult) {
	response := jsonResponse{
		"success": true,
		"token":   res.Token,
		"role":    res.User.Role,
		"message": "Login successful",
	}
	switch res.User.Role {
	case models.RoleStudent:
		response["studentId"] = res.User.ID
	case models.RoleOrganizer:
		response["organizerId"] = res.User.ID
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Login godoc
// @Summary Вход студента или организатора
// @Tags auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Учётные данные и тип пользователя"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Неверные учётные данные"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		loginFailed(w, r, err.Error())
		return
	}
	if input.Username == "" || input.Password == "" {
		loginFailed(w, r, "username and password are required")
		return
	}

	res, err := h.authService.Login(r.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrInvalidUserType) {
			loginFailed(w, r, err.Error())
			return
		}
		serverErrorResponse(w, r, err)
		return
	}
	loginSucceeded(w, r, res)
}

// AdminLogin godoc
// @Summary Вход администратора
// @Tags auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /auth/login/admin [post]
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	// Форма входа присылает userType и в режиме администратора; значение игнорируется.
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
		UserType string `json:"userType"`
	}
	if err := readJSON(w, r, &input); err != nil {
		loginFailed(w, r, err.Error())
		return
	}
	if input.Username == "" || input.Password == "" {
		loginFailed(w, r, "username and password are required")
		return
	}

	res, err := h.authService.AdminLogin(r.Context(), models.Credentials{Username: input.Username, Password: input.Password})
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			loginFailed(w, r, err.Error())
			return
		}
		serverErrorResponse(w, r, err)
		return
	}
	loginSucceeded(w, r, res)
}
