package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/petanque-manager/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary Вход организатора
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.LoginInput true "Пароль организатора"
// @Success 200 {object} services.LoginResult
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Password == "" {
		badRequestResponse(w, r, errors.New("password is required"))
		return
	}

	result, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
