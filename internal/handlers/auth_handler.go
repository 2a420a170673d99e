package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/translationreview/backend/internal/models"
	"go.uber.org/zap"
)

// Response messages of the login endpoint
const (
	msgInvalidCredentials  = "Invalid username or password"
	msgLanguageNotAssigned = "You can only select your assigned language!"
)

// AccessService is the interface that wraps methods for login business logic.
type AccessService interface {
	// Method Authenticate checks the credentials and the selected language of a user.
	//
	// An unknown user and a wrong password both return models.ErrInvalidCredentials.
	// A language other than the assigned one returns models.ErrLanguageNotAssigned.
	Authenticate(ctx context.Context, username, password, selectedLanguage string) (*models.LoginResponse, error)
}

// AuthHandler handles login requests
type AuthHandler struct {
	BaseHandler
	service AccessService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc AccessService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all auth handler routes
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.Login)
}

// Login handles POST /login
// @Summary Log in
// @Description Check username, password and the selected review language
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials and selected language"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("failed to decode login request", zap.Error(err))
		h.respondMessage(w, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	result, err := h.service.Authenticate(r.Context(), req.Username, req.Password, req.SelectedLanguage)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrLanguageNotAssigned):
			h.respondMessage(w, http.StatusBadRequest, msgLanguageNotAssigned)
		case errors.Is(err, models.ErrInvalidCredentials):
			h.respondMessage(w, http.StatusBadRequest, msgInvalidCredentials)
		default:
			h.logger.Error("failed to authenticate", zap.Error(err))
			h.respondMessage(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}
