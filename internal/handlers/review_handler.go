package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/translationreview/backend/internal/models"
	"go.uber.org/zap"
)

// Response messages of the review endpoints
const (
	msgReviewCreated    = "New review record created."
	msgReviewUpdated    = "Reviews updated successfully."
	msgInvalidSaveData  = "Invalid data. Username and reviews are required."
	msgNoReviewedData   = "No reviewed data found for this username."
	msgInternalErrorFmt = "An internal server error occurred. Error: "
)

// ProgressService is the interface that wraps methods for review progress business logic.
type ProgressService interface {
	// Method SaveProgress validates and stores a snapshot of the user's reviewed questions.
	//
	// It returns models.SaveOutcomeCreated on the user's first save and models.SaveOutcomeUpdated afterwards.
	// Invalid input yields an error wrapping models.ErrValidation and nothing is stored.
	SaveProgress(ctx context.Context, username string, reviews []models.ReviewedQuestion, lastReviewedIndex int) (models.SaveOutcome, error)
	// Method FetchProgress retrieves the stored reviews and last reviewed index of a user.
	//
	// If the user has no stored progress, an error wrapping models.ErrNotFound is returned together with "nil" value.
	FetchProgress(ctx context.Context, username string) (*models.ReviewsResponse, error)
}

// ReviewHandler handles HTTP requests for review progress
type ReviewHandler struct {
	BaseHandler
	service ProgressService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(svc ProgressService, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service:     svc,
		BaseHandler: BaseHandler{logger: logger},
	}
}

// RegisterRoutes registers all review handler routes
func (h *ReviewHandler) RegisterRoutes(r chi.Router) {
	r.Post("/save", h.Save)
	r.Get("/reviews/{username}", h.GetReviews)
}

// Save handles POST /save
// @Summary Save review progress
// @Description Create or replace the review progress of a user
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body models.SaveReviewsRequest true "Progress snapshot"
// @Success 200 {object} MessageResponse "Reviews updated"
// @Success 201 {object} MessageResponse "Review record created"
// @Failure 400 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /save [post]
func (h *ReviewHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.SaveReviewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("failed to decode save request", zap.Error(err))
		h.respondMessage(w, http.StatusBadRequest, msgInvalidSaveData)
		return
	}

	outcome, err := h.service.SaveProgress(r.Context(), req.Username, req.Reviews, req.LastReviewedIndex)
	if err != nil {
		if errors.Is(err, models.ErrValidation) {
			h.respondMessage(w, http.StatusBadRequest, msgInvalidSaveData)
			return
		}
		h.logger.Error("failed to save reviews", zap.Error(err), zap.String("username", req.Username))
		h.respondMessage(w, http.StatusInternalServerError, msgInternalErrorFmt+err.Error())
		return
	}

	if outcome == models.SaveOutcomeCreated {
		w.Header().Set("Location", "/save/"+url.PathEscape(req.Username))
		h.respondMessage(w, http.StatusCreated, msgReviewCreated)
		return
	}
	h.respondMessage(w, http.StatusOK, msgReviewUpdated)
}

// GetReviews handles GET /reviews/{username}
// @Summary Get review progress
// @Description Get the last reviewed index and reviewed questions of a user
// @Tags reviews
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} models.ReviewsResponse
// @Failure 400 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Failure 500 {object} MessageResponse
// @Router /reviews/{username} [get]
func (h *ReviewHandler) GetReviews(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	progress, err := h.service.FetchProgress(r.Context(), username)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			h.respondMessage(w, http.StatusNotFound, msgNoReviewedData)
		case errors.Is(err, models.ErrValidation):
			h.respondMessage(w, http.StatusBadRequest, "username is required")
		default:
			h.logger.Error("failed to retrieve reviews", zap.Error(err), zap.String("username", username))
			h.respondMessage(w, http.StatusInternalServerError, msgInternalErrorFmt+err.Error())
		}
		return
	}

	h.respondJSON(w, http.StatusOK, progress)
}
