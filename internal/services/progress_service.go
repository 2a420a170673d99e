package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/translationreview/backend/internal/models"
	"github.com/translationreview/backend/pkg/validator"
	"go.uber.org/zap"
)

// ReviewProgressRepository is the interface that wraps methods for review progress data access
type ReviewProgressRepository interface {
	// Method Upsert creates or replaces the progress document of progress.Username in one atomic write.
	//
	// It returns "true" when the write inserted a new document and "false" when an existing document was updated.
	// If the write fails, no field of the stored document is changed and the error is returned.
	Upsert(ctx context.Context, progress *models.ReviewProgress) (bool, error)
	// Method GetByUsername retrieves the progress document of a user.
	//
	// If the user has never saved progress, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByUsername(ctx context.Context, username string) (*models.ReviewProgress, error)
}

type progressService struct {
	repo   ReviewProgressRepository
	logger *zap.Logger
}

// NewProgressService creates a new progress service
func NewProgressService(repo ReviewProgressRepository, logger *zap.Logger) *progressService {
	return &progressService{
		repo:   repo,
		logger: logger,
	}
}

// SaveProgress stores a snapshot of the user's reviewed questions.
//
// The username must be non-empty, reviews must contain at least one question and
// lastReviewedIndex must not be negative; otherwise an error wrapping models.ErrValidation is
// returned and nothing is written. The whole snapshot replaces the stored one.
func (s *progressService) SaveProgress(ctx context.Context, username string, reviews []models.ReviewedQuestion, lastReviewedIndex int) (models.SaveOutcome, error) {
	progress := &models.ReviewProgress{
		Username:          strings.TrimSpace(username),
		Reviews:           reviews,
		LastReviewedIndex: lastReviewedIndex,
	}
	if err := validator.ValidateStruct(progress); err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrValidation, err)
	}

	created, err := s.repo.Upsert(ctx, progress)
	if err != nil {
		s.logger.Error("failed to save review progress", zap.Error(err), zap.String("username", progress.Username))
		return "", fmt.Errorf("failed to save reviews: %w", err)
	}

	if created {
		s.logger.Info("review progress created", zap.String("username", progress.Username), zap.String("id", progress.ID))
		return models.SaveOutcomeCreated, nil
	}
	s.logger.Debug("review progress updated", zap.String("username", progress.Username), zap.Int("reviews", len(reviews)))
	return models.SaveOutcomeUpdated, nil
}

// FetchProgress retrieves the stored reviews and last reviewed index of a user.
//
// A user without saved progress gets an error wrapping models.ErrNotFound, never an empty document.
func (s *progressService) FetchProgress(ctx context.Context, username string) (*models.ReviewsResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", models.ErrValidation)
	}

	progress, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to fetch review progress", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to retrieve reviews: %w", err)
	}

	reviews := progress.Reviews
	if reviews == nil {
		reviews = []models.ReviewedQuestion{}
	}

	return &models.ReviewsResponse{
		LastReviewedIndex: progress.LastReviewedIndex,
		Reviews:           reviews,
	}, nil
}
