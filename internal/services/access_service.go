package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/translationreview/backend/internal/models"
	"go.uber.org/zap"
)

// UserAccountRepository is the interface that wraps methods for review user account data access
type UserAccountRepository interface {
	// Method GetByUsername retrieves an account by its exact username.
	//
	// If no such account exists, an error wrapping models.ErrNotFound is returned together with "nil" value.
	GetByUsername(ctx context.Context, username string) (*models.UserAccount, error)
}

type accessService struct {
	repo     UserAccountRepository
	verifier CredentialVerifier
	logger   *zap.Logger
}

// NewAccessService creates a new access service
func NewAccessService(repo UserAccountRepository, verifier CredentialVerifier, logger *zap.Logger) *accessService {
	return &accessService{
		repo:     repo,
		verifier: verifier,
		logger:   logger,
	}
}

// Authenticate checks the user's credentials and the language the user selected.
//
// An unknown username and a wrong password both return models.ErrInvalidCredentials.
// An account restricted to another language returns models.ErrLanguageNotAssigned.
// On success the stored username and the selected language are returned.
func (s *accessService) Authenticate(ctx context.Context, username, password, selectedLanguage string) (*models.LoginResponse, error) {
	if username == "" || password == "" {
		return nil, models.ErrInvalidCredentials
	}

	account, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Debug("login rejected", zap.String("username", username), zap.String("reason", "unknown user"))
			return nil, models.ErrInvalidCredentials
		}
		s.logger.Error("failed to get user account", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if !s.verifier.Verify(account.Password, password) {
		s.logger.Debug("login rejected", zap.String("username", username), zap.String("reason", "wrong password"))
		return nil, models.ErrInvalidCredentials
	}

	if !account.CanSelect(selectedLanguage) {
		s.logger.Debug("login rejected",
			zap.String("username", username),
			zap.String("assigned_language", account.Language),
			zap.String("selected_language", selectedLanguage),
		)
		return nil, models.ErrLanguageNotAssigned
	}

	return &models.LoginResponse{
		Username:         account.Username,
		SelectedLanguage: selectedLanguage,
	}, nil
}
