package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/translationreview/backend/internal/models"
	"go.uber.org/zap"
)

type userAccountRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserAccountRepository creates a new user account repository
func NewUserAccountRepository(db *sql.DB, logger *zap.Logger) *userAccountRepository {
	return &userAccountRepository{
		db:     db,
		logger: logger,
	}
}

// GetByUsername retrieves an account by its exact username.
//
// The username column uses a binary collation, so the match is case sensitive.
// Returns models.ErrNotFound when no such account exists.
func (r *userAccountRepository) GetByUsername(ctx context.Context, username string) (*models.UserAccount, error) {
	query := `
		SELECT username, password, language
		FROM review_users
		WHERE username = ?
		LIMIT 1
	`

	account := &models.UserAccount{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&account.Username,
		&account.Password,
		&account.Language,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", username, models.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("%w: failed to get user by username: %w", models.ErrStoreUnavailable, err)
	}

	return account, nil
}
