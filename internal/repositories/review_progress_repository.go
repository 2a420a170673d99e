package repositories

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/translationreview/backend/internal/models"
	"go.uber.org/zap"
)

// MySQL reports one affected row when ON DUPLICATE KEY UPDATE inserts, two when it
// updates an existing row and zero when the existing row already held the same values.
const insertedRowsAffected = 1

type reviewProgressRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReviewProgressRepository creates a new review progress repository
func NewReviewProgressRepository(db *sql.DB, logger *zap.Logger) *reviewProgressRepository {
	return &reviewProgressRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert creates or replaces the progress document of progress.Username in a single statement.
//
// Only reviews, last_reviewed_index and last_modified change on an existing document;
// last_modified never moves backwards. The returned flag is true when a new document was inserted,
// in which case progress.ID receives the new identity.
func (r *reviewProgressRepository) Upsert(ctx context.Context, progress *models.ReviewProgress) (bool, error) {
	reviews, err := json.Marshal(progress.Reviews)
	if err != nil {
		return false, fmt.Errorf("failed to encode reviews: %w", err)
	}

	query := `
		INSERT INTO review_progress (id, username, reviews, last_reviewed_index, last_modified)
		VALUES (?, ?, ?, ?, UTC_TIMESTAMP(6))
		ON DUPLICATE KEY UPDATE
			reviews = VALUES(reviews),
			last_reviewed_index = VALUES(last_reviewed_index),
			last_modified = GREATEST(last_modified, VALUES(last_modified))
	`

	id := uuid.NewString()
	result, err := r.db.ExecContext(ctx, query, id, progress.Username, string(reviews), progress.LastReviewedIndex)
	if err != nil {
		r.logger.Error("failed to upsert review progress", zap.Error(err), zap.String("username", progress.Username))
		return false, fmt.Errorf("%w: failed to upsert review progress: %w", models.ErrStoreUnavailable, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("failed to get affected rows", zap.Error(err), zap.String("username", progress.Username))
		return false, fmt.Errorf("%w: failed to get affected rows: %w", models.ErrStoreUnavailable, err)
	}

	created := affected == insertedRowsAffected
	if created {
		progress.ID = id
	}
	return created, nil
}

// GetByUsername retrieves the progress document of a user.
//
// Returns models.ErrNotFound when the user has never saved progress.
// Stored review entries that cannot be decoded are skipped.
func (r *reviewProgressRepository) GetByUsername(ctx context.Context, username string) (*models.ReviewProgress, error) {
	query := `
		SELECT id, username, reviews, last_reviewed_index, last_modified
		FROM review_progress
		WHERE username = ?
	`

	var (
		progress          models.ReviewProgress
		rawReviews        []byte
		lastReviewedIndex sql.NullInt64
		lastModified      sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&progress.ID,
		&progress.Username,
		&rawReviews,
		&lastReviewedIndex,
		&lastModified,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("review progress for %q: %w", username, models.ErrNotFound)
		}
		r.logger.Error("failed to query review progress", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("%w: failed to query review progress: %w", models.ErrStoreUnavailable, err)
	}

	reviews, skipped, err := decodeReviews(rawReviews)
	if err != nil {
		r.logger.Error("stored reviews are not a list", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to decode stored reviews: %w", err)
	}
	for _, position := range skipped {
		r.logger.Warn("skipping malformed stored review",
			zap.String("username", username),
			zap.Int("position", position),
		)
	}

	progress.Reviews = reviews
	// Legacy documents may lack the index
	if lastReviewedIndex.Valid {
		progress.LastReviewedIndex = int(lastReviewedIndex.Int64)
	}
	if lastModified.Valid {
		progress.LastModified = lastModified.Time
	}

	return &progress, nil
}

// decodeReviews decodes a stored JSON array of reviews entry by entry.
//
// It returns the decoded reviews in stored order together with the positions of the entries
// that were skipped. An error is returned only if raw is not a JSON array.
func decodeReviews(raw []byte) ([]models.ReviewedQuestion, []int, error) {
	reviews := make([]models.ReviewedQuestion, 0)
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return reviews, nil, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, nil, err
	}

	var skipped []int
	for i, entry := range entries {
		var review models.ReviewedQuestion
		if bytes.Equal(bytes.TrimSpace(entry), []byte("null")) {
			skipped = append(skipped, i)
			continue
		}
		if err := json.Unmarshal(entry, &review); err != nil {
			skipped = append(skipped, i)
			continue
		}
		reviews = append(reviews, review)
	}

	return reviews, skipped, nil
}
