package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/translationreview/backend/internal/models"
	"go.uber.org/zap"
)

var (
	upsertQuery    = regexp.QuoteMeta(`INSERT INTO review_progress (id, username, reviews, last_reviewed_index, last_modified)`)
	selectProgress = regexp.QuoteMeta(`SELECT id, username, reviews, last_reviewed_index, last_modified FROM review_progress WHERE username = ?`)
	progressCols   = []string{"id", "username", "reviews", "last_reviewed_index", "last_modified"}
)

// setupReviewProgressTestRepository creates a review progress repository with a mock database
func setupReviewProgressTestRepository(t *testing.T) (*reviewProgressRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	logger, err := zap.NewDevelopment()
	require.NoError(t, err)

	repo := NewReviewProgressRepository(db, logger)

	cleanup := func() {
		db.Close()
	}

	return repo, mock, cleanup
}

func sampleReviews() []models.ReviewedQuestion {
	return []models.ReviewedQuestion{
		{
			ID:   "q1",
			Text: models.LocalizedText{"en": "What is a cat?", "fr": "Qu'est-ce qu'un chat ?"},
			Options: []models.Option{
				{Text: models.LocalizedText{"en": "An animal", "fr": "Un animal"}},
				{Text: models.LocalizedText{"en": "A plant", "fr": "Une plante"}},
			},
			Explanation: models.LocalizedText{"en": "Cats are animals.", "fr": "Les chats sont des animaux."},
		},
		{
			ID:          "q2",
			Text:        models.LocalizedText{"en": "What is a rose?"},
			Options:     []models.Option{{Text: models.LocalizedText{"en": "A plant"}}},
			Explanation: models.LocalizedText{"en": "Roses are plants."},
		},
	}
}

func TestNewReviewProgressRepository(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	db := &sql.DB{}

	repo := NewReviewProgressRepository(db, logger)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
	assert.Equal(t, logger, repo.logger)
}

func TestReviewProgressRepository_Upsert(t *testing.T) {
	reviews := sampleReviews()
	encoded, err := json.Marshal(reviews)
	require.NoError(t, err)

	tests := []struct {
		name            string
		setupMock       func(sqlmock.Sqlmock)
		expectedError   bool
		expectedStore   bool
		expectedCreated bool
	}{
		{
			name: "insert creates document",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(upsertQuery).
					WithArgs(sqlmock.AnyArg(), "alice", string(encoded), 1).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			expectedCreated: true,
		},
		{
			name: "existing document updated",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(upsertQuery).
					WithArgs(sqlmock.AnyArg(), "alice", string(encoded), 1).
					WillReturnResult(sqlmock.NewResult(0, 2))
			},
			expectedCreated: false,
		},
		{
			name: "existing document unchanged",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(upsertQuery).
					WithArgs(sqlmock.AnyArg(), "alice", string(encoded), 1).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedCreated: false,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(upsertQuery).
					WithArgs(sqlmock.AnyArg(), "alice", string(encoded), 1).
					WillReturnError(errors.New("connection refused"))
			},
			expectedError: true,
			expectedStore: true,
		},
		{
			name: "affected rows error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(upsertQuery).
					WithArgs(sqlmock.AnyArg(), "alice", string(encoded), 1).
					WillReturnResult(sqlmock.NewErrorResult(errors.New("rows affected error")))
			},
			expectedError: true,
			expectedStore: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupReviewProgressTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)
			progress := &models.ReviewProgress{Username: "alice", Reviews: reviews, LastReviewedIndex: 1}

			created, err := repo.Upsert(context.Background(), progress)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedStore, errors.Is(err, models.ErrStoreUnavailable))
				assert.False(t, created)
				assert.Empty(t, progress.ID)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedCreated, created)
				if tt.expectedCreated {
					assert.Len(t, progress.ID, 36)
				} else {
					assert.Empty(t, progress.ID)
				}
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReviewProgressRepository_Upsert_SingleStatement(t *testing.T) {
	repo, mock, cleanup := setupReviewProgressTestRepository(t)
	defer cleanup()

	// Only the upsert is expected: any extra read or write fails the expectations
	mock.ExpectExec(regexp.QuoteMeta(`ON DUPLICATE KEY UPDATE`)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	_, err := repo.Upsert(context.Background(), &models.ReviewProgress{Username: "alice", Reviews: sampleReviews()})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewProgressRepository_GetByUsername(t *testing.T) {
	reviews := sampleReviews()
	encoded, err := json.Marshal(reviews)
	require.NoError(t, err)
	modified := time.Date(2026, 10, 1, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name              string
		setupMock         func(sqlmock.Sqlmock)
		expectedError     error
		expectedAnyError  bool
		expectedIndex     int
		expectedReviewIDs []string
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(progressCols).
					AddRow("id-1", "alice", encoded, 1, modified)
				mock.ExpectQuery(selectProgress).WithArgs("alice").WillReturnRows(rows)
			},
			expectedIndex:     1,
			expectedReviewIDs: []string{"q1", "q2"},
		},
		{
			name: "legacy document without index",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(progressCols).
					AddRow("id-1", "alice", encoded, nil, modified)
				mock.ExpectQuery(selectProgress).WithArgs("alice").WillReturnRows(rows)
			},
			expectedIndex:     0,
			expectedReviewIDs: []string{"q1", "q2"},
		},
		{
			name: "legacy document without reviews",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(progressCols).
					AddRow("id-1", "alice", nil, 3, nil)
				mock.ExpectQuery(selectProgress).WithArgs("alice").WillReturnRows(rows)
			},
			expectedIndex:     3,
			expectedReviewIDs: []string{},
		},
		{
			name: "malformed entries are skipped",
			setupMock: func(mock sqlmock.Sqlmock) {
				stored := `[{"_id":"q1","text":{"en":"a"}},"garbage",null,{"_id":42},{"_id":"q3","options":[{"text":{"en":"x"}}]}]`
				rows := sqlmock.NewRows(progressCols).
					AddRow("id-1", "alice", stored, 4, modified)
				mock.ExpectQuery(selectProgress).WithArgs("alice").WillReturnRows(rows)
			},
			expectedIndex:     4,
			expectedReviewIDs: []string{"q1", "q3"},
		},
		{
			name: "reviews not a list",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(progressCols).
					AddRow("id-1", "alice", `{"_id":"q1"}`, 0, modified)
				mock.ExpectQuery(selectProgress).WithArgs("alice").WillReturnRows(rows)
			},
			expectedAnyError: true,
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectProgress).WithArgs("alice").WillReturnError(sql.ErrNoRows)
			},
			expectedError: models.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(selectProgress).WithArgs("alice").WillReturnError(errors.New("i/o timeout"))
			},
			expectedError: models.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := setupReviewProgressTestRepository(t)
			defer cleanup()

			tt.setupMock(mock)

			progress, err := repo.GetByUsername(context.Background(), "alice")

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, progress)
			case tt.expectedAnyError:
				assert.Error(t, err)
				assert.Nil(t, progress)
			default:
				require.NoError(t, err)
				assert.Equal(t, "id-1", progress.ID)
				assert.Equal(t, "alice", progress.Username)
				assert.Equal(t, tt.expectedIndex, progress.LastReviewedIndex)
				require.NotNil(t, progress.Reviews)
				ids := make([]string, 0, len(progress.Reviews))
				for _, review := range progress.Reviews {
					ids = append(ids, review.ID)
				}
				assert.Equal(t, tt.expectedReviewIDs, ids)
			}

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReviewProgressRepository_GetByUsername_PreservesContent(t *testing.T) {
	repo, mock, cleanup := setupReviewProgressTestRepository(t)
	defer cleanup()

	reviews := sampleReviews()
	encoded, err := json.Marshal(reviews)
	require.NoError(t, err)
	modified := time.Date(2026, 10, 1, 12, 30, 0, 0, time.UTC)
	mock.ExpectQuery(selectProgress).WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(progressCols).AddRow("id-1", "alice", encoded, 1, modified))

	progress, err := repo.GetByUsername(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, reviews, progress.Reviews)
	assert.Equal(t, modified, progress.LastModified)
}

func TestDecodeReviews(t *testing.T) {
	tests := []struct {
		name            string
		raw             string
		expectedError   bool
		expectedCount   int
		expectedSkipped []int
	}{
		{name: "empty", raw: "", expectedCount: 0},
		{name: "null", raw: " null ", expectedCount: 0},
		{name: "empty list", raw: "[]", expectedCount: 0},
		{name: "valid entries", raw: `[{"_id":"q1"},{"_id":"q2"}]`, expectedCount: 2},
		{name: "mixed entries", raw: `[{"_id":"q1"},1,{"options":"bad"}]`, expectedCount: 1, expectedSkipped: []int{1, 2}},
		{name: "object", raw: `{"_id":"q1"}`, expectedError: true},
		{name: "invalid json", raw: `[{`, expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews, skipped, err := decodeReviews([]byte(tt.raw))

			if tt.expectedError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, reviews)
			assert.Len(t, reviews, tt.expectedCount)
			assert.Equal(t, tt.expectedSkipped, skipped)
		})
	}
}
