package models

import "time"

// LocalizedText maps a language code to the text in that language
type LocalizedText map[string]string

// Option represents a single answer option of a reviewed question
type Option struct {
	Text LocalizedText `json:"text"`
}

// ReviewedQuestion is a snapshot of a question the user has reviewed
type ReviewedQuestion struct {
	ID          string        `json:"_id"`
	Text        LocalizedText `json:"text"`
	Options     []Option      `json:"options"`
	Explanation LocalizedText `json:"explanation"`
}

// ReviewProgress represents the single progress document kept per user
type ReviewProgress struct {
	ID                string             `json:"-"`
	Username          string             `json:"username" validate:"required"`
	Reviews           []ReviewedQuestion `json:"reviews" validate:"min=1"`
	LastReviewedIndex int                `json:"lastReviewedIndex" validate:"min=0"`
	LastModified      time.Time          `json:"lastModified"`
}

// SaveOutcome tells whether a save created a new progress document or updated an existing one
type SaveOutcome string

// SaveOutcome constants
const (
	SaveOutcomeCreated SaveOutcome = "created"
	SaveOutcomeUpdated SaveOutcome = "updated"
)

// SaveReviewsRequest represents the body of a save request
type SaveReviewsRequest struct {
	Username          string             `json:"username"`
	Reviews           []ReviewedQuestion `json:"reviews"`
	LastReviewedIndex int                `json:"lastReviewedIndex"`
}

// ReviewsResponse represents the progress returned to a client
type ReviewsResponse struct {
	LastReviewedIndex int                `json:"lastReviewedIndex"`
	Reviews           []ReviewedQuestion `json:"reviews"`
}
