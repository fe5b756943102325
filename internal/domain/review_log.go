package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReviewLog validation errors
var (
	ErrEmptyLogProgressID = errors.New("review log progress ID cannot be empty")
	ErrEmptyLogUserID     = errors.New("review log user ID cannot be empty")
	ErrNegativeLatency    = errors.New("response time cannot be negative")
)

// ReviewLog is an immutable record of one review event. Logs are append-only:
// nothing in the system ever updates or deletes one. They feed the activity
// analytics (heatmap, streak, accuracy).
type ReviewLog struct {
	ID             uuid.UUID `json:"id"`
	CardProgressID uuid.UUID `json:"card_progress_id"`
	UserID         uuid.UUID `json:"user_id"`
	Quality        Quality   `json:"quality"`
	ResponseTimeMs int       `json:"response_time_ms"`
	WasCorrect     bool      `json:"was_correct"`
	ReviewedAt     time.Time `json:"reviewed_at"`
}

// NewReviewLog creates a log entry for one review event. WasCorrect is
// derived from the quality score, never supplied independently.
func NewReviewLog(
	progressID, userID uuid.UUID,
	quality Quality,
	responseTimeMs int,
	reviewedAt time.Time,
) (*ReviewLog, error) {
	log := &ReviewLog{
		ID:             uuid.New(),
		CardProgressID: progressID,
		UserID:         userID,
		Quality:        quality,
		ResponseTimeMs: responseTimeMs,
		WasCorrect:     quality.Passed(),
		ReviewedAt:     reviewedAt,
	}

	if err := log.Validate(); err != nil {
		return nil, err
	}

	return log, nil
}

// Validate checks if the ReviewLog has valid data.
func (l *ReviewLog) Validate() error {
	if l.CardProgressID == uuid.Nil {
		return ErrEmptyLogProgressID
	}

	if l.UserID == uuid.Nil {
		return ErrEmptyLogUserID
	}

	if err := l.Quality.Validate(); err != nil {
		return err
	}

	if l.ResponseTimeMs < 0 {
		return ErrNegativeLatency
	}

	return nil
}
