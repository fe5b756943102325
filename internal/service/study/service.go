package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hanzideck/hanzideck-api/internal/domain"
	"github.com/hanzideck/hanzideck-api/internal/store"
	adaptive "github.com/hanzideck/hanzideck-api/internal/study"
)

// ReviewSubmission represents one answered card in any study mode.
type ReviewSubmission struct {
	CardID         uuid.UUID        `json:"card_id"`
	Mode           domain.StudyMode `json:"mode"`
	Quality        domain.Quality   `json:"quality"`
	ResponseTimeMs int              `json:"response_time_ms"`
}

// Validate checks the submission fields without touching storage.
func (r ReviewSubmission) Validate() error {
	if r.CardID == uuid.Nil {
		return fmt.Errorf("%w: card ID cannot be empty", ErrInvalidSubmission)
	}
	if !r.Mode.Valid() {
		return fmt.Errorf("%w: unknown study mode %q", ErrInvalidSubmission, r.Mode)
	}
	if !r.Quality.Valid() {
		return fmt.Errorf("%w: quality must be between 0 and 5", ErrInvalidSubmission)
	}
	if r.ResponseTimeMs < 0 {
		return fmt.Errorf("%w: response time cannot be negative", ErrInvalidSubmission)
	}
	return nil
}

// Session is an SRS review queue: the due set followed by the new set,
// concatenated once at build time. The queue is static; answering a card does
// not reorder it.
type Session struct {
	Cards    []*domain.Card `json:"cards"`
	DueCount int            `json:"due_count"`
	NewCount int            `json:"new_count"`
}

// Stats summarizes a user's study state across every mode.
type Stats struct {
	TotalCards   int                      `json:"total_cards"`
	TotalReviews int                      `json:"total_reviews"`
	DueByMode    map[domain.StudyMode]int `json:"due_by_mode"`
}

// HeatmapDay is one day of review activity.
type HeatmapDay struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Total   int    `json:"total"`
	Correct int    `json:"correct"`
}

// QuickOptions configures a quick session.
type QuickOptions struct {
	// Mode is the recall direction the session drills. It only matters when
	// PersistReviews is set, since it names the progress rows answers are
	// written to.
	Mode domain.StudyMode

	// PersistReviews routes each answer through SubmitReview so quick
	// sessions feed the long-term schedule. Off by default: a quick pass is
	// normally ephemeral.
	PersistReviews bool
}

// StudyService plans review sessions and applies review outcomes.
type StudyService interface {
	// GetDueCards retrieves (progress, card) pairs due for review at the time
	// of the call, most overdue first, capped at limit.
	GetDueCards(
		ctx context.Context,
		userID uuid.UUID,
		mode domain.StudyMode,
		filter store.CardFilter,
		limit int,
	) ([]store.DueCard, error)

	// GetNewCards retrieves cards never studied in the given mode, in catalog
	// insertion order, capped at limit.
	GetNewCards(
		ctx context.Context,
		userID uuid.UUID,
		mode domain.StudyMode,
		filter store.CardFilter,
		limit int,
	) ([]*domain.Card, error)

	// BuildSession builds the SRS queue for one sitting: due cards first,
	// then new cards, each set independently capped.
	BuildSession(
		ctx context.Context,
		userID uuid.UUID,
		mode domain.StudyMode,
		filter store.CardFilter,
		dueLimit, newLimit int,
	) (*Session, error)

	// SubmitReview applies one review outcome: it advances the SM-2 schedule
	// for the (card, mode) pair, creating the progress row on first contact,
	// and appends exactly one review log entry. The whole operation runs in a
	// single transaction.
	//
	// Returns ErrCardNotFound if the card does not exist, ErrCardNotOwned if
	// it belongs to another user, and ErrInvalidSubmission for bad input.
	SubmitReview(
		ctx context.Context,
		userID uuid.UUID,
		submission ReviewSubmission,
	) (*domain.CardProgress, error)

	// GetStats reports catalog size, lifetime review count and the due count
	// for every study mode.
	GetStats(ctx context.Context, userID uuid.UUID) (*Stats, error)

	// GetHeatmap reports per-day review activity over the trailing window of
	// the given number of days, oldest day first, zero-filled.
	GetHeatmap(ctx context.Context, userID uuid.UUID, days int) ([]HeatmapDay, error)

	// NewQuickSession loads the filtered catalog and shuffles it into a
	// single-pass queue.
	NewQuickSession(
		ctx context.Context,
		userID uuid.UUID,
		filter store.CardFilter,
		opts QuickOptions,
	) (*QuickSession, error)

	// NewMasterySession loads the filtered catalog and builds a mastery
	// queue: cards cycle until answered correctly three times in a row.
	NewMasterySession(
		ctx context.Context,
		userID uuid.UUID,
		filter store.CardFilter,
	) (*adaptive.MasteryQueue, error)
}

// Common error types for StudyService
var (
	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotOwned indicates that the user does not own the card.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")

	// ErrInvalidSubmission indicates a malformed review submission.
	ErrInvalidSubmission = errors.New("invalid review submission")
)

// ServiceError wraps errors from the study service with additional context.
// Consumers differentiate failure classes with errors.As instead of string
// matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewSubmitReviewError returns a new ServiceError for the submit_review operation.
func NewSubmitReviewError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "submit_review",
		Message:   message,
		Err:       err,
	}
}

// NewPlanSessionError returns a new ServiceError for session planning operations.
func NewPlanSessionError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "plan_session",
		Message:   message,
		Err:       err,
	}
}

// NewStatsError returns a new ServiceError for the stats operations.
func NewStatsError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "stats",
		Message:   message,
		Err:       err,
	}
}

// nowFunc returns the current instant; injectable for tests.
type nowFunc func() time.Time
