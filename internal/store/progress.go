package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/hanzideck/hanzideck-api/internal/domain"
)

// DueCard pairs a due progress record with its card, the unit the SRS
// session planner works in.
type DueCard struct {
	Progress *domain.CardProgress
	Card     *domain.Card
}

// ProgressStore defines the interface for card progress persistence.
// Progress rows are keyed by the (card, mode) pair; one row per pair.
// Version: 1.0
type ProgressStore interface {
	// Create saves a new card progress entry.
	// It handles domain validation internally.
	// Returns ErrProgressExists if a row for the (card, mode) pair already exists.
	Create(ctx context.Context, progress *domain.CardProgress) error

	// Get retrieves progress by the (card, mode) pair.
	// Returns ErrProgressNotFound if the entry does not exist.
	// NOTE: This method does NOT provide any row locking, so it should not be
	// used when you plan to update the row and need concurrency protection.
	Get(ctx context.Context, cardID uuid.UUID, mode domain.StudyMode) (*domain.CardProgress, error)

	// GetForUpdate retrieves progress with a row-level lock using SELECT FOR UPDATE.
	// This must be used within a transaction when the row will be updated:
	// concurrent reviews of the same (card, mode) pair are serialized on this
	// lock so neither update is lost.
	// Returns ErrProgressNotFound if the entry does not exist.
	GetForUpdate(ctx context.Context, cardID uuid.UUID, mode domain.StudyMode) (*domain.CardProgress, error)

	// Update overwrites the scheduling fields, counters and LastReviewedAt of
	// an existing entry, identified by its ID.
	// Returns ErrProgressNotFound if the entry does not exist.
	Update(ctx context.Context, progress *domain.CardProgress) error

	// GetDue retrieves progress rows for (user, mode) due at or before now,
	// joined with their cards, ordered ascending by next review date (most
	// overdue first) and capped at limit.
	GetDue(
		ctx context.Context,
		userID uuid.UUID,
		mode domain.StudyMode,
		filter CardFilter,
		now time.Time,
		limit int,
	) ([]DueCard, error)

	// CountDue returns the number of due rows for (user, mode) at now.
	CountDue(ctx context.Context, userID uuid.UUID, mode domain.StudyMode, now time.Time) (int, error)

	// WithTx returns a new ProgressStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) ProgressStore
}
