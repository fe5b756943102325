package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/hanzideck/hanzideck-api/internal/domain"
)

// ReviewLogStore defines the interface for the append-only review log.
// Logs are never updated or deleted; the interface deliberately offers no
// mutation beyond Append.
// Version: 1.0
type ReviewLogStore interface {
	// Append writes one review log entry.
	Append(ctx context.Context, log *domain.ReviewLog) error

	// CountByUser returns the user's total number of logged reviews.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// ListSince retrieves the user's log entries reviewed at or after the
	// given instant, ordered ascending by review time. Feeds the activity
	// heatmap.
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*domain.ReviewLog, error)

	// WithTx returns a new ReviewLogStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewLogStore
}
