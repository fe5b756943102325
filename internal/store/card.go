package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/hanzideck/hanzideck-api/internal/domain"
)

// CardStore defines the read interface over the card catalog. The catalog is
// pre-seeded and owned elsewhere; the scheduling core only selects from it.
// Version: 1.0
type CardStore interface {
	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetAllCards retrieves the user's full catalog scoped by filter, in
	// catalog insertion order. Used by the non-SRS session policies.
	GetAllCards(ctx context.Context, userID uuid.UUID, filter CardFilter) ([]*domain.Card, error)

	// GetUnstudiedCards retrieves cards matching the filter that have no
	// progress row yet for the given mode, in catalog insertion order,
	// capped at limit. These are the "new" cards of an SRS session.
	GetUnstudiedCards(
		ctx context.Context,
		userID uuid.UUID,
		mode domain.StudyMode,
		filter CardFilter,
		limit int,
	) ([]*domain.Card, error)

	// WithTx returns a new CardStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) CardStore
}
