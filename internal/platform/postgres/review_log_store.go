package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hanzideck/hanzideck-api/internal/domain"
	"github.com/hanzideck/hanzideck-api/internal/store"
)

// PostgresReviewLogStore implements the store.ReviewLogStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReviewLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReviewLogStore creates a new PostgreSQL implementation of the ReviewLogStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReviewLogStore(db store.DBTX, logger *slog.Logger) *PostgresReviewLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReviewLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_log_store")),
	}
}

// Ensure PostgresReviewLogStore implements store.ReviewLogStore interface
var _ store.ReviewLogStore = (*PostgresReviewLogStore)(nil)

// WithTx implements store.ReviewLogStore.WithTx
func (s *PostgresReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return &PostgresReviewLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// Append implements store.ReviewLogStore.Append
func (s *PostgresReviewLogStore) Append(ctx context.Context, log *domain.ReviewLog) error {
	if err := log.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO review_logs
		(id, card_progress_id, user_id, quality, response_time_ms, was_correct, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		log.ID,
		log.CardProgressID,
		log.UserID,
		int(log.Quality),
		log.ResponseTimeMs,
		log.WasCorrect,
		log.ReviewedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// CountByUser implements store.ReviewLogStore.CountByUser
func (s *PostgresReviewLogStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM review_logs WHERE user_id = $1`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, MapError(err)
	}

	return count, nil
}

// ListSince implements store.ReviewLogStore.ListSince
func (s *PostgresReviewLogStore) ListSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]*domain.ReviewLog, error) {
	query := `SELECT id, card_progress_id, user_id, quality, response_time_ms, was_correct, reviewed_at
		FROM review_logs
		WHERE user_id = $1 AND reviewed_at >= $2
		ORDER BY reviewed_at ASC`

	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var logs []*domain.ReviewLog
	for rows.Next() {
		var (
			log     domain.ReviewLog
			quality int
		)
		err := rows.Scan(
			&log.ID,
			&log.CardProgressID,
			&log.UserID,
			&quality,
			&log.ResponseTimeMs,
			&log.WasCorrect,
			&log.ReviewedAt,
		)
		if err != nil {
			return nil, MapError(err)
		}
		log.Quality = domain.Quality(quality)
		logs = append(logs, &log)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return logs, nil
}
