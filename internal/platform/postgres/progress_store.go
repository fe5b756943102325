package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hanzideck/hanzideck-api/internal/domain"
	"github.com/hanzideck/hanzideck-api/internal/store"
)

// progressColumns is the canonical select list for card progress rows.
const progressColumns = `p.id, p.card_id, p.user_id, p.mode, p.ease_factor,
	p.interval_days, p.repetitions, p.next_review_date, p.total_reviews,
	p.correct_count, p.last_reviewed_at, p.created_at, p.updated_at`

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// WithTx implements store.ProgressStore.WithTx
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ProgressStore.Create
// Returns store.ErrProgressExists if a row for the (card, mode) pair already exists.
func (s *PostgresProgressStore) Create(ctx context.Context, progress *domain.CardProgress) error {
	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `INSERT INTO card_progress
		(id, card_id, user_id, mode, ease_factor, interval_days, repetitions,
		 next_review_date, total_reviews, correct_count, last_reviewed_at,
		 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := s.db.ExecContext(ctx, query,
		progress.ID,
		progress.CardID,
		progress.UserID,
		string(progress.Mode),
		progress.EaseFactor,
		progress.IntervalDays,
		progress.Repetitions,
		progress.NextReviewDate,
		progress.TotalReviews,
		progress.CorrectCount,
		nullableTime(progress.LastReviewedAt),
		progress.CreatedAt,
		progress.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrProgressExists
		}
		return MapError(err)
	}

	return nil
}

// Get implements store.ProgressStore.Get
// Returns store.ErrProgressNotFound if the entry does not exist.
func (s *PostgresProgressStore) Get(
	ctx context.Context,
	cardID uuid.UUID,
	mode domain.StudyMode,
) (*domain.CardProgress, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM card_progress p WHERE p.card_id = $1 AND p.mode = $2`,
		progressColumns,
	)
	return s.getProgress(ctx, query, cardID, string(mode))
}

// GetForUpdate implements store.ProgressStore.GetForUpdate
// It takes a row-level lock so concurrent reviews of the same (card, mode)
// pair serialize instead of losing an update. Must run inside a transaction.
func (s *PostgresProgressStore) GetForUpdate(
	ctx context.Context,
	cardID uuid.UUID,
	mode domain.StudyMode,
) (*domain.CardProgress, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM card_progress p WHERE p.card_id = $1 AND p.mode = $2 FOR UPDATE`,
		progressColumns,
	)
	return s.getProgress(ctx, query, cardID, string(mode))
}

func (s *PostgresProgressStore) getProgress(
	ctx context.Context,
	query string,
	args ...any,
) (*domain.CardProgress, error) {
	progress, err := scanProgress(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrProgressNotFound
		}
		return nil, MapError(err)
	}
	return progress, nil
}

// Update implements store.ProgressStore.Update
// It overwrites the scheduling fields, counters and LastReviewedAt.
// Returns store.ErrProgressNotFound if the entry does not exist.
func (s *PostgresProgressStore) Update(ctx context.Context, progress *domain.CardProgress) error {
	if err := progress.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `UPDATE card_progress SET
		ease_factor = $1,
		interval_days = $2,
		repetitions = $3,
		next_review_date = $4,
		total_reviews = $5,
		correct_count = $6,
		last_reviewed_at = $7,
		updated_at = $8
		WHERE id = $9`

	result, err := s.db.ExecContext(ctx, query,
		progress.EaseFactor,
		progress.IntervalDays,
		progress.Repetitions,
		progress.NextReviewDate,
		progress.TotalReviews,
		progress.CorrectCount,
		nullableTime(progress.LastReviewedAt),
		progress.UpdatedAt,
		progress.ID,
	)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card progress"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrProgressNotFound
		}
		// RowsAffected itself failed; that is a driver error, not a
		// missing row.
		return err
	}

	return nil
}

// GetDue implements store.ProgressStore.GetDue
// It returns due rows joined with their cards, most overdue first.
func (s *PostgresProgressStore) GetDue(
	ctx context.Context,
	userID uuid.UUID,
	mode domain.StudyMode,
	filter store.CardFilter,
	now time.Time,
	limit int,
) ([]store.DueCard, error) {
	query := fmt.Sprintf(`SELECT %s, %s
		FROM card_progress p
		JOIN cards c ON c.id = p.card_id
		WHERE p.user_id = $1 AND p.mode = $2 AND p.next_review_date <= $3`,
		progressColumns, cardColumns)
	args := []any{userID, string(mode), now}
	query, args = appendCardFilter(query, args, filter)
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY p.next_review_date ASC LIMIT $%d`, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var due []store.DueCard
	for rows.Next() {
		pair, err := scanDueCard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		due = append(due, pair)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return due, nil
}

// CountDue implements store.ProgressStore.CountDue
func (s *PostgresProgressStore) CountDue(
	ctx context.Context,
	userID uuid.UUID,
	mode domain.StudyMode,
	now time.Time,
) (int, error) {
	query := `SELECT COUNT(*) FROM card_progress p
		WHERE p.user_id = $1 AND p.mode = $2 AND p.next_review_date <= $3`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, string(mode), now).Scan(&count); err != nil {
		return 0, MapError(err)
	}

	return count, nil
}

// scanProgress reads one card progress row.
func scanProgress(row rowScanner) (*domain.CardProgress, error) {
	var (
		progress     domain.CardProgress
		mode         string
		lastReviewed sql.NullTime
	)

	err := row.Scan(
		&progress.ID,
		&progress.CardID,
		&progress.UserID,
		&mode,
		&progress.EaseFactor,
		&progress.IntervalDays,
		&progress.Repetitions,
		&progress.NextReviewDate,
		&progress.TotalReviews,
		&progress.CorrectCount,
		&lastReviewed,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	progress.Mode = domain.StudyMode(mode)
	if lastReviewed.Valid {
		progress.LastReviewedAt = lastReviewed.Time
	}

	return &progress, nil
}

// scanDueCard reads one joined (progress, card) row from GetDue.
func scanDueCard(row rowScanner) (store.DueCard, error) {
	var (
		progress     domain.CardProgress
		card         domain.Card
		mode         string
		lastReviewed sql.NullTime
		englishAlt   []byte
		tags         []byte
		example      sql.NullString
		examplePY    sql.NullString
		exampleEN    sql.NullString
		hskLevel     sql.NullInt64
		part         sql.NullInt64
		lesson       sql.NullInt64
	)

	err := row.Scan(
		&progress.ID,
		&progress.CardID,
		&progress.UserID,
		&mode,
		&progress.EaseFactor,
		&progress.IntervalDays,
		&progress.Repetitions,
		&progress.NextReviewDate,
		&progress.TotalReviews,
		&progress.CorrectCount,
		&lastReviewed,
		&progress.CreatedAt,
		&progress.UpdatedAt,
		&card.ID,
		&card.UserID,
		&card.Hanzi,
		&card.Pinyin,
		&card.PinyinDisplay,
		&card.English,
		&englishAlt,
		&example,
		&examplePY,
		&exampleEN,
		&hskLevel,
		&part,
		&lesson,
		&tags,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return store.DueCard{}, err
	}

	progress.Mode = domain.StudyMode(mode)
	if lastReviewed.Valid {
		progress.LastReviewedAt = lastReviewed.Time
	}

	if len(englishAlt) > 0 {
		if err := json.Unmarshal(englishAlt, &card.EnglishAlt); err != nil {
			return store.DueCard{}, fmt.Errorf("failed to decode english_alt: %w", err)
		}
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &card.Tags); err != nil {
			return store.DueCard{}, fmt.Errorf("failed to decode tags: %w", err)
		}
	}

	card.ExampleSentence = example.String
	card.ExamplePinyin = examplePY.String
	card.ExampleEnglish = exampleEN.String
	card.HSKLevel = int(hskLevel.Int64)
	card.TextbookPart = int(part.Int64)
	card.LessonNumber = int(lesson.Int64)

	return store.DueCard{Progress: &progress, Card: &card}, nil
}

// nullableTime converts a zero time to a SQL NULL.
func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
