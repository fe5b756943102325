package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/hanzideck/hanzideck-api/internal/domain"
	"github.com/hanzideck/hanzideck-api/internal/store"
)

// cardColumns is the canonical select list for cards, shared by every query
// that scans a full card row.
const cardColumns = `c.id, c.user_id, c.hanzi, c.pinyin, c.pinyin_display, c.english,
	c.english_alt, c.example_sentence, c.example_pinyin, c.example_english,
	c.hsk_level, c.textbook_part, c.lesson_number, c.tags, c.created_at, c.updated_at`

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// GetByID implements store.CardStore.GetByID
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := fmt.Sprintf(`SELECT %s FROM cards c WHERE c.id = $1`, cardColumns)

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrCardNotFound
		}
		return nil, MapError(err)
	}

	return card, nil
}

// GetAllCards implements store.CardStore.GetAllCards
// It retrieves the user's full catalog scoped by filter, in insertion order.
func (s *PostgresCardStore) GetAllCards(
	ctx context.Context,
	userID uuid.UUID,
	filter store.CardFilter,
) ([]*domain.Card, error) {
	query := fmt.Sprintf(`SELECT %s FROM cards c WHERE c.user_id = $1`, cardColumns)
	args := []any{userID}
	query, args = appendCardFilter(query, args, filter)
	query += ` ORDER BY c.created_at ASC`

	return s.queryCards(ctx, query, args...)
}

// GetUnstudiedCards implements store.CardStore.GetUnstudiedCards
// It retrieves cards with no progress row yet for the given mode, in catalog
// insertion order, capped at limit.
func (s *PostgresCardStore) GetUnstudiedCards(
	ctx context.Context,
	userID uuid.UUID,
	mode domain.StudyMode,
	filter store.CardFilter,
	limit int,
) ([]*domain.Card, error) {
	query := fmt.Sprintf(`SELECT %s FROM cards c
		WHERE c.user_id = $1
		AND NOT EXISTS (
			SELECT 1 FROM card_progress p
			WHERE p.card_id = c.id AND p.mode = $2
		)`, cardColumns)
	args := []any{userID, string(mode)}
	query, args = appendCardFilter(query, args, filter)
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY c.created_at ASC LIMIT $%d`, len(args))

	return s.queryCards(ctx, query, args...)
}

// queryCards runs a card select and scans all rows.
func (s *PostgresCardStore) queryCards(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Card, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}

// appendCardFilter adds the catalog filter conditions to a card query whose
// card table is aliased as "c". Returns the extended query and args.
func appendCardFilter(query string, args []any, filter store.CardFilter) (string, []any) {
	if filter.TextbookPart != nil {
		args = append(args, *filter.TextbookPart)
		query += fmt.Sprintf(` AND c.textbook_part = $%d`, len(args))
	}
	if filter.LessonNumber != nil {
		args = append(args, *filter.LessonNumber)
		query += fmt.Sprintf(` AND c.lesson_number = $%d`, len(args))
	}
	if filter.FolderID != nil {
		args = append(args, *filter.FolderID)
		query += fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM folder_cards fc
			WHERE fc.card_id = c.id AND fc.folder_id = $%d
		)`, len(args))
	}
	return query, args
}

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCard reads one card row. english_alt and tags are stored as JSONB
// arrays of strings.
func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card       domain.Card
		englishAlt []byte
		tags       []byte
		example    sql.NullString
		examplePY  sql.NullString
		exampleEN  sql.NullString
		hskLevel   sql.NullInt64
		part       sql.NullInt64
		lesson     sql.NullInt64
	)

	err := row.Scan(
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
		return nil, err
	}

	if len(englishAlt) > 0 {
		if err := json.Unmarshal(englishAlt, &card.EnglishAlt); err != nil {
			return nil, fmt.Errorf("failed to decode english_alt: %w", err)
		}
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &card.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
	}

	card.ExampleSentence = example.String
	card.ExamplePinyin = examplePY.String
	card.ExampleEnglish = exampleEN.String
	card.HSKLevel = int(hskLevel.Int64)
	card.TextbookPart = int(part.Int64)
	card.LessonNumber = int(lesson.Int64)

	return &card, nil
}
