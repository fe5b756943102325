package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanzideck/hanzideck-api/internal/domain"
	"github.com/hanzideck/hanzideck-api/internal/domain/srs"
	"github.com/hanzideck/hanzideck-api/internal/store"
)

// progressRowColumns mirrors progressColumns; sqlmock matches on position,
// the names are for readability only.
var progressRowColumns = []string{
	"id", "card_id", "user_id", "mode", "ease_factor", "interval_days",
	"repetitions", "next_review_date", "total_reviews", "correct_count",
	"last_reviewed_at", "created_at", "updated_at",
}

var cardRowColumns = []string{
	"c_id", "c_user_id", "hanzi", "pinyin", "pinyin_display", "english",
	"english_alt", "example_sentence", "example_pinyin", "example_english",
	"hsk_level", "textbook_part", "lesson_number", "tags", "c_created_at",
	"c_updated_at",
}

func newProgressStoreFixture(t *testing.T) (*PostgresProgressStore, sqlmock.Sqlmock) {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresProgressStore(db, testLogger), dbMock
}

func progressRowValues(p *domain.CardProgress) []driver.Value {
	var lastReviewed driver.Value
	if !p.LastReviewedAt.IsZero() {
		lastReviewed = p.LastReviewedAt
	}
	return []driver.Value{
		p.ID.String(), p.CardID.String(), p.UserID.String(), string(p.Mode),
		p.EaseFactor, p.IntervalDays, p.Repetitions, p.NextReviewDate,
		p.TotalReviews, p.CorrectCount, lastReviewed, p.CreatedAt, p.UpdatedAt,
	}
}

func TestProgressStoreGet_RoundTripThroughAdvance(t *testing.T) {
	progressStore, dbMock := newProgressStoreFixture(t)
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	original := &domain.CardProgress{
		ID:             uuid.New(),
		CardID:         uuid.New(),
		UserID:         uuid.New(),
		Mode:           domain.StudyModeHanziToPinyin,
		EaseFactor:     2.36,
		IntervalDays:   6,
		Repetitions:    2,
		NextReviewDate: now.AddDate(0, 0, -1),
		TotalReviews:   5,
		CorrectCount:   4,
		LastReviewedAt: now.AddDate(0, 0, -7),
		CreatedAt:      now.AddDate(0, 0, -30),
		UpdatedAt:      now.AddDate(0, 0, -7),
	}

	dbMock.ExpectQuery(`(?s)SELECT .+ FROM card_progress p WHERE p\.card_id = \$1 AND p\.mode = \$2$`).
		WithArgs(original.CardID, string(original.Mode)).
		WillReturnRows(sqlmock.NewRows(progressRowColumns).AddRow(progressRowValues(original)...))

	loaded, err := progressStore.Get(context.Background(), original.CardID, original.Mode)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)

	// A reloaded record must schedule exactly like the in-memory one.
	params := srs.NewDefaultParams()
	fromOriginal := srs.Advance(
		domain.QualityGood,
		original.EaseFactor,
		original.IntervalDays,
		original.Repetitions,
		now,
		params,
	)
	fromLoaded := srs.Advance(
		domain.QualityGood,
		loaded.EaseFactor,
		loaded.IntervalDays,
		loaded.Repetitions,
		now,
		params,
	)
	assert.Equal(t, fromOriginal, fromLoaded)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestProgressStoreGet_NullLastReviewedScansAsNever(t *testing.T) {
	progressStore, dbMock := newProgressStoreFixture(t)
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	fresh, err := domain.NewCardProgress(uuid.New(), uuid.New(), domain.StudyModeEnglishToHanzi, now)
	require.NoError(t, err)

	dbMock.ExpectQuery(`(?s)SELECT .+ FROM card_progress p`).
		WithArgs(fresh.CardID, string(fresh.Mode)).
		WillReturnRows(sqlmock.NewRows(progressRowColumns).AddRow(progressRowValues(fresh)...))

	loaded, err := progressStore.Get(context.Background(), fresh.CardID, fresh.Mode)
	require.NoError(t, err)

	assert.True(t, loaded.LastReviewedAt.IsZero())
	assert.True(t, loaded.NeverReviewed())
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestProgressStoreGet_NotFound(t *testing.T) {
	progressStore, dbMock := newProgressStoreFixture(t)

	dbMock.ExpectQuery(`(?s)SELECT .+ FROM card_progress p`).
		WillReturnError(sql.ErrNoRows)

	_, err := progressStore.Get(context.Background(), uuid.New(), domain.StudyModeHanziToPinyin)
	assert.ErrorIs(t, err, store.ErrProgressNotFound)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestProgressStoreGetForUpdate_TakesRowLock(t *testing.T) {
	progressStore, dbMock := newProgressStoreFixture(t)
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	existing, err := domain.NewCardProgress(uuid.New(), uuid.New(), domain.StudyModeHanziToPinyin, now)
	require.NoError(t, err)

	dbMock.ExpectQuery(`(?s)WHERE p\.card_id = \$1 AND p\.mode = \$2 FOR UPDATE$`).
		WithArgs(existing.CardID, string(existing.Mode)).
		WillReturnRows(sqlmock.NewRows(progressRowColumns).AddRow(progressRowValues(existing)...))

	loaded, err := progressStore.GetForUpdate(context.Background(), existing.CardID, existing.Mode)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, loaded.ID)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestProgressStoreGetDue_FilterPlaceholdersAndScan(t *testing.T) {
	progressStore, dbMock := newProgressStoreFixture(t)
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	userID := uuid.New()
	folderID := uuid.New()
	part := 1
	lesson := 12

	progress := &domain.CardProgress{
		ID:             uuid.New(),
		CardID:         uuid.New(),
		UserID:         userID,
		Mode:           domain.StudyModeHanziToPinyin,
		EaseFactor:     2.5,
		IntervalDays:   6,
		Repetitions:    2,
		NextReviewDate: now.AddDate(0, 0, -1),
		TotalReviews:   2,
		CorrectCount:   2,
		LastReviewedAt: now.AddDate(0, 0, -6),
		CreatedAt:      now.AddDate(0, 0, -20),
		UpdatedAt:      now.AddDate(0, 0, -6),
	}

	rowValues := append(progressRowValues(progress), []driver.Value{
		progress.CardID.String(), userID.String(), "你好", "ni3hao3", "nǐ hǎo",
		"hello", []byte(`["hi there"]`), "你好吗？", "ni3 hao3 ma", "how are you",
		int64(3), int64(part), int64(lesson), []byte(`["greeting"]`),
		now.AddDate(0, 0, -20), now.AddDate(0, 0, -6),
	}...)

	// Each filter clause must pick up the next placeholder, with the limit
	// numbered last.
	dbMock.ExpectQuery(`(?s)p\.next_review_date <= \$3` +
		`.+c\.textbook_part = \$4` +
		`.+c\.lesson_number = \$5` +
		`.+fc\.folder_id = \$6` +
		`.+ORDER BY p\.next_review_date ASC LIMIT \$7$`).
		WithArgs(userID, string(domain.StudyModeHanziToPinyin), now, part, lesson, folderID, 20).
		WillReturnRows(sqlmock.NewRows(append(progressRowColumns, cardRowColumns...)).AddRow(rowValues...))

	due, err := progressStore.GetDue(
		context.Background(),
		userID,
		domain.StudyModeHanziToPinyin,
		store.CardFilter{TextbookPart: &part, LessonNumber: &lesson, FolderID: &folderID},
		now,
		20,
	)
	require.NoError(t, err)
	require.Len(t, due, 1)

	assert.Equal(t, progress, due[0].Progress)
	assert.Equal(t, "你好", due[0].Card.Hanzi)
	assert.Equal(t, []string{"hi there"}, due[0].Card.EnglishAlt)
	assert.Equal(t, []string{"greeting"}, due[0].Card.Tags)
	assert.Equal(t, 3, due[0].Card.HSKLevel)
	assert.Equal(t, part, due[0].Card.TextbookPart)
	assert.Equal(t, lesson, due[0].Card.LessonNumber)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestProgressStoreUpdate_MissingRow(t *testing.T) {
	progressStore, dbMock := newProgressStoreFixture(t)
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	progress, err := domain.NewCardProgress(uuid.New(), uuid.New(), domain.StudyModeHanziToPinyin, now)
	require.NoError(t, err)

	dbMock.ExpectExec(`UPDATE card_progress SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = progressStore.Update(context.Background(), progress)
	assert.ErrorIs(t, err, store.ErrProgressNotFound)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestProgressStoreUpdate_RowsAffectedFailureIsNotMissingRow(t *testing.T) {
	progressStore, dbMock := newProgressStoreFixture(t)
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	progress, err := domain.NewCardProgress(uuid.New(), uuid.New(), domain.StudyModeHanziToPinyin, now)
	require.NoError(t, err)

	driverErr := errors.New("rows affected unavailable")
	dbMock.ExpectExec(`UPDATE card_progress SET`).
		WillReturnResult(sqlmock.NewErrorResult(driverErr))

	err = progressStore.Update(context.Background(), progress)
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrProgressNotFound)
	assert.ErrorIs(t, err, driverErr)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
