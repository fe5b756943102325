package study

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hanzideck/hanzideck-api/internal/domain"
	"github.com/hanzideck/hanzideck-api/internal/domain/srs"
	"github.com/hanzideck/hanzideck-api/internal/store"
)

// MockCardStore is a mock implementation of the store.CardStore interface
type MockCardStore struct {
	mock.Mock
}

func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardStore) GetAllCards(
	ctx context.Context,
	userID uuid.UUID,
	filter store.CardFilter,
) ([]*domain.Card, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

func (m *MockCardStore) GetUnstudiedCards(
	ctx context.Context,
	userID uuid.UUID,
	mode domain.StudyMode,
	filter store.CardFilter,
	limit int,
) ([]*domain.Card, error) {
	args := m.Called(ctx, userID, mode, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

func (m *MockCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return m
}

// MockProgressStore is a mock implementation of the store.ProgressStore interface
type MockProgressStore struct {
	mock.Mock
}

func (m *MockProgressStore) Create(ctx context.Context, progress *domain.CardProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressStore) Get(
	ctx context.Context,
	cardID uuid.UUID,
	mode domain.StudyMode,
) (*domain.CardProgress, error) {
	args := m.Called(ctx, cardID, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardProgress), args.Error(1)
}

func (m *MockProgressStore) GetForUpdate(
	ctx context.Context,
	cardID uuid.UUID,
	mode domain.StudyMode,
) (*domain.CardProgress, error) {
	args := m.Called(ctx, cardID, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CardProgress), args.Error(1)
}

func (m *MockProgressStore) Update(ctx context.Context, progress *domain.CardProgress) error {
	args := m.Called(ctx, progress)
	return args.Error(0)
}

func (m *MockProgressStore) GetDue(
	ctx context.Context,
	userID uuid.UUID,
	mode domain.StudyMode,
	filter store.CardFilter,
	now time.Time,
	limit int,
) ([]store.DueCard, error) {
	args := m.Called(ctx, userID, mode, filter, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.DueCard), args.Error(1)
}

func (m *MockProgressStore) CountDue(
	ctx context.Context,
	userID uuid.UUID,
	mode domain.StudyMode,
	now time.Time,
) (int, error) {
	args := m.Called(ctx, userID, mode, now)
	return args.Int(0), args.Error(1)
}

func (m *MockProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return m
}

// MockReviewLogStore is a mock implementation of the store.ReviewLogStore interface
type MockReviewLogStore struct {
	mock.Mock
}

func (m *MockReviewLogStore) Append(ctx context.Context, log *domain.ReviewLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockReviewLogStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewLogStore) ListSince(
	ctx context.Context,
	userID uuid.UUID,
	since time.Time,
) ([]*domain.ReviewLog, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewLog), args.Error(1)
}

func (m *MockReviewLogStore) WithTx(tx *sql.Tx) store.ReviewLogStore {
	return m
}

// testFixture bundles the service with its collaborators.
type testFixture struct {
	service    *studyServiceImpl
	db         *sql.DB
	dbMock     sqlmock.Sqlmock
	cards      *MockCardStore
	progresses *MockProgressStore
	logs       *MockReviewLogStore
	now        time.Time
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cards := &MockCardStore{}
	progresses := &MockProgressStore{}
	logs := &MockReviewLogStore{}
	testLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc := NewStudyService(db, cards, progresses, logs, srs.NewDefaultService(), testLogger)
	impl := svc.(*studyServiceImpl)

	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	impl.now = func() time.Time { return now }
	impl.newRNG = func() *rand.Rand { return rand.New(rand.NewPCG(42, 1)) }

	return &testFixture{
		service:    impl,
		db:         db,
		dbMock:     dbMock,
		cards:      cards,
		progresses: progresses,
		logs:       logs,
		now:        now,
	}
}

func testCard(userID uuid.UUID) *domain.Card {
	return &domain.Card{
		ID:      uuid.New(),
		UserID:  userID,
		Hanzi:   "你好",
		Pinyin:  "ni3hao3",
		English: "hello",
	}
}

func TestSubmitReview_FirstReviewCreatesProgress(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	card := testCard(userID)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()

	f.cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)
	f.progresses.On("GetForUpdate", mock.Anything, card.ID, domain.StudyModeHanziToPinyin).
		Return(nil, store.ErrProgressNotFound)
	f.progresses.On("Create", mock.Anything, mock.AnythingOfType("*domain.CardProgress")).Return(nil)
	f.logs.On("Append", mock.Anything, mock.AnythingOfType("*domain.ReviewLog")).Return(nil)

	updated, err := f.service.SubmitReview(context.Background(), userID, ReviewSubmission{
		CardID:         card.ID,
		Mode:           domain.StudyModeHanziToPinyin,
		Quality:        domain.QualityGood,
		ResponseTimeMs: 1200,
	})
	require.NoError(t, err)

	// First pass: interval 1 day, streak 1, ease unchanged for quality 4.
	assert.Equal(t, 1, updated.Repetitions)
	assert.Equal(t, 1, updated.IntervalDays)
	assert.InDelta(t, 2.5, updated.EaseFactor, 1e-9)
	assert.Equal(t, 1, updated.TotalReviews)
	assert.Equal(t, 1, updated.CorrectCount)
	assert.Equal(t, f.now.AddDate(0, 0, 1), updated.NextReviewDate)

	f.progresses.AssertNumberOfCalls(t, "Create", 1)
	f.progresses.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.logs.AssertNumberOfCalls(t, "Append", 1)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestSubmitReview_ExistingProgressUpdated(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	card := testCard(userID)

	existing, err := domain.NewCardProgress(card.ID, userID, domain.StudyModeHanziToPinyin, f.now.AddDate(0, 0, -10))
	require.NoError(t, err)
	existing.Repetitions = 2
	existing.IntervalDays = 6
	existing.TotalReviews = 2
	existing.CorrectCount = 2
	existing.LastReviewedAt = f.now.AddDate(0, 0, -6)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()

	f.cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)
	f.progresses.On("GetForUpdate", mock.Anything, card.ID, domain.StudyModeHanziToPinyin).
		Return(existing, nil)
	f.progresses.On("Update", mock.Anything, mock.AnythingOfType("*domain.CardProgress")).Return(nil)
	f.logs.On("Append", mock.Anything, mock.AnythingOfType("*domain.ReviewLog")).Return(nil)

	updated, err := f.service.SubmitReview(context.Background(), userID, ReviewSubmission{
		CardID:  card.ID,
		Mode:    domain.StudyModeHanziToPinyin,
		Quality: domain.QualityPerfect,
	})
	require.NoError(t, err)

	// Third pass at quality 5: interval round(6*2.5)=15, ease 2.5+0.1.
	assert.Equal(t, 3, updated.Repetitions)
	assert.Equal(t, 15, updated.IntervalDays)
	assert.InDelta(t, 2.6, updated.EaseFactor, 1e-9)
	assert.Equal(t, 3, updated.TotalReviews)
	assert.Equal(t, 3, updated.CorrectCount)

	// The stored record is never mutated in place.
	assert.Equal(t, 2, existing.Repetitions)
	assert.Equal(t, 6, existing.IntervalDays)

	f.progresses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestSubmitReview_FailedAnswerStillLogged(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	card := testCard(userID)

	existing, err := domain.NewCardProgress(card.ID, userID, domain.StudyModeEnglishToHanzi, f.now.AddDate(0, 0, -20))
	require.NoError(t, err)
	existing.Repetitions = 3
	existing.IntervalDays = 15
	existing.TotalReviews = 3
	existing.CorrectCount = 3
	existing.LastReviewedAt = f.now.AddDate(0, 0, -15)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()

	f.cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)
	f.progresses.On("GetForUpdate", mock.Anything, card.ID, domain.StudyModeEnglishToHanzi).
		Return(existing, nil)
	f.progresses.On("Update", mock.Anything, mock.AnythingOfType("*domain.CardProgress")).Return(nil)
	f.logs.On("Append", mock.Anything, mock.MatchedBy(func(entry *domain.ReviewLog) bool {
		return !entry.WasCorrect && entry.Quality == domain.QualityWrong
	})).Return(nil)

	updated, err := f.service.SubmitReview(context.Background(), userID, ReviewSubmission{
		CardID:  card.ID,
		Mode:    domain.StudyModeEnglishToHanzi,
		Quality: domain.QualityWrong,
	})
	require.NoError(t, err)

	// Failure: streak resets, interval collapses, ease untouched, only the
	// attempt counter moves.
	assert.Equal(t, 0, updated.Repetitions)
	assert.Equal(t, 1, updated.IntervalDays)
	assert.InDelta(t, existing.EaseFactor, updated.EaseFactor, 1e-9)
	assert.Equal(t, 4, updated.TotalReviews)
	assert.Equal(t, 3, updated.CorrectCount)

	f.logs.AssertNumberOfCalls(t, "Append", 1)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestSubmitReview_CardNotFound(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	cardID := uuid.New()

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectRollback()

	f.cards.On("GetByID", mock.Anything, cardID).Return(nil, store.ErrCardNotFound)

	_, err := f.service.SubmitReview(context.Background(), userID, ReviewSubmission{
		CardID:  cardID,
		Mode:    domain.StudyModeHanziToPinyin,
		Quality: domain.QualityGood,
	})
	assert.ErrorIs(t, err, ErrCardNotFound)

	f.progresses.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything, mock.Anything)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestSubmitReview_CardNotOwned(t *testing.T) {
	f := newFixture(t)
	owner := uuid.New()
	intruder := uuid.New()
	card := testCard(owner)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectRollback()

	f.cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)

	_, err := f.service.SubmitReview(context.Background(), intruder, ReviewSubmission{
		CardID:  card.ID,
		Mode:    domain.StudyModeHanziToPinyin,
		Quality: domain.QualityGood,
	})
	assert.ErrorIs(t, err, ErrCardNotOwned)

	f.progresses.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything, mock.Anything)
	f.logs.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestSubmitReview_InvalidSubmission(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	tests := []struct {
		name       string
		submission ReviewSubmission
	}{
		{
			name: "quality out of range",
			submission: ReviewSubmission{
				CardID:  uuid.New(),
				Mode:    domain.StudyModeHanziToPinyin,
				Quality: 9,
			},
		},
		{
			name: "unknown mode",
			submission: ReviewSubmission{
				CardID:  uuid.New(),
				Mode:    "hanzi_to_klingon",
				Quality: domain.QualityGood,
			},
		},
		{
			name: "empty card ID",
			submission: ReviewSubmission{
				Mode:    domain.StudyModeHanziToPinyin,
				Quality: domain.QualityGood,
			},
		},
		{
			name: "negative response time",
			submission: ReviewSubmission{
				CardID:         uuid.New(),
				Mode:           domain.StudyModeHanziToPinyin,
				Quality:        domain.QualityGood,
				ResponseTimeMs: -1,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.SubmitReview(context.Background(), userID, tc.submission)
			assert.ErrorIs(t, err, ErrInvalidSubmission)
		})
	}

	// Validation failures never open a transaction.
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestSubmitReview_StoreFailureSurfaces(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	card := testCard(userID)

	existing, err := domain.NewCardProgress(card.ID, userID, domain.StudyModeHanziToPinyin, f.now)
	require.NoError(t, err)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectRollback()

	f.cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)
	f.progresses.On("GetForUpdate", mock.Anything, card.ID, domain.StudyModeHanziToPinyin).
		Return(existing, nil)
	f.progresses.On("Update", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	_, err = f.service.SubmitReview(context.Background(), userID, ReviewSubmission{
		CardID:  card.ID,
		Mode:    domain.StudyModeHanziToPinyin,
		Quality: domain.QualityGood,
	})
	require.Error(t, err)

	var svcErr *ServiceError
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "submit_review", svcErr.Operation)

	f.logs.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestBuildSession_DueThenNew(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	mode := domain.StudyModeHanziToPinyin

	dueA := testCard(userID)
	dueB := testCard(userID)
	newA := testCard(userID)
	newB := testCard(userID)

	due := []store.DueCard{
		{Card: dueA, Progress: &domain.CardProgress{CardID: dueA.ID}},
		{Card: dueB, Progress: &domain.CardProgress{CardID: dueB.ID}},
	}

	f.progresses.On("GetDue", mock.Anything, userID, mode, store.CardFilter{}, f.now, 20).
		Return(due, nil)
	f.cards.On("GetUnstudiedCards", mock.Anything, userID, mode, store.CardFilter{}, 10).
		Return([]*domain.Card{newA, newB}, nil)

	session, err := f.service.BuildSession(context.Background(), userID, mode, store.CardFilter{}, 20, 10)
	require.NoError(t, err)

	require.Len(t, session.Cards, 4)
	assert.Equal(t, []*domain.Card{dueA, dueB, newA, newB}, session.Cards)
	assert.Equal(t, 2, session.DueCount)
	assert.Equal(t, 2, session.NewCount)
}

func TestGetDueCards_InvalidMode(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.GetDueCards(
		context.Background(),
		uuid.New(),
		"backwards",
		store.CardFilter{},
		20,
	)
	assert.ErrorIs(t, err, ErrInvalidSubmission)
}

func TestGetStats(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	catalog := []*domain.Card{testCard(userID), testCard(userID), testCard(userID)}
	f.cards.On("GetAllCards", mock.Anything, userID, store.CardFilter{}).Return(catalog, nil)
	f.logs.On("CountByUser", mock.Anything, userID).Return(42, nil)
	f.progresses.On("CountDue", mock.Anything, userID, mock.Anything, f.now).Return(2, nil)

	stats, err := f.service.GetStats(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalCards)
	assert.Equal(t, 42, stats.TotalReviews)
	require.Len(t, stats.DueByMode, len(domain.AllStudyModes))
	for _, mode := range domain.AllStudyModes {
		assert.Equal(t, 2, stats.DueByMode[mode])
	}
}

func TestGetHeatmap(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	day := func(offset int, hour int) time.Time {
		return time.Date(2026, 8, 31+offset, hour, 0, 0, 0, time.UTC)
	}

	entries := []*domain.ReviewLog{
		{ReviewedAt: day(-2, 9), WasCorrect: true},
		{ReviewedAt: day(-1, 8), WasCorrect: true},
		{ReviewedAt: day(-1, 21), WasCorrect: false},
	}

	since := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	f.logs.On("ListSince", mock.Anything, userID, since).Return(entries, nil)

	heatmap, err := f.service.GetHeatmap(context.Background(), userID, 3)
	require.NoError(t, err)

	require.Len(t, heatmap, 3)
	assert.Equal(t, HeatmapDay{Date: "2026-08-29", Total: 1, Correct: 1}, heatmap[0])
	assert.Equal(t, HeatmapDay{Date: "2026-08-30", Total: 2, Correct: 1}, heatmap[1])
	assert.Equal(t, HeatmapDay{Date: "2026-08-31", Total: 0, Correct: 0}, heatmap[2])
}

func TestNewQuickSession_EphemeralByDefault(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	catalog := []*domain.Card{testCard(userID), testCard(userID), testCard(userID)}
	f.cards.On("GetAllCards", mock.Anything, userID, store.CardFilter{}).Return(catalog, nil)

	session, err := f.service.NewQuickSession(context.Background(), userID, store.CardFilter{}, QuickOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, session.Remaining())
	assert.False(t, session.Done())

	for !session.Done() {
		card, err := session.Answer(context.Background(), true, 800)
		require.NoError(t, err)
		require.NotNil(t, card)
	}

	assert.Equal(t, 3, session.Answered())
	assert.Equal(t, 3, session.Correct())

	// No answer touched storage.
	f.logs.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	f.progresses.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestNewQuickSession_PersistReviewsRoutesAnswers(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	card := testCard(userID)

	f.cards.On("GetAllCards", mock.Anything, userID, store.CardFilter{}).
		Return([]*domain.Card{card}, nil)

	session, err := f.service.NewQuickSession(context.Background(), userID, store.CardFilter{}, QuickOptions{
		Mode:           domain.StudyModePinyinToEnglish,
		PersistReviews: true,
	})
	require.NoError(t, err)

	f.dbMock.ExpectBegin()
	f.dbMock.ExpectCommit()

	f.cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)
	f.progresses.On("GetForUpdate", mock.Anything, card.ID, domain.StudyModePinyinToEnglish).
		Return(nil, store.ErrProgressNotFound)
	f.progresses.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.logs.On("Append", mock.Anything, mock.MatchedBy(func(entry *domain.ReviewLog) bool {
		return entry.Quality == domain.QualityGood && entry.WasCorrect
	})).Return(nil)

	answered, err := session.Answer(context.Background(), true, 950)
	require.NoError(t, err)
	assert.Equal(t, card, answered)
	assert.True(t, session.Done())

	f.logs.AssertNumberOfCalls(t, "Append", 1)
	assert.NoError(t, f.dbMock.ExpectationsWereMet())
}

func TestNewQuickSession_SessionsGetIndependentGenerators(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	catalog := make([]*domain.Card, 5)
	for i := range catalog {
		catalog[i] = testCard(userID)
	}
	f.cards.On("GetAllCards", mock.Anything, userID, store.CardFilter{}).Return(catalog, nil)

	first, err := f.service.NewQuickSession(context.Background(), userID, store.CardFilter{}, QuickOptions{})
	require.NoError(t, err)
	second, err := f.service.NewQuickSession(context.Background(), userID, store.CardFilter{}, QuickOptions{})
	require.NoError(t, err)

	// The fixture seeds every generator identically, so two sessions shuffle
	// into the same order only if each one gets its own generator. A shared
	// generator would leave the second shuffle consuming advanced state.
	drain := func(session *QuickSession) []uuid.UUID {
		var order []uuid.UUID
		for !session.Done() {
			card, err := session.Answer(context.Background(), true, 500)
			require.NoError(t, err)
			order = append(order, card.ID)
		}
		return order
	}
	assert.Equal(t, drain(first), drain(second))
}

func TestNewQuickSession_ConcurrentBuilds(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	catalog := make([]*domain.Card, 5)
	for i := range catalog {
		catalog[i] = testCard(userID)
	}
	f.cards.On("GetAllCards", mock.Anything, userID, store.CardFilter{}).Return(catalog, nil)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				session, err := f.service.NewQuickSession(
					context.Background(),
					userID,
					store.CardFilter{},
					QuickOptions{},
				)
				if err != nil {
					t.Error(err)
					return
				}
				for !session.Done() {
					if _, err := session.Answer(context.Background(), true, 500); err != nil {
						t.Error(err)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

func TestNewQuickSession_PersistRequiresValidMode(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.NewQuickSession(context.Background(), uuid.New(), store.CardFilter{}, QuickOptions{
		PersistReviews: true,
	})
	assert.ErrorIs(t, err, ErrInvalidSubmission)
}

func TestNewMasterySession(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()

	catalog := []*domain.Card{testCard(userID), testCard(userID)}
	f.cards.On("GetAllCards", mock.Anything, userID, store.CardFilter{}).Return(catalog, nil)

	queue, err := f.service.NewMasterySession(context.Background(), userID, store.CardFilter{})
	require.NoError(t, err)

	assert.Equal(t, 2, queue.Remaining())
	assert.False(t, queue.Done())
}
