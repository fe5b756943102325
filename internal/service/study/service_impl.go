package study

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/hanzideck/hanzideck-api/internal/domain"
	"github.com/hanzideck/hanzideck-api/internal/domain/srs"
	"github.com/hanzideck/hanzideck-api/internal/platform/logger"
	"github.com/hanzideck/hanzideck-api/internal/store"
	adaptive "github.com/hanzideck/hanzideck-api/internal/study"
)

// Verify interface compliance at compile time
var _ StudyService = (*studyServiceImpl)(nil)

// studyServiceImpl implements the StudyService interface.
type studyServiceImpl struct {
	db            *sql.DB
	cardStore     store.CardStore
	progressStore store.ProgressStore
	logStore      store.ReviewLogStore
	srsService    srs.Service
	logger        *slog.Logger
	newRNG        func() *rand.Rand
	now           nowFunc
}

// NewStudyService creates a new StudyService implementation.
// The db handle is used to open the transaction that wraps each SubmitReview.
func NewStudyService(
	db *sql.DB,
	cardStore store.CardStore,
	progressStore store.ProgressStore,
	logStore store.ReviewLogStore,
	srsService srs.Service,
	logger *slog.Logger,
) StudyService {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if progressStore == nil {
		panic("progressStore cannot be nil")
	}
	if logStore == nil {
		panic("logStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &studyServiceImpl{
		db:            db,
		cardStore:     cardStore,
		progressStore: progressStore,
		logStore:      logStore,
		srsService:    srsService,
		logger:        logger.With(slog.String("component", "study_service")),
		// Each session gets its own generator: rand.Rand is not safe for
		// concurrent use, and sessions outlive the call that builds them.
		newRNG: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// GetDueCards implements StudyService.GetDueCards.
func (s *studyServiceImpl) GetDueCards(
	ctx context.Context,
	userID uuid.UUID,
	mode domain.StudyMode,
	filter store.CardFilter,
	limit int,
) ([]store.DueCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := mode.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	due, err := s.progressStore.GetDue(ctx, userID, mode, filter, s.now(), limit)
	if err != nil {
		log.Error("failed to get due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("mode", string(mode)))
		return nil, NewPlanSessionError("failed to get due cards", err)
	}

	return due, nil
}

// GetNewCards implements StudyService.GetNewCards.
func (s *studyServiceImpl) GetNewCards(
	ctx context.Context,
	userID uuid.UUID,
	mode domain.StudyMode,
	filter store.CardFilter,
	limit int,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := mode.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
	}

	cards, err := s.cardStore.GetUnstudiedCards(ctx, userID, mode, filter, limit)
	if err != nil {
		log.Error("failed to get new cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("mode", string(mode)))
		return nil, NewPlanSessionError("failed to get new cards", err)
	}

	return cards, nil
}

// BuildSession implements StudyService.BuildSession.
// The queue is due cards followed by new cards, concatenated once. It is not
// reordered afterwards: a card answered incorrectly stays answered and comes
// back in a later session through its shortened interval.
func (s *studyServiceImpl) BuildSession(
	ctx context.Context,
	userID uuid.UUID,
	mode domain.StudyMode,
	filter store.CardFilter,
	dueLimit, newLimit int,
) (*Session, error) {
	due, err := s.GetDueCards(ctx, userID, mode, filter, dueLimit)
	if err != nil {
		return nil, err
	}

	fresh, err := s.GetNewCards(ctx, userID, mode, filter, newLimit)
	if err != nil {
		return nil, err
	}

	cards := make([]*domain.Card, 0, len(due)+len(fresh))
	for _, pair := range due {
		cards = append(cards, pair.Card)
	}
	cards = append(cards, fresh...)

	return &Session{
		Cards:    cards,
		DueCount: len(due),
		NewCount: len(fresh),
	}, nil
}

// SubmitReview implements StudyService.SubmitReview.
// It applies one review outcome inside a single transaction.
func (s *studyServiceImpl) SubmitReview(
	ctx context.Context,
	userID uuid.UUID,
	submission ReviewSubmission,
) (*domain.CardProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := submission.Validate(); err != nil {
		log.Warn("invalid review submission",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	now := s.now()

	var updated *domain.CardProgress
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cardStore.WithTx(tx)
		progresses := s.progressStore.WithTx(tx)
		logs := s.logStore.WithTx(tx)

		// Verify the card exists and belongs to the user.
		card, err := cards.GetByID(ctx, submission.CardID)
		if err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				log.Warn("card not found for review",
					slog.String("user_id", userID.String()),
					slog.String("card_id", submission.CardID.String()))
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to get card: %w", err)
		}
		if card.UserID != userID {
			log.Warn("user does not own card",
				slog.String("user_id", userID.String()),
				slog.String("card_id", submission.CardID.String()),
				slog.String("owner_id", card.UserID.String()))
			return ErrCardNotOwned
		}

		// Get the progress row under a lock, or create it on first contact.
		// The lock serializes concurrent reviews of the same (card, mode)
		// pair; the unique constraint backs up the create path.
		created := false
		progress, err := progresses.GetForUpdate(ctx, submission.CardID, submission.Mode)
		if err != nil {
			if !errors.Is(err, store.ErrProgressNotFound) {
				return fmt.Errorf("failed to get progress: %w", err)
			}
			created = true
			progress, err = domain.NewCardProgress(submission.CardID, userID, submission.Mode, now)
			if err != nil {
				return fmt.Errorf("failed to create new progress: %w", err)
			}
		}

		// Advance the schedule.
		next, err := s.srsService.CalculateNextReview(progress, submission.Quality, now)
		if err != nil {
			return fmt.Errorf("failed to calculate next review: %w", err)
		}

		if created {
			if err := progresses.Create(ctx, next); err != nil {
				return fmt.Errorf("failed to create progress: %w", err)
			}
		} else {
			if err := progresses.Update(ctx, next); err != nil {
				return fmt.Errorf("failed to update progress: %w", err)
			}
		}

		// Exactly one log entry per answer, failures included.
		entry, err := domain.NewReviewLog(
			next.ID,
			userID,
			submission.Quality,
			submission.ResponseTimeMs,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to build review log: %w", err)
		}
		if err := logs.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to append review log: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		// Pass service errors through unchanged.
		if errors.Is(err, ErrCardNotFound) ||
			errors.Is(err, ErrCardNotOwned) ||
			errors.Is(err, ErrInvalidSubmission) {
			return nil, err
		}

		log.Error("failed to submit review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", submission.CardID.String()))
		return nil, NewSubmitReviewError("failed to submit review", err)
	}

	log.Debug("processed review",
		slog.String("user_id", userID.String()),
		slog.String("card_id", submission.CardID.String()),
		slog.String("mode", string(submission.Mode)),
		slog.Int("quality", int(submission.Quality)),
		slog.Float64("ease_factor", updated.EaseFactor),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Time("next_review_date", updated.NextReviewDate))

	return updated, nil
}

// GetStats implements StudyService.GetStats.
func (s *studyServiceImpl) GetStats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	cards, err := s.cardStore.GetAllCards(ctx, userID, store.CardFilter{})
	if err != nil {
		log.Error("failed to count cards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewStatsError("failed to count cards", err)
	}

	total, err := s.logStore.CountByUser(ctx, userID)
	if err != nil {
		log.Error("failed to count reviews",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewStatsError("failed to count reviews", err)
	}

	dueByMode := make(map[domain.StudyMode]int, len(domain.AllStudyModes))
	for _, mode := range domain.AllStudyModes {
		count, err := s.progressStore.CountDue(ctx, userID, mode, now)
		if err != nil {
			log.Error("failed to count due cards",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()),
				slog.String("mode", string(mode)))
			return nil, NewStatsError("failed to count due cards", err)
		}
		dueByMode[mode] = count
	}

	return &Stats{
		TotalCards:   len(cards),
		TotalReviews: total,
		DueByMode:    dueByMode,
	}, nil
}

// GetHeatmap implements StudyService.GetHeatmap.
// Days are bucketed in UTC; every day in the window appears, zero-filled.
func (s *studyServiceImpl) GetHeatmap(
	ctx context.Context,
	userID uuid.UUID,
	days int,
) ([]HeatmapDay, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if days < 1 {
		days = 1
	}

	today := s.now().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	entries, err := s.logStore.ListSince(ctx, userID, since)
	if err != nil {
		log.Error("failed to list review logs",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewStatsError("failed to list review logs", err)
	}

	heatmap := make([]HeatmapDay, days)
	index := make(map[string]int, days)
	for i := range heatmap {
		date := since.AddDate(0, 0, i).Format("2006-01-02")
		heatmap[i] = HeatmapDay{Date: date}
		index[date] = i
	}

	for _, entry := range entries {
		date := entry.ReviewedAt.UTC().Format("2006-01-02")
		i, ok := index[date]
		if !ok {
			continue
		}
		heatmap[i].Total++
		if entry.WasCorrect {
			heatmap[i].Correct++
		}
	}

	return heatmap, nil
}

// NewQuickSession implements StudyService.NewQuickSession.
func (s *studyServiceImpl) NewQuickSession(
	ctx context.Context,
	userID uuid.UUID,
	filter store.CardFilter,
	opts QuickOptions,
) (*QuickSession, error) {
	if opts.PersistReviews {
		if err := opts.Mode.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSubmission, err)
		}
	}

	cards, err := s.loadCatalog(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	return &QuickSession{
		queue:   adaptive.NewQuickQueue(cards, s.newRNG()),
		service: s,
		userID:  userID,
		opts:    opts,
	}, nil
}

// NewMasterySession implements StudyService.NewMasterySession.
func (s *studyServiceImpl) NewMasterySession(
	ctx context.Context,
	userID uuid.UUID,
	filter store.CardFilter,
) (*adaptive.MasteryQueue, error) {
	cards, err := s.loadCatalog(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	return adaptive.NewMasteryQueue(cards, s.newRNG()), nil
}

// loadCatalog fetches the user's filtered card set for the non-SRS policies.
func (s *studyServiceImpl) loadCatalog(
	ctx context.Context,
	userID uuid.UUID,
	filter store.CardFilter,
) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cardStore.GetAllCards(ctx, userID, filter)
	if err != nil {
		log.Error("failed to load card catalog",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewPlanSessionError("failed to load card catalog", err)
	}

	return cards, nil
}
