package study

import (
	"context"

	"github.com/google/uuid"

	"github.com/hanzideck/hanzideck-api/internal/domain"
	adaptive "github.com/hanzideck/hanzideck-api/internal/study"
)

// QuickSession is a single shuffled pass over the catalog. It wraps the
// in-memory queue and, when PersistReviews is set, routes each answer through
// SubmitReview so the pass also feeds the long-term schedule.
type QuickSession struct {
	queue   *adaptive.QuickQueue
	service StudyService
	userID  uuid.UUID
	opts    QuickOptions
}

// Current returns the card at the front of the queue, or nil when the pass is
// complete.
func (s *QuickSession) Current() *domain.Card {
	return s.queue.Current()
}

// Answer records the outcome for the current card and removes it from the
// queue. With PersistReviews set, the answer is also submitted as a review:
// correct maps to a good recall, incorrect to a failed one.
func (s *QuickSession) Answer(ctx context.Context, correct bool, responseTimeMs int) (*domain.Card, error) {
	card := s.queue.Answer(correct)
	if card == nil {
		return nil, nil
	}

	if !s.opts.PersistReviews {
		return card, nil
	}

	quality := domain.QualityWrong
	if correct {
		quality = domain.QualityGood
	}

	_, err := s.service.SubmitReview(ctx, s.userID, ReviewSubmission{
		CardID:         card.ID,
		Mode:           s.opts.Mode,
		Quality:        quality,
		ResponseTimeMs: responseTimeMs,
	})
	if err != nil {
		return card, err
	}

	return card, nil
}

// Remaining returns the number of cards still in the queue.
func (s *QuickSession) Remaining() int {
	return s.queue.Remaining()
}

// Answered returns the number of answers recorded so far.
func (s *QuickSession) Answered() int {
	return s.queue.Answered()
}

// Correct returns the number of correct answers recorded so far.
func (s *QuickSession) Correct() int {
	return s.queue.Correct()
}

// Done reports whether the pass is complete.
func (s *QuickSession) Done() bool {
	return s.queue.Done()
}
