package study

import (
	"math/rand/v2"

	"github.com/hanzideck/hanzideck-api/internal/domain"
)

// QuickQueue is a single shuffled pass over a card set. Every card is seen
// exactly once; an answer removes the card regardless of correctness, so a
// queue of N cards terminates after exactly N answers.
type QuickQueue struct {
	cards    []*domain.Card
	answered int
	correct  int
}

// NewQuickQueue builds a quick-review queue from the given cards, shuffled
// once with the provided random source. The input slice is not modified.
func NewQuickQueue(cards []*domain.Card, rng *rand.Rand) *QuickQueue {
	queue := make([]*domain.Card, len(cards))
	copy(queue, cards)
	rng.Shuffle(len(queue), func(i, j int) {
		queue[i], queue[j] = queue[j], queue[i]
	})

	return &QuickQueue{cards: queue}
}

// Current returns the card at the front of the queue, or nil when the queue
// is exhausted.
func (q *QuickQueue) Current() *domain.Card {
	if len(q.cards) == 0 {
		return nil
	}
	return q.cards[0]
}

// Answer records the outcome for the current card and removes it from the
// queue. Returns the answered card, or nil if the queue was already empty.
func (q *QuickQueue) Answer(correct bool) *domain.Card {
	if len(q.cards) == 0 {
		return nil
	}

	card := q.cards[0]
	q.cards = q.cards[1:]
	q.answered++
	if correct {
		q.correct++
	}
	return card
}

// Remaining returns the number of cards still in the queue.
func (q *QuickQueue) Remaining() int {
	return len(q.cards)
}

// Answered returns the number of answers recorded so far.
func (q *QuickQueue) Answered() int {
	return q.answered
}

// Correct returns the number of correct answers recorded so far.
func (q *QuickQueue) Correct() int {
	return q.correct
}

// Done reports whether the pass is complete.
func (q *QuickQueue) Done() bool {
	return len(q.cards) == 0
}
