package study

import (
	"math/rand/v2"

	"github.com/hanzideck/hanzideck-api/internal/domain"
)

// MasteryThreshold is the number of correct answers, without an intervening
// failure, required to retire a card from a mastery session.
const MasteryThreshold = 3

// Reinsertion offset ranges. A card comes back sooner the less often it has
// been answered correctly; a miss brings it back almost immediately. The
// widening offsets are an in-session analogue of spaced repetition.
const (
	missOffsetBase    = 1
	missOffsetSpread  = 2 // offset in [1,2]
	firstOffsetBase   = 2
	firstOffsetSpread = 3 // offset in [2,4]
	laterOffsetBase   = 4
	laterOffsetSpread = 5 // offset in [4,8]
)

type masteryEntry struct {
	card    *domain.Card
	correct int // local streak, separate from persisted progress
}

// MasteryQueue cycles cards until each has been answered correctly
// MasteryThreshold times without an intervening failure. Answered cards are
// reinserted at a pseudo-random offset that widens with the local streak;
// a miss resets the streak and brings the card back near the front.
type MasteryQueue struct {
	entries  []masteryEntry
	rng      *rand.Rand
	mastered []*domain.Card
	answered int
}

// NewMasteryQueue builds a mastery queue from the given cards, shuffled once
// with the provided random source. The input slice is not modified.
func NewMasteryQueue(cards []*domain.Card, rng *rand.Rand) *MasteryQueue {
	entries := make([]masteryEntry, len(cards))
	for i, card := range cards {
		entries[i] = masteryEntry{card: card}
	}
	rng.Shuffle(len(entries), func(i, j int) {
		entries[i], entries[j] = entries[j], entries[i]
	})

	return &MasteryQueue{entries: entries, rng: rng}
}

// Current returns the card at the front of the queue, or nil when the queue
// is exhausted.
func (q *MasteryQueue) Current() *domain.Card {
	if len(q.entries) == 0 {
		return nil
	}
	return q.entries[0].card
}

// Streak returns the local correct streak of the current card.
func (q *MasteryQueue) Streak() int {
	if len(q.entries) == 0 {
		return 0
	}
	return q.entries[0].correct
}

// Answer records the outcome for the current card. A correct answer advances
// the card's streak and retires it at MasteryThreshold; otherwise the card is
// reinserted further down the queue. A miss resets the streak and reinserts
// the card near the front.
func (q *MasteryQueue) Answer(correct bool) {
	if len(q.entries) == 0 {
		return
	}

	entry := q.entries[0]
	q.entries = q.entries[1:]
	q.answered++

	if correct {
		entry.correct++
		if entry.correct >= MasteryThreshold {
			q.mastered = append(q.mastered, entry.card)
			return
		}
		q.reinsert(entry, q.successOffset(entry.correct))
		return
	}

	entry.correct = 0
	q.reinsert(entry, missOffsetBase+q.rng.IntN(missOffsetSpread))
}

// successOffset picks the reinsertion distance after a correct answer:
// closer after the first success, farther after the second.
func (q *MasteryQueue) successOffset(streak int) int {
	if streak == 1 {
		return firstOffsetBase + q.rng.IntN(firstOffsetSpread)
	}
	return laterOffsetBase + q.rng.IntN(laterOffsetSpread)
}

// reinsert places the entry offset positions from the front, clamped to the
// queue tail.
func (q *MasteryQueue) reinsert(entry masteryEntry, offset int) {
	if offset > len(q.entries) {
		offset = len(q.entries)
	}

	q.entries = append(q.entries, masteryEntry{})
	copy(q.entries[offset+1:], q.entries[offset:])
	q.entries[offset] = entry
}

// Remaining returns the number of cards still cycling in the queue.
func (q *MasteryQueue) Remaining() int {
	return len(q.entries)
}

// Answered returns the number of answers recorded so far.
func (q *MasteryQueue) Answered() int {
	return q.answered
}

// Mastered returns the retired cards in the order they were mastered.
func (q *MasteryQueue) Mastered() []*domain.Card {
	return q.mastered
}

// Done reports whether the session is complete: the queue is empty and at
// least one card was actually worked through. An empty catalog never reports
// done.
func (q *MasteryQueue) Done() bool {
	return len(q.entries) == 0 && q.answered > 0
}
