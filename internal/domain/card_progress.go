package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Default scheduling state for a progress record that has never been reviewed.
const (
	// DefaultEaseFactor is the ease factor assigned to a new progress record.
	DefaultEaseFactor = 2.5

	// MinEaseFactor is the floor the ease factor may never drop below.
	MinEaseFactor = 1.3
)

// Common validation errors for CardProgress
var (
	ErrEmptyProgressCardID = errors.New("card progress card ID cannot be empty")
	ErrEmptyProgressUserID = errors.New("card progress user ID cannot be empty")
	ErrInvalidInterval     = errors.New("interval must be greater than or equal to 0")
	ErrInvalidRepetitions  = errors.New("repetitions must be greater than or equal to 0")
	ErrInvalidEaseFactor   = errors.New("ease factor must be greater than 1.0")
)

// CardProgress tracks a user's spaced repetition state for one card in one
// study mode. It is the persistent state of the SM-2 algorithm: ease factor,
// interval, repetition streak and the next due instant, plus lifetime
// counters. Rows are created lazily on first review, not at card creation.
type CardProgress struct {
	ID     uuid.UUID `json:"id"`
	CardID uuid.UUID `json:"card_id"`
	UserID uuid.UUID `json:"user_id"`
	Mode   StudyMode `json:"mode"`

	EaseFactor     float64   `json:"ease_factor"`      // starts at 2.5, never below 1.3
	IntervalDays   int       `json:"interval_days"`    // days until next due date
	Repetitions    int       `json:"repetitions"`      // consecutive passes since last failure
	NextReviewDate time.Time `json:"next_review_date"` // due when now >= this

	TotalReviews   int       `json:"total_reviews"`
	CorrectCount   int       `json:"correct_count"`
	LastReviewedAt time.Time `json:"last_reviewed_at"` // zero time = never reviewed

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCardProgress creates progress for a (card, mode) pair with default
// values. The interval of 0 and NextReviewDate of now make a fresh record
// immediately due.
func NewCardProgress(cardID, userID uuid.UUID, mode StudyMode, now time.Time) (*CardProgress, error) {
	progress := &CardProgress{
		ID:             uuid.New(),
		CardID:         cardID,
		UserID:         userID,
		Mode:           mode,
		EaseFactor:     DefaultEaseFactor,
		IntervalDays:   0,
		Repetitions:    0,
		NextReviewDate: now,
		TotalReviews:   0,
		CorrectCount:   0,
		LastReviewedAt: time.Time{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the CardProgress has valid data.
// Returns an error if any field fails validation.
func (p *CardProgress) Validate() error {
	if p.CardID == uuid.Nil {
		return ErrEmptyProgressCardID
	}

	if p.UserID == uuid.Nil {
		return ErrEmptyProgressUserID
	}

	if err := p.Mode.Validate(); err != nil {
		return err
	}

	if p.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if p.Repetitions < 0 {
		return ErrInvalidRepetitions
	}

	if p.EaseFactor <= 1.0 {
		return ErrInvalidEaseFactor
	}

	return nil
}

// Due reports whether the card is due for review at the given instant.
func (p *CardProgress) Due(now time.Time) bool {
	return !p.NextReviewDate.After(now)
}

// NeverReviewed reports whether this record has no review history yet.
func (p *CardProgress) NeverReviewed() bool {
	return p.LastReviewedAt.IsZero()
}
