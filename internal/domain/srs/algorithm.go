package srs

import (
	"math"
	"time"

	"github.com/hanzideck/hanzideck-api/internal/domain"
)

// Result is the output of one SM-2 transition: the four scheduling fields
// that jointly define when the card comes back.
type Result struct {
	EaseFactor     float64
	IntervalDays   int
	Repetitions    int
	NextReviewDate time.Time
}

// Advance computes the next scheduling state from a review outcome. It is a
// pure function of its arguments; the only external input is the caller's
// wall-clock now, used to anchor the absolute due date. Late reviews are not
// backdated: the new due date always counts forward from now.
//
// Failure branch (quality < 3): repetitions reset to 0 and the interval
// collapses to one day. The ease factor is left untouched - SM-2 only
// adjusts ease on the pass branch.
//
// Pass branch (quality >= 3): repetitions increment, the interval follows
// the 1 / 6 / round(interval x ease) ladder using the *prior* ease factor,
// and the ease factor is then updated by
//
//	EF' = EF + (0.1 - (5-q) x (0.08 + (5-q) x 0.02))
//
// and clamped to the configured floor.
//
// Quality is assumed pre-validated to [0,5]; out-of-range values are a
// caller error and must be rejected at the boundary.
func Advance(
	quality domain.Quality,
	easeFactor float64,
	intervalDays int,
	repetitions int,
	now time.Time,
	params *Params,
) Result {
	newEase := easeFactor
	var newInterval, newRepetitions int

	if !quality.Passed() {
		// Failed: reset the streak, see the card again tomorrow.
		newRepetitions = 0
		newInterval = params.FailureInterval
	} else {
		newRepetitions = repetitions + 1

		switch newRepetitions {
		case 1:
			newInterval = params.FirstInterval
		case 2:
			newInterval = params.SecondInterval
		default:
			// Round half away from zero, matching the reference
			// implementation's Math.round on this non-negative domain.
			newInterval = int(math.Round(float64(intervalDays) * easeFactor))
		}

		q := float64(quality)
		newEase = easeFactor + (0.1 - (5-q)*(0.08+(5-q)*0.02))
		if newEase < params.MinEaseFactor {
			newEase = params.MinEaseFactor
		}
	}

	return Result{
		EaseFactor:     newEase,
		IntervalDays:   newInterval,
		Repetitions:    newRepetitions,
		NextReviewDate: now.AddDate(0, 0, newInterval),
	}
}

// nextProgress applies a transition to a progress record, returning a new
// record rather than mutating the input. Besides the four scheduling fields
// it rolls the lifetime counters and stamps the review time.
func nextProgress(
	progress *domain.CardProgress,
	quality domain.Quality,
	now time.Time,
	params *Params,
) *domain.CardProgress {
	result := Advance(
		quality,
		progress.EaseFactor,
		progress.IntervalDays,
		progress.Repetitions,
		now,
		params,
	)

	next := &domain.CardProgress{
		ID:             progress.ID,
		CardID:         progress.CardID,
		UserID:         progress.UserID,
		Mode:           progress.Mode,
		EaseFactor:     result.EaseFactor,
		IntervalDays:   result.IntervalDays,
		Repetitions:    result.Repetitions,
		NextReviewDate: result.NextReviewDate,
		TotalReviews:   progress.TotalReviews + 1,
		CorrectCount:   progress.CorrectCount,
		LastReviewedAt: now,
		CreatedAt:      progress.CreatedAt,
		UpdatedAt:      now,
	}

	if quality.Passed() {
		next.CorrectCount = progress.CorrectCount + 1
	}

	return next
}
