package srs

import (
	"errors"
	"time"

	"github.com/hanzideck/hanzideck-api/internal/domain"
)

// Common errors
var (
	ErrNilProgress    = errors.New("card progress cannot be nil")
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")
)

// Service defines the interface for SM-2 scheduling operations.
type Service interface {
	// CalculateNextReview computes a new progress record from a review
	// outcome. The input record is not modified. The now argument anchors
	// the absolute next-review date and the LastReviewedAt stamp.
	CalculateNextReview(
		progress *domain.CardProgress,
		quality domain.Quality,
		now time.Time,
	) (*domain.CardProgress, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements the Service interface.
func (s *defaultService) CalculateNextReview(
	progress *domain.CardProgress,
	quality domain.Quality,
	now time.Time,
) (*domain.CardProgress, error) {
	if progress == nil {
		return nil, ErrNilProgress
	}

	if !quality.Valid() {
		return nil, ErrInvalidQuality
	}

	return nextProgress(progress, quality, now, s.params), nil
}
