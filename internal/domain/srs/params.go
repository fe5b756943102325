package srs

import (
	"github.com/hanzideck/hanzideck-api/internal/domain"
)

// Params defines the configurable parameters of the SM-2 scheduler.
// The defaults reproduce the classic SM-2 definition; overriding them is
// intended for experimentation, not for production tuning.
type Params struct {
	// MinEaseFactor is the floor applied after every ease factor update.
	// SM-2 has no ceiling.
	MinEaseFactor float64

	// FirstInterval is the interval in days after the first successful
	// repetition.
	FirstInterval int

	// SecondInterval is the interval in days after the second successful
	// repetition.
	SecondInterval int

	// FailureInterval is the interval in days assigned on any failed review.
	FailureInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values leave the corresponding default in place.
type ParamsConfig struct {
	MinEaseFactor   float64
	FirstInterval   int
	SecondInterval  int
	FailureInterval int
}

// NewDefaultParams creates a new Params instance with the classic SM-2
// values.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:   domain.MinEaseFactor,
		FirstInterval:   1,
		SecondInterval:  6,
		FailureInterval: 1,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.FailureInterval > 0 {
		params.FailureInterval = config.FailureInterval
	}

	return params
}
