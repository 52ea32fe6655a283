package srs

import (
	"errors"

	"github.com/phrazzld/scry-progress/internal/domain"
)

// ErrInvalidParams is returned when a Params value cannot drive the scheduler.
var ErrInvalidParams = errors.New("invalid srs parameters")

// Params defines the tunables of the SM-2 scheduler.
type Params struct {
	// Ease factor assigned on a question's first review.
	InitialEaseFactor float64
	// Floor below which the ease factor is clamped.
	MinEaseFactor float64

	// Intervals, in days, for the first and second consecutive successes.
	FirstInterval  int
	SecondInterval int

	// Lowest quality counted as a successful recall.
	PassingQuality int
}

// ParamsConfig allows overriding the default parameters. Zero values keep the default.
type ParamsConfig struct {
	InitialEaseFactor float64
	MinEaseFactor     float64
	FirstInterval     int
	SecondInterval    int
	PassingQuality    int
}

// NewDefaultParams returns the classic SM-2 constants.
func NewDefaultParams() *Params {
	return &Params{
		InitialEaseFactor: 2.5,
		MinEaseFactor:     domain.MinEasinessFactor,
		FirstInterval:     1,
		SecondInterval:    6,
		PassingQuality:    3,
	}
}

// NewParams creates a Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.InitialEaseFactor > 0 {
		params.InitialEaseFactor = config.InitialEaseFactor
	}
	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.PassingQuality > 0 {
		params.PassingQuality = config.PassingQuality
	}

	return params
}

// Validate checks that the parameters keep every produced schedule valid.
func (p *Params) Validate() error {
	switch {
	case p.MinEaseFactor < domain.MinEasinessFactor:
		return errors.Join(ErrInvalidParams, errors.New("minimum ease factor below 1.3"))
	case p.InitialEaseFactor < p.MinEaseFactor:
		return errors.Join(ErrInvalidParams, errors.New("initial ease factor below minimum"))
	case p.FirstInterval < 1 || p.SecondInterval < p.FirstInterval:
		return errors.Join(ErrInvalidParams, errors.New("intervals must be positive and non-decreasing"))
	case p.PassingQuality <= domain.MinQuality || p.PassingQuality > domain.MaxQuality:
		return errors.Join(ErrInvalidParams, errors.New("passing quality out of range"))
	}
	return nil
}
