package service

import (
	"time"

	"github.com/phrazzld/scry-progress/internal/domain/progress"
)

// Option configures the services built by this package.
type Option func(*settings)

type settings struct {
	now      func() time.Time
	location *time.Location
	trend    progress.TrendOptions
}

func newSettings(opts []Option) settings {
	s := settings{
		now:      time.Now,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(&s)
	}
	s.trend.Location = s.location
	return s
}

// WithClock replaces the wall clock, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the time zone that defines a learner's calendar day.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithTrendDefaults sets the rolling window and horizon used when a trend
// request does not specify them.
func WithTrendDefaults(windowDays, horizonDays int) Option {
	return func(s *settings) {
		s.trend.WindowDays = windowDays
		s.trend.HorizonDays = horizonDays
	}
}
