package progress

import (
	"sort"
	"time"

	"github.com/phrazzld/scry-progress/internal/domain"
)

// Trend defaults.
const (
	DefaultWindowDays  = 7
	DefaultHorizonDays = 30
)

// TrendOptions configures Trend. Zero values select the defaults; a nil
// Location means UTC.
type TrendOptions struct {
	WindowDays  int
	HorizonDays int
	Location    *time.Location
}

func (o TrendOptions) withDefaults() TrendOptions {
	if o.WindowDays <= 0 {
		o.WindowDays = DefaultWindowDays
	}
	if o.HorizonDays <= 0 {
		o.HorizonDays = DefaultHorizonDays
	}
	if o.Location == nil {
		o.Location = time.UTC
	}
	return o
}

type dayTotals struct {
	date      time.Time
	attempted int
	correct   int
}

// Trend returns one point per calendar day with at least one deduplicated
// attempt. A point's accuracy covers the trailing WindowDays days ending on
// that day; days without attempts add nothing to the window. Only the last
// HorizonDays points are returned, oldest first.
func Trend(attempts []domain.AttemptRecord, opts TrendOptions) []domain.TrendPoint {
	opts = opts.withDefaults()

	byDay := make(map[time.Time]*dayTotals)
	for _, a := range LatestAttempts(attempts) {
		date := domain.DateOf(a.AttemptedAt, opts.Location)
		d, ok := byDay[date]
		if !ok {
			d = &dayTotals{date: date}
			byDay[date] = d
		}
		d.attempted++
		if a.IsCorrect {
			d.correct++
		}
	}

	days := make([]*dayTotals, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].date.Before(days[j].date) })

	points := make([]domain.TrendPoint, 0, len(days))
	start := 0
	var windowAttempted, windowCorrect int
	for _, d := range days {
		windowAttempted += d.attempted
		windowCorrect += d.correct

		// Drop days that fell out of [d-(window-1), d].
		for domain.DaysBetween(days[start].date, d.date) >= opts.WindowDays {
			windowAttempted -= days[start].attempted
			windowCorrect -= days[start].correct
			start++
		}

		points = append(points, domain.TrendPoint{
			Date:      d.date,
			Accuracy:  Accuracy(windowCorrect, windowAttempted),
			Attempted: d.attempted,
		})
	}

	if len(points) > opts.HorizonDays {
		points = points[len(points)-opts.HorizonDays:]
	}
	return points
}
