// Package streak computes consecutive-day activity streaks.
//
// The calculation only cares that an event happened on a calendar day; it is
// used unchanged for review activity and for wellness sessions.
package streak

import (
	"sort"
	"time"

	"github.com/phrazzld/scry-progress/internal/domain"
)

// Calculate returns the current and longest runs of consecutive calendar days
// found in dates, observed in loc. The current streak counts back from today,
// or from yesterday when nothing happened today yet.
func Calculate(dates []time.Time, now time.Time, loc *time.Location) domain.Streaks {
	days := distinctDays(dates, loc)
	if len(days) == 0 {
		return domain.Streaks{}
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if domain.DaysBetween(days[i-1], days[i]) == 1 {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	last := days[len(days)-1]
	return domain.Streaks{
		Current:        current(days, domain.DateOf(now, loc)),
		Longest:        longest,
		LastActiveDate: &last,
	}
}

// current walks back from the newest day. days must be sorted ascending.
func current(days []time.Time, today time.Time) int {
	// Days after today come from clock skew; they do not anchor a streak.
	i := len(days) - 1
	for i >= 0 && days[i].After(today) {
		i--
	}
	if i < 0 {
		return 0
	}
	if domain.DaysBetween(days[i], today) > 1 {
		return 0
	}

	count := 1
	for ; i > 0; i-- {
		if domain.DaysBetween(days[i-1], days[i]) != 1 {
			break
		}
		count++
	}
	return count
}

// distinctDays collapses timestamps to sorted, unique calendar days.
func distinctDays(dates []time.Time, loc *time.Location) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		day := domain.DateOf(d, loc)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}
