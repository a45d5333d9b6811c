// Package streak implements the consecutive-day streak transition rule.
package streak

import (
	"time"

	"example.com/habits/internal/domain"
)

// Fresh returns the zero-valued streak for a user who has never logged.
func Fresh(ownerID string) domain.Streak {
	return domain.Streak{OwnerID: ownerID}
}

// Apply advances the streak for the first log of logDate. Yesterday and today
// are evaluated relative to logDate, never a wall clock, so the rule stays
// deterministic. Repeat calls for the same day are no-ops, and a gap of two or
// more days resets the current run to 1. LongestStreak never decreases.
func Apply(s domain.Streak, logDate time.Time) domain.Streak {
	day := domain.DateOf(logDate)

	switch {
	case !s.LastActiveDate.IsZero() && domain.SameDay(s.LastActiveDate, day):
		// Already counted for this day.
		return s
	case s.LastActiveDate.IsZero(), domain.SameDay(s.LastActiveDate, day.AddDate(0, 0, -1)):
		s.CurrentStreak++
	default:
		s.CurrentStreak = 1
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastActiveDate = day
	return s
}
