package stats

import (
	"time"

	"example.com/habits/internal/domain"
)

// Daily rolls up a single calendar day. TotalMinutes counts every log on the
// date, including logs whose activity type no longer exists; the per-type
// breakdown only contains joinable entries, so orphaned references lower the
// breakdown sum but never the total. Breakdown order is first-occurrence
// order of the logs.
func Daily(date time.Time, logs []domain.ActivityLog, types []domain.ActivityType) DailyStats {
	day := domain.DateOf(date)
	out := DailyStats{
		Date:       day.Format(domain.DateLayout),
		Activities: []ActivityBreakdown{},
	}

	idx := typeIndex(types)
	order := make([]string, 0)
	minutesByType := make(map[string]int)

	for _, entry := range logs {
		if !domain.SameDay(entry.Date, day) {
			continue
		}
		out.TotalMinutes += entry.Minutes
		if _, seen := minutesByType[entry.ActivityTypeID]; !seen {
			order = append(order, entry.ActivityTypeID)
		}
		minutesByType[entry.ActivityTypeID] += entry.Minutes
	}

	for _, typeID := range order {
		t, ok := idx[typeID]
		if !ok {
			// Orphaned reference: counted in the total, dropped from the breakdown.
			continue
		}
		minutes := minutesByType[typeID]
		breakdown := ActivityBreakdown{
			ActivityTypeID: typeID,
			Name:           t.Name,
			Icon:           t.Icon,
			Color:          t.Color,
			Category:       string(t.Category),
			Minutes:        minutes,
		}
		if out.TotalMinutes > 0 {
			breakdown.Percentage = float64(minutes) / float64(out.TotalMinutes) * 100
		}
		switch t.Category {
		case domain.CategoryProductive:
			out.ProductiveMinutes += minutes
		case domain.CategoryLeisure:
			out.LeisureMinutes += minutes
		}
		out.Activities = append(out.Activities, breakdown)
	}

	return out
}
