package stats

import (
	"fmt"
	"sort"
	"time"

	"example.com/habits/internal/domain"
)

// Thresholds for weekly insight rules.
const (
	weeklyChangeThreshold  = 20.0
	weeklyLeisureShare     = 0.40
	weeklyHealthMinimumMin = 180
	weeklyInsightCap       = 3
)

// Weekly rolls up the Monday-start week containing anchor, comparing each
// activity type against the immediately preceding seven-day window.
func Weekly(anchor time.Time, logs []domain.ActivityLog, types []domain.ActivityType) WeeklyStats {
	start := domain.WeekStart(anchor)
	end := start.AddDate(0, 0, 6)

	out := WeeklyStats{
		WeekStart:  start.Format(domain.DateLayout),
		WeekEnd:    end.Format(domain.DateLayout),
		Days:       make([]DailyStats, 0, 7),
		Activities: []WeeklyActivity{},
		Insights:   []string{},
	}

	for i := 0; i < 7; i++ {
		day := Daily(start.AddDate(0, 0, i), logs, types)
		out.TotalMinutes += day.TotalMinutes
		out.Days = append(out.Days, day)
	}

	order, current := sumByType(logs, start, end)
	_, previous := sumByType(logs, start.AddDate(0, 0, -7), start.AddDate(0, 0, -1))

	idx := typeIndex(types)
	for _, typeID := range order {
		t, ok := idx[typeID]
		if !ok {
			continue
		}
		out.Activities = append(out.Activities, WeeklyActivity{
			ActivityTypeID:   typeID,
			Name:             t.Name,
			Icon:             t.Icon,
			Color:            t.Color,
			Category:         string(t.Category),
			Minutes:          current[typeID],
			PreviousMinutes:  previous[typeID],
			ChangePercentage: changePercentage(current[typeID], previous[typeID]),
		})
	}

	sort.SliceStable(out.Activities, func(i, j int) bool {
		return out.Activities[i].Minutes > out.Activities[j].Minutes
	})

	out.Insights = weeklyInsights(out)
	return out
}

// changePercentage implements the week-over-week delta contract: a previous
// total of zero maps to +100% when anything was logged this week and 0% when
// nothing was.
func changePercentage(current, previous int) float64 {
	switch {
	case previous > 0:
		return float64(current-previous) / float64(previous) * 100
	case current > 0:
		return 100
	default:
		return 0
	}
}

// sumByType totals minutes per activity type over [from, to] inclusive. The
// returned order is first occurrence within the window, which keeps ties
// stable after the descending sort.
func sumByType(logs []domain.ActivityLog, from, to time.Time) ([]string, map[string]int) {
	order := make([]string, 0)
	totals := make(map[string]int)
	for _, entry := range logs {
		day := domain.DateOf(entry.Date)
		if day.Before(from) || day.After(to) {
			continue
		}
		if _, seen := totals[entry.ActivityTypeID]; !seen {
			order = append(order, entry.ActivityTypeID)
		}
		totals[entry.ActivityTypeID] += entry.Minutes
	}
	return order, totals
}

// weeklyInsights evaluates the templated insight rules in fixed priority
// order: per-activity deltas, leisure balance, health minimum, then a generic
// affirmation when nothing else fired. Output is capped at three sentences.
func weeklyInsights(week WeeklyStats) []string {
	insights := make([]string, 0, weeklyInsightCap)

	for _, activity := range week.Activities {
		if len(insights) >= weeklyInsightCap {
			return insights
		}
		change := activity.ChangePercentage
		switch {
		case change > weeklyChangeThreshold:
			insights = append(insights, fmt.Sprintf("%s increased by %.0f%% compared to last week.", activity.Name, change))
		case change < -weeklyChangeThreshold:
			insights = append(insights, fmt.Sprintf("%s decreased by %.0f%% compared to last week.", activity.Name, -change))
		}
	}

	leisure, health := 0, 0
	for _, activity := range week.Activities {
		switch domain.Category(activity.Category) {
		case domain.CategoryLeisure:
			leisure += activity.Minutes
		case domain.CategoryHealth:
			health += activity.Minutes
		}
	}

	if len(insights) < weeklyInsightCap && week.TotalMinutes > 0 &&
		float64(leisure) > float64(week.TotalMinutes)*weeklyLeisureShare {
		insights = append(insights, "Leisure took up a large share of your week. Consider rebalancing toward productive activities.")
	}

	if len(insights) < weeklyInsightCap && health < weeklyHealthMinimumMin {
		insights = append(insights, "You logged little health activity this week. Try to fit in more exercise or rest.")
	}

	if len(insights) == 0 {
		insights = append(insights, "Your week looks balanced. Keep up the steady routine!")
	}

	return insights
}
