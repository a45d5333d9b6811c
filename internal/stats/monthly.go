package stats

import (
	"fmt"
	"sort"
	"time"

	"example.com/habits/internal/domain"
)

// Thresholds for monthly suggestion rules.
const (
	monthlyDistractionShare = 0.25
	monthlySleepDivisor     = 30
	monthlySleepMinimumMin  = 420
	monthlyExerciseMinimum  = 600
	monthlyProductiveShare  = 0.50
	monthlySuggestionCap    = 4
	monthlyTopActivities    = 5
)

// Activity names with dedicated suggestion rules.
const (
	nameSocialMedia = "Social Media"
	nameGaming      = "Gaming"
	nameSleep       = "Sleep"
	nameExercise    = "Exercise"
)

// Monthly rolls up the calendar month containing anchor. The heatmap carries
// one entry per day including zero-minute days; most/least productive days
// come from a stable descending sort of the ascending-date heatmap, so the
// earliest date wins ties for most productive and the latest positive date
// wins ties for least productive. Zero-minute days are excluded from both.
func Monthly(anchor time.Time, logs []domain.ActivityLog, types []domain.ActivityType) MonthlyStats {
	first := domain.MonthStart(anchor)
	last := domain.MonthEnd(anchor)

	out := MonthlyStats{
		Month:         first.Format(domain.MonthLayout),
		DailyHeatmap:  []HeatmapDay{},
		TopActivities: []MonthlyActivity{},
		Suggestions:   []string{},
	}

	minutesByDay := make(map[string]int)
	minutesByType := make(map[string]int)
	typeOrder := make([]string, 0)
	for _, entry := range logs {
		day := domain.DateOf(entry.Date)
		if day.Before(first) || day.After(last) {
			continue
		}
		minutesByDay[day.Format(domain.DateLayout)] += entry.Minutes
		if _, seen := minutesByType[entry.ActivityTypeID]; !seen {
			typeOrder = append(typeOrder, entry.ActivityTypeID)
		}
		minutesByType[entry.ActivityTypeID] += entry.Minutes
	}

	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format(domain.DateLayout)
		out.DailyHeatmap = append(out.DailyHeatmap, HeatmapDay{Date: key, Minutes: minutesByDay[key]})
		out.TotalMinutes += minutesByDay[key]
	}

	ranked := make([]HeatmapDay, len(out.DailyHeatmap))
	copy(ranked, out.DailyHeatmap)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Minutes > ranked[j].Minutes })

	for _, day := range ranked {
		if day.Minutes > 0 {
			out.MostProductiveDay = day.Date
			break
		}
	}
	for i := len(ranked) - 1; i >= 0; i-- {
		if ranked[i].Minutes > 0 {
			out.LeastProductiveDay = ranked[i].Date
			break
		}
	}

	idx := typeIndex(types)
	for _, typeID := range typeOrder {
		t, ok := idx[typeID]
		if !ok {
			continue
		}
		minutes := minutesByType[typeID]
		out.TopActivities = append(out.TopActivities, MonthlyActivity{
			ActivityTypeID: typeID,
			Name:           t.Name,
			Icon:           t.Icon,
			Color:          t.Color,
			Category:       string(t.Category),
			Minutes:        minutes,
		})
	}
	sort.SliceStable(out.TopActivities, func(i, j int) bool {
		return out.TopActivities[i].Minutes > out.TopActivities[j].Minutes
	})
	if len(out.TopActivities) > monthlyTopActivities {
		out.TopActivities = out.TopActivities[:monthlyTopActivities]
	}

	out.Suggestions = monthlySuggestions(out, minutesByType, types)
	return out
}

// monthlySuggestions evaluates the templated suggestion rules in fixed order.
// Rules are not mutually exclusive; up to four can fire, and the generic
// fallback only appears when nothing else did.
func monthlySuggestions(month MonthlyStats, minutesByType map[string]int, types []domain.ActivityType) []string {
	suggestions := make([]string, 0, monthlySuggestionCap)
	add := func(s string) {
		if len(suggestions) < monthlySuggestionCap {
			suggestions = append(suggestions, s)
		}
	}

	totalsByName := make(map[string]int)
	productive := 0
	for _, t := range types {
		minutes, ok := minutesByType[t.ID]
		if !ok {
			continue
		}
		totalsByName[t.Name] += minutes
		if t.Category == domain.CategoryProductive {
			productive += minutes
		}
	}

	if month.TotalMinutes > 0 {
		for _, name := range []string{nameSocialMedia, nameGaming} {
			if float64(totalsByName[name]) > float64(month.TotalMinutes)*monthlyDistractionShare {
				add(fmt.Sprintf("%s took over a quarter of your month. Consider setting a daily limit.", name))
			}
		}
	}

	// Average sleep uses a fixed /30 divisor regardless of month length.
	if float64(totalsByName[nameSleep])/monthlySleepDivisor < monthlySleepMinimumMin {
		add("Your average sleep is below 7 hours. Try going to bed earlier.")
	}

	if totalsByName[nameExercise] < monthlyExerciseMinimum {
		add("Little exercise logged this month. Aim for at least 20 minutes a day.")
	}

	if month.TotalMinutes > 0 && float64(productive) > float64(month.TotalMinutes)*monthlyProductiveShare {
		add("Over half of your month went to productive activities. Great focus!")
	}

	if len(suggestions) == 0 {
		add("Keep logging your activities to discover more about your habits.")
	}

	return suggestions
}
