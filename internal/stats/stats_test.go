package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/habits/internal/domain"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := domain.ParseDate(value)
	require.NoError(t, err)
	return day
}

func testLog(typeID, day string, minutes int) domain.ActivityLog {
	parsed, _ := domain.ParseDate(day)
	return domain.ActivityLog{
		ID:             typeID + "-" + day,
		OwnerID:        "user-1",
		ActivityTypeID: typeID,
		Date:           parsed,
		Minutes:        minutes,
	}
}

var testTypes = []domain.ActivityType{
	{ID: "t-work", Name: "Work", Category: domain.CategoryProductive, IsDefault: true},
	{ID: "t-study", Name: "Study", Category: domain.CategoryProductive, IsDefault: true},
	{ID: "t-exercise", Name: "Exercise", Category: domain.CategoryHealth, IsDefault: true},
	{ID: "t-sleep", Name: "Sleep", Category: domain.CategoryHealth, IsDefault: true},
	{ID: "t-social", Name: "Social Media", Category: domain.CategoryLeisure, IsDefault: true},
	{ID: "t-gaming", Name: "Gaming", Category: domain.CategoryLeisure, IsDefault: true},
	{ID: "t-chores", Name: "Chores", Category: domain.CategoryOther, IsDefault: true},
}

func TestDailyPercentagesAndCategoryTotals(t *testing.T) {
	logs := []domain.ActivityLog{
		testLog("t-work", "2024-03-11", 120),
		testLog("t-gaming", "2024-03-11", 60),
		testLog("t-work", "2024-03-12", 500),
	}

	daily := Daily(date(t, "2024-03-11"), logs, testTypes)

	require.Equal(t, "2024-03-11", daily.Date)
	require.Equal(t, 180, daily.TotalMinutes)
	require.Equal(t, 120, daily.ProductiveMinutes)
	require.Equal(t, 60, daily.LeisureMinutes)
	require.Len(t, daily.Activities, 2)
	require.Equal(t, "Work", daily.Activities[0].Name)
	require.InDelta(t, 66.7, daily.Activities[0].Percentage, 0.05)
	require.InDelta(t, 33.3, daily.Activities[1].Percentage, 0.05)
}

func TestDailyEmptyDayIsZeroValued(t *testing.T) {
	daily := Daily(date(t, "2024-03-11"), nil, testTypes)

	require.Equal(t, 0, daily.TotalMinutes)
	require.Empty(t, daily.Activities)
	for _, a := range daily.Activities {
		require.Zero(t, a.Percentage)
	}
}

func TestDailyOrphanedTypeCountsTowardTotalOnly(t *testing.T) {
	logs := []domain.ActivityLog{
		testLog("t-work", "2024-03-11", 90),
		testLog("t-deleted", "2024-03-11", 30),
	}

	daily := Daily(date(t, "2024-03-11"), logs, testTypes)

	require.Equal(t, 120, daily.TotalMinutes)
	require.Len(t, daily.Activities, 1)
	require.Equal(t, "Work", daily.Activities[0].Name)
	// Percentage is computed against the full total, orphans included.
	require.InDelta(t, 75.0, daily.Activities[0].Percentage, 0.01)
}

func TestWeeklyTotalEqualsSumOfDays(t *testing.T) {
	// 2024-03-11 is a Monday.
	logs := []domain.ActivityLog{
		testLog("t-work", "2024-03-11", 100),
		testLog("t-study", "2024-03-13", 50),
		testLog("t-gaming", "2024-03-17", 30),
		testLog("t-work", "2024-03-18", 999), // next week, excluded
	}

	weekly := Weekly(date(t, "2024-03-13"), logs, testTypes)

	require.Equal(t, "2024-03-11", weekly.WeekStart)
	require.Equal(t, "2024-03-17", weekly.WeekEnd)
	require.Len(t, weekly.Days, 7)

	sum := 0
	for _, day := range weekly.Days {
		sum += day.TotalMinutes
	}
	require.Equal(t, sum, weekly.TotalMinutes)
	require.Equal(t, 180, weekly.TotalMinutes)
}

func TestWeeklyChangePercentage(t *testing.T) {
	require.InDelta(t, 50.0, changePercentage(150, 100), 0.001)
	require.InDelta(t, -25.0, changePercentage(75, 100), 0.001)
	require.InDelta(t, 100.0, changePercentage(40, 0), 0.001)
	require.Zero(t, changePercentage(0, 0))
}

func TestWeeklyActivitiesComparePreviousWindow(t *testing.T) {
	logs := []domain.ActivityLog{
		testLog("t-work", "2024-03-04", 100), // previous week
		testLog("t-work", "2024-03-11", 150),
		testLog("t-exercise", "2024-03-12", 40),
	}

	weekly := Weekly(date(t, "2024-03-11"), logs, testTypes)

	require.Len(t, weekly.Activities, 2)
	work := weekly.Activities[0]
	require.Equal(t, "Work", work.Name)
	require.Equal(t, 150, work.Minutes)
	require.Equal(t, 100, work.PreviousMinutes)
	require.InDelta(t, 50.0, work.ChangePercentage, 0.001)

	exercise := weekly.Activities[1]
	require.Equal(t, "Exercise", exercise.Name)
	require.InDelta(t, 100.0, exercise.ChangePercentage, 0.001)
}

func TestWeeklyInsightsOrderAndCap(t *testing.T) {
	// Three activities all changed by more than 20%, so the per-activity rule
	// alone fills the cap and later rules never fire.
	logs := []domain.ActivityLog{
		testLog("t-work", "2024-03-04", 100),
		testLog("t-work", "2024-03-11", 300),
		testLog("t-study", "2024-03-04", 100),
		testLog("t-study", "2024-03-12", 200),
		testLog("t-gaming", "2024-03-04", 100),
		testLog("t-gaming", "2024-03-13", 10),
	}

	weekly := Weekly(date(t, "2024-03-11"), logs, testTypes)

	require.Len(t, weekly.Insights, 3)
	require.Contains(t, weekly.Insights[0], "Work increased by 200%")
	require.Contains(t, weekly.Insights[1], "Study increased by 100%")
	require.Contains(t, weekly.Insights[2], "Gaming decreased by 90%")
}

func TestWeeklyInsightsLeisureWarningThenHealthSuggestion(t *testing.T) {
	// Every delta stays under 20% so the per-activity rule is silent. Leisure
	// is 50% of the week and no health minutes were logged, so the balance
	// warning fires first and the health suggestion second.
	logs := []domain.ActivityLog{
		testLog("t-work", "2024-03-04", 95),
		testLog("t-work", "2024-03-11", 100),
		testLog("t-gaming", "2024-03-04", 90),
		testLog("t-gaming", "2024-03-12", 100),
	}

	weekly := Weekly(date(t, "2024-03-11"), logs, testTypes)

	require.Equal(t, []string{
		"Leisure took up a large share of your week. Consider rebalancing toward productive activities.",
		"You logged little health activity this week. Try to fit in more exercise or rest.",
	}, weekly.Insights)
}

func TestWeeklyInsightsHealthRuleAlone(t *testing.T) {
	// Deltas under 20% and leisure at 25% of the week: only the health
	// minimum rule fires.
	logs := []domain.ActivityLog{
		testLog("t-work", "2024-03-04", 290),
		testLog("t-work", "2024-03-11", 300),
		testLog("t-gaming", "2024-03-04", 95),
		testLog("t-gaming", "2024-03-12", 100),
	}

	weekly := Weekly(date(t, "2024-03-11"), logs, testTypes)

	require.Equal(t, []string{
		"You logged little health activity this week. Try to fit in more exercise or rest.",
	}, weekly.Insights)
}

func TestWeeklyInsightsFallback(t *testing.T) {
	// Identical weeks with enough health minutes trigger no rule.
	logs := []domain.ActivityLog{
		testLog("t-exercise", "2024-03-04", 200),
		testLog("t-exercise", "2024-03-11", 200),
		testLog("t-work", "2024-03-04", 300),
		testLog("t-work", "2024-03-11", 300),
	}

	weekly := Weekly(date(t, "2024-03-11"), logs, testTypes)

	require.Equal(t, []string{"Your week looks balanced. Keep up the steady routine!"}, weekly.Insights)
}

func TestMonthlyHeatmapCoversEveryDay(t *testing.T) {
	logs := []domain.ActivityLog{
		testLog("t-work", "2024-02-10", 60),
	}

	monthly := Monthly(date(t, "2024-02-01"), logs, testTypes)

	require.Equal(t, "2024-02", monthly.Month)
	require.Len(t, monthly.DailyHeatmap, 29) // 2024 is a leap year
	require.Equal(t, 60, monthly.TotalMinutes)
	require.Equal(t, "2024-02-01", monthly.DailyHeatmap[0].Date)
	require.Equal(t, "2024-02-29", monthly.DailyHeatmap[28].Date)
}

func TestMonthlyMostLeastProductiveTieBreaks(t *testing.T) {
	// Day minutes [0, 10, 10]: the earlier tied day is most productive, the
	// later tied day is least productive, and the zero day is ignored.
	logs := []domain.ActivityLog{
		testLog("t-work", "2024-03-02", 10),
		testLog("t-work", "2024-03-03", 10),
	}

	monthly := Monthly(date(t, "2024-03-01"), logs, testTypes)

	require.Equal(t, "2024-03-02", monthly.MostProductiveDay)
	require.Equal(t, "2024-03-03", monthly.LeastProductiveDay)
}

func TestMonthlyEmptyMonthHasNoProductiveDays(t *testing.T) {
	monthly := Monthly(date(t, "2024-03-01"), nil, testTypes)

	require.Empty(t, monthly.MostProductiveDay)
	require.Empty(t, monthly.LeastProductiveDay)
	require.Empty(t, monthly.TopActivities)
	// Zero logged minutes still means zero sleep and zero exercise, so those
	// two rules fire; the generic fallback only appears when nothing else did.
	require.Equal(t, []string{
		"Your average sleep is below 7 hours. Try going to bed earlier.",
		"Little exercise logged this month. Aim for at least 20 minutes a day.",
	}, monthly.Suggestions)
}

func TestMonthlyTopActivitiesCappedAtFive(t *testing.T) {
	logs := []domain.ActivityLog{
		testLog("t-work", "2024-03-01", 700),
		testLog("t-study", "2024-03-01", 600),
		testLog("t-exercise", "2024-03-01", 500),
		testLog("t-sleep", "2024-03-01", 400),
		testLog("t-social", "2024-03-01", 300),
		testLog("t-gaming", "2024-03-01", 200),
		testLog("t-chores", "2024-03-01", 100),
	}

	monthly := Monthly(date(t, "2024-03-01"), logs, testTypes)

	require.Len(t, monthly.TopActivities, 5)
	require.Equal(t, "Work", monthly.TopActivities[0].Name)
	require.Equal(t, "Social Media", monthly.TopActivities[4].Name)
}

func TestMonthlySuggestionOrderAndCap(t *testing.T) {
	// Social Media and Gaming each dominate, sleep is short, and exercise is
	// absent: four rules fire in fixed order and the cap holds.
	logs := []domain.ActivityLog{
		testLog("t-social", "2024-03-01", 300),
		testLog("t-gaming", "2024-03-02", 300),
		testLog("t-chores", "2024-03-03", 100),
	}

	monthly := Monthly(date(t, "2024-03-01"), logs, testTypes)

	require.Len(t, monthly.Suggestions, 4)
	require.Contains(t, monthly.Suggestions[0], "Social Media")
	require.Contains(t, monthly.Suggestions[1], "Gaming")
	require.Contains(t, monthly.Suggestions[2], "sleep")
	require.Contains(t, monthly.Suggestions[3], "exercise")
}

func TestMonthlySleepRuleFiresWhenSleepAbsent(t *testing.T) {
	logs := []domain.ActivityLog{
		testLog("t-work", "2024-03-01", 2000),
	}

	monthly := Monthly(date(t, "2024-03-01"), logs, testTypes)

	found := false
	for _, s := range monthly.Suggestions {
		if s == "Your average sleep is below 7 hours. Try going to bed earlier." {
			found = true
		}
	}
	require.True(t, found, "sleep suggestion should fire with no sleep logged")
}

func TestMonthlyProductivePraise(t *testing.T) {
	logs := []domain.ActivityLog{
		testLog("t-work", "2024-03-01", 900),
		testLog("t-sleep", "2024-03-01", 13000), // plenty of sleep
		testLog("t-exercise", "2024-03-02", 700),
		testLog("t-work", "2024-03-03", 15000),
	}

	monthly := Monthly(date(t, "2024-03-01"), logs, testTypes)

	require.Contains(t, monthly.Suggestions, "Over half of your month went to productive activities. Great focus!")
}
