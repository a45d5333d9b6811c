// Package stats derives daily, weekly, and monthly rollups from activity log
// snapshots. Every function is pure: identical inputs produce identical
// outputs, nothing is mutated, and degenerate inputs (no logs, zero totals)
// yield zero-valued results rather than errors.
package stats

import "example.com/habits/internal/domain"

// ActivityBreakdown is the per-type share of a single day.
type ActivityBreakdown struct {
	ActivityTypeID string  `json:"activity_type_id"`
	Name           string  `json:"name"`
	Icon           string  `json:"icon"`
	Color          string  `json:"color"`
	Category       string  `json:"category"`
	Minutes        int     `json:"minutes"`
	Percentage     float64 `json:"percentage"`
}

// DailyStats is the rollup for one calendar day. Activities appear in
// first-occurrence order of the underlying logs; callers wanting a ranked
// view sort explicitly.
type DailyStats struct {
	Date              string              `json:"date"`
	TotalMinutes      int                 `json:"total_minutes"`
	ProductiveMinutes int                 `json:"productive_minutes"`
	LeisureMinutes    int                 `json:"leisure_minutes"`
	Activities        []ActivityBreakdown `json:"activities"`
}

// WeeklyActivity compares one activity type's current week against the
// immediately preceding seven-day window.
type WeeklyActivity struct {
	ActivityTypeID   string  `json:"activity_type_id"`
	Name             string  `json:"name"`
	Icon             string  `json:"icon"`
	Color            string  `json:"color"`
	Category         string  `json:"category"`
	Minutes          int     `json:"minutes"`
	PreviousMinutes  int     `json:"previous_minutes"`
	ChangePercentage float64 `json:"change_percentage"`
}

// WeeklyStats is the rollup for a Monday-start week.
type WeeklyStats struct {
	WeekStart    string           `json:"week_start"`
	WeekEnd      string           `json:"week_end"`
	TotalMinutes int              `json:"total_minutes"`
	Days         []DailyStats     `json:"days"`
	Activities   []WeeklyActivity `json:"activities"`
	Insights     []string         `json:"insights"`
}

// HeatmapDay is one cell of the monthly heatmap.
type HeatmapDay struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

// MonthlyActivity is one entry of the month's top-activities ranking.
type MonthlyActivity struct {
	ActivityTypeID string `json:"activity_type_id"`
	Name           string `json:"name"`
	Icon           string `json:"icon"`
	Color          string `json:"color"`
	Category       string `json:"category"`
	Minutes        int    `json:"minutes"`
}

// MonthlyStats is the rollup for one calendar month. Most/least productive
// days are empty strings when the month has no logged minutes.
type MonthlyStats struct {
	Month              string            `json:"month"`
	TotalMinutes       int               `json:"total_minutes"`
	DailyHeatmap       []HeatmapDay      `json:"daily_heatmap"`
	MostProductiveDay  string            `json:"most_productive_day,omitempty"`
	LeastProductiveDay string            `json:"least_productive_day,omitempty"`
	TopActivities      []MonthlyActivity `json:"top_activities"`
	Suggestions        []string          `json:"suggestions"`
}

func typeIndex(types []domain.ActivityType) map[string]domain.ActivityType {
	idx := make(map[string]domain.ActivityType, len(types))
	for _, t := range types {
		idx[t.ID] = t
	}
	return idx
}
