// Package events defines the payloads published through the outbox.
package events

import "time"

// HabitLogged is emitted when a new activity log is accepted.
type HabitLogged struct {
	LogID          string    `json:"log_id"`
	OwnerID        string    `json:"owner_id"`
	ActivityTypeID string    `json:"activity_type_id"`
	Date           string    `json:"date"`
	Minutes        int       `json:"minutes"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// StreakUpdated tracks streak transitions for downstream consumers.
type StreakUpdated struct {
	OwnerID        string    `json:"owner_id"`
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
	LastActiveDate string    `json:"last_active_date"`
	OccurredAt     time.Time `json:"occurred_at"`
}
