package domain

import "time"

// Category classifies what kind of time an activity type represents.
type Category string

const (
	CategoryProductive Category = "productive"
	CategoryLeisure    Category = "leisure"
	CategoryHealth     Category = "health"
	CategoryOther      Category = "other"
)

// ValidCategory reports whether the value is one of the known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryProductive, CategoryLeisure, CategoryHealth, CategoryOther:
		return true
	}
	return false
}

// ActivityType is a named, iconified category of time use. Types with an empty
// OwnerID are system defaults shared by every user; custom types are visible
// only to their owner. Types are created and deleted, never mutated.
type ActivityType struct {
	ID        string
	OwnerID   string
	Name      string
	Icon      string
	Color     string
	Category  Category
	IsDefault bool
	CreatedAt time.Time
}

// ActivityLog is a single timed entry of minutes spent on an activity type on
// a calendar date. Date carries no time of day; it is normalized to midnight
// UTC before persistence.
type ActivityLog struct {
	ID             string
	OwnerID        string
	ActivityTypeID string
	Date           time.Time
	Minutes        int
	Notes          string
	CreatedAt      time.Time
}

// Streak tracks consecutive calendar days with at least one log. One record
// per user; a zero LastActiveDate means the user has never logged.
type Streak struct {
	OwnerID        string
	CurrentStreak  int
	LongestStreak  int
	LastActiveDate time.Time
}

// User is an account known to the record store.
type User struct {
	ID        string
	Email     string
	CreatedAt time.Time
}
