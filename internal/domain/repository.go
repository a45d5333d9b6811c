// Package domain defines the records, repository contract, and calendar-date
// rules shared by the rest of the service.
package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrActivityTypeNotFound is returned when a type id does not resolve to a
	// type visible to the requesting user.
	ErrActivityTypeNotFound = errors.New("activity type not found")
	// ErrLogNotFound is returned when a log cannot be located for the owner.
	ErrLogNotFound = errors.New("activity log not found")
	// ErrDefaultTypeImmutable rejects deletion of shared system defaults.
	ErrDefaultTypeImmutable = errors.New("system default activity types cannot be deleted")
)

// Cursor models the keyset pagination token for log listings.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// Repository captures persistence operations for the record store. Range
// queries are inclusive on both ends and return logs for a single owner only.
type Repository interface {
	CreateActivityType(ctx context.Context, t ActivityType) error
	GetActivityType(ctx context.Context, id string) (*ActivityType, error)
	// ListActivityTypes returns system defaults plus the owner's custom types.
	ListActivityTypes(ctx context.Context, ownerID string) ([]ActivityType, error)
	DeleteActivityType(ctx context.Context, ownerID, id string) error

	CreateLog(ctx context.Context, entry ActivityLog) error
	GetLog(ctx context.Context, ownerID, id string) (*ActivityLog, error)
	ListLogs(ctx context.Context, ownerID string, cursor *Cursor, limit int) ([]ActivityLog, *Cursor, error)
	ListLogsInRange(ctx context.Context, ownerID string, from, to time.Time) ([]ActivityLog, error)
	DeleteLog(ctx context.Context, ownerID, id string) error

	// GetStreak returns nil when the user has never logged.
	GetStreak(ctx context.Context, ownerID string) (*Streak, error)
	SaveStreak(ctx context.Context, s Streak) error

	ListUsers(ctx context.Context) ([]User, error)
}
