// Package service orchestrates record-store access, the stats engine, and the
// streak tracker behind the HTTP layer.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"example.com/habits/internal/domain"
	"example.com/habits/internal/observability"
	"example.com/habits/internal/stats"
	"example.com/habits/internal/streak"
)

// Service coordinates habit-tracking workflows over an injected repository.
// The clock is injectable so the "today" decision for streak updates stays
// testable; the stats and streak cores themselves never read it.
type Service struct {
	repo domain.Repository
	now  func() time.Time
}

// New constructs a Service using the UTC wall clock.
func New(repo domain.Repository) *Service {
	return NewWithClock(repo, func() time.Time { return time.Now().UTC() })
}

// NewWithClock constructs a Service with an explicit clock.
func NewWithClock(repo domain.Repository, now func() time.Time) *Service {
	return &Service{repo: repo, now: now}
}

// RecordLogInput captures the payload from the API layer. Date is a calendar
// date; Minutes has already been validated to be at least 1.
type RecordLogInput struct {
	OwnerID        string
	ActivityTypeID string
	Date           time.Time
	Minutes        int
	Notes          string
}

// RecordLog persists a log entry after verifying the referenced activity type
// is visible to the owner. When the log's date is today, the streak transition
// runs as a side effect of this call; backdated logs never touch the streak.
func (s *Service) RecordLog(ctx context.Context, input RecordLogInput) (*domain.ActivityLog, error) {
	if err := s.requireVisibleType(ctx, input.OwnerID, input.ActivityTypeID); err != nil {
		return nil, err
	}

	entry := domain.ActivityLog{
		ID:             uuid.NewString(),
		OwnerID:        input.OwnerID,
		ActivityTypeID: input.ActivityTypeID,
		Date:           domain.DateOf(input.Date),
		Minutes:        input.Minutes,
		Notes:          input.Notes,
		CreatedAt:      s.now(),
	}

	if err := s.repo.CreateLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("create log: %w", err)
	}
	observability.RecordLogPersisted(entry.CreatedAt)

	if domain.SameDay(entry.Date, s.now()) {
		if err := s.advanceStreak(ctx, input.OwnerID, entry.Date); err != nil {
			return nil, err
		}
	}

	return &entry, nil
}

func (s *Service) advanceStreak(ctx context.Context, ownerID string, day time.Time) error {
	current, err := s.repo.GetStreak(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("load streak: %w", err)
	}
	prior := streak.Fresh(ownerID)
	if current != nil {
		prior = *current
	}

	updated := streak.Apply(prior, day)
	if updated == prior {
		// Already counted for this day.
		return nil
	}
	if err := s.repo.SaveStreak(ctx, updated); err != nil {
		return fmt.Errorf("save streak: %w", err)
	}
	observability.RecordStreak(updated.CurrentStreak)
	return nil
}

// GetStreak returns the user's streak, defaulting to the fresh state.
func (s *Service) GetStreak(ctx context.Context, ownerID string) (domain.Streak, error) {
	current, err := s.repo.GetStreak(ctx, ownerID)
	if err != nil {
		return domain.Streak{}, fmt.Errorf("load streak: %w", err)
	}
	if current == nil {
		return streak.Fresh(ownerID), nil
	}
	return *current, nil
}

// GetDaily computes the rollup for a single calendar day.
func (s *Service) GetDaily(ctx context.Context, ownerID string, date time.Time) (stats.DailyStats, error) {
	day := domain.DateOf(date)
	logs, types, err := s.snapshot(ctx, ownerID, day, day)
	if err != nil {
		return stats.DailyStats{}, err
	}
	return stats.Daily(day, logs, types), nil
}

// GetWeekly computes the rollup for the Monday-start week containing anchor.
// The snapshot reaches one week further back so week-over-week deltas have
// their previous window.
func (s *Service) GetWeekly(ctx context.Context, ownerID string, anchor time.Time) (stats.WeeklyStats, error) {
	start := domain.WeekStart(anchor)
	logs, types, err := s.snapshot(ctx, ownerID, start.AddDate(0, 0, -7), start.AddDate(0, 0, 6))
	if err != nil {
		return stats.WeeklyStats{}, err
	}
	return stats.Weekly(anchor, logs, types), nil
}

// GetMonthly computes the rollup for the calendar month containing anchor.
func (s *Service) GetMonthly(ctx context.Context, ownerID string, anchor time.Time) (stats.MonthlyStats, error) {
	logs, types, err := s.snapshot(ctx, ownerID, domain.MonthStart(anchor), domain.MonthEnd(anchor))
	if err != nil {
		return stats.MonthlyStats{}, err
	}
	return stats.Monthly(anchor, logs, types), nil
}

func (s *Service) snapshot(ctx context.Context, ownerID string, from, to time.Time) ([]domain.ActivityLog, []domain.ActivityType, error) {
	logs, err := s.repo.ListLogsInRange(ctx, ownerID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("list logs: %w", err)
	}
	types, err := s.repo.ListActivityTypes(ctx, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("list activity types: %w", err)
	}
	return logs, types, nil
}

// CreateActivityTypeInput captures the payload for a custom activity type.
type CreateActivityTypeInput struct {
	OwnerID  string
	Name     string
	Icon     string
	Color    string
	Category domain.Category
}

// CreateActivityType registers a custom type owned by the caller.
func (s *Service) CreateActivityType(ctx context.Context, input CreateActivityTypeInput) (*domain.ActivityType, error) {
	t := domain.ActivityType{
		ID:        uuid.NewString(),
		OwnerID:   input.OwnerID,
		Name:      input.Name,
		Icon:      input.Icon,
		Color:     input.Color,
		Category:  input.Category,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateActivityType(ctx, t); err != nil {
		return nil, fmt.Errorf("create activity type: %w", err)
	}
	return &t, nil
}

// ListActivityTypes returns system defaults plus the owner's custom types.
func (s *Service) ListActivityTypes(ctx context.Context, ownerID string) ([]domain.ActivityType, error) {
	return s.repo.ListActivityTypes(ctx, ownerID)
}

// DeleteActivityType removes one of the owner's custom types. Shared system
// defaults cannot be deleted.
func (s *Service) DeleteActivityType(ctx context.Context, ownerID, id string) error {
	t, err := s.repo.GetActivityType(ctx, id)
	if err != nil {
		return fmt.Errorf("load activity type: %w", err)
	}
	if t == nil || (t.OwnerID != "" && t.OwnerID != ownerID) {
		return domain.ErrActivityTypeNotFound
	}
	if t.IsDefault || t.OwnerID == "" {
		return domain.ErrDefaultTypeImmutable
	}
	return s.repo.DeleteActivityType(ctx, ownerID, id)
}

// ListLogs returns the owner's log history, newest first, with keyset
// pagination.
func (s *Service) ListLogs(ctx context.Context, ownerID string, cursor *domain.Cursor, limit int) ([]domain.ActivityLog, *domain.Cursor, error) {
	return s.repo.ListLogs(ctx, ownerID, cursor, limit)
}

// DeleteLog removes a log entry by id.
func (s *Service) DeleteLog(ctx context.Context, ownerID, id string) error {
	entry, err := s.repo.GetLog(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("load log: %w", err)
	}
	if entry == nil {
		return domain.ErrLogNotFound
	}
	return s.repo.DeleteLog(ctx, ownerID, id)
}

func (s *Service) requireVisibleType(ctx context.Context, ownerID, typeID string) error {
	t, err := s.repo.GetActivityType(ctx, typeID)
	if err != nil {
		return fmt.Errorf("load activity type: %w", err)
	}
	if t == nil || (t.OwnerID != "" && t.OwnerID != ownerID) {
		return domain.ErrActivityTypeNotFound
	}
	return nil
}
