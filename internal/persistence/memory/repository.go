// Package memory provides an in-memory record store for local development and
// tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"example.com/habits/internal/domain"
)

// Repository stores users, activity types, logs, and streaks behind a mutex.
type Repository struct {
	mu      sync.RWMutex
	users   map[string]domain.User
	types   map[string]domain.ActivityType
	logs    map[string]domain.ActivityLog
	streaks map[string]domain.Streak
}

// New constructs a Repository seeded with the shared default activity types.
func New() *Repository {
	repo := &Repository{
		users:   make(map[string]domain.User),
		types:   make(map[string]domain.ActivityType),
		logs:    make(map[string]domain.ActivityLog),
		streaks: make(map[string]domain.Streak),
	}
	repo.seed()
	return repo
}

func (r *Repository) seed() {
	r.mu.Lock()
	defer r.mu.Unlock()

	defaults := []struct {
		name, icon, color string
		category          domain.Category
	}{
		{"Work", "briefcase", "#4F46E5", domain.CategoryProductive},
		{"Study", "book-open", "#0EA5E9", domain.CategoryProductive},
		{"Reading", "book", "#059669", domain.CategoryProductive},
		{"Exercise", "dumbbell", "#DC2626", domain.CategoryHealth},
		{"Sleep", "moon", "#7C3AED", domain.CategoryHealth},
		{"Meditation", "sparkles", "#0D9488", domain.CategoryHealth},
		{"Social Media", "smartphone", "#F59E0B", domain.CategoryLeisure},
		{"Gaming", "gamepad", "#EF4444", domain.CategoryLeisure},
		{"TV", "tv", "#6B7280", domain.CategoryLeisure},
		{"Chores", "home", "#92400E", domain.CategoryOther},
	}
	now := time.Now().UTC()
	for _, d := range defaults {
		id := uuid.NewString()
		r.types[id] = domain.ActivityType{
			ID:        id,
			Name:      d.name,
			Icon:      d.icon,
			Color:     d.color,
			Category:  d.category,
			IsDefault: true,
			CreatedAt: now,
		}
	}
}

// CreateActivityType implements domain.Repository.
func (r *Repository) CreateActivityType(ctx context.Context, t domain.ActivityType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.ID] = t
	return nil
}

// GetActivityType returns nil when the id is unknown.
func (r *Repository) GetActivityType(ctx context.Context, id string) (*domain.ActivityType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

// ListActivityTypes returns defaults plus the owner's custom types, defaults
// first, each group ordered by creation time.
func (r *Repository) ListActivityTypes(ctx context.Context, ownerID string) ([]domain.ActivityType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.ActivityType, 0, len(r.types))
	for _, t := range r.types {
		if t.OwnerID == "" || t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteActivityType removes an owner's custom type.
func (r *Repository) DeleteActivityType(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.types[id]
	if !ok || t.OwnerID != ownerID {
		return nil
	}
	delete(r.types, id)
	return nil
}

// CreateLog implements domain.Repository.
func (r *Repository) CreateLog(ctx context.Context, entry domain.ActivityLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs[entry.ID] = entry
	return nil
}

// GetLog returns nil when no log matches the owner and id.
func (r *Repository) GetLog(ctx context.Context, ownerID, id string) (*domain.ActivityLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.logs[id]
	if !ok || entry.OwnerID != ownerID {
		return nil, nil
	}
	return &entry, nil
}

// ListLogs returns the owner's logs newest first with keyset pagination.
func (r *Repository) ListLogs(ctx context.Context, ownerID string, cursor *domain.Cursor, limit int) ([]domain.ActivityLog, *domain.Cursor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.ActivityLog, 0)
	for _, entry := range r.logs {
		if entry.OwnerID != ownerID {
			continue
		}
		if cursor != nil && !lessThanCursor(entry, cursor) {
			continue
		}
		all = append(all, entry)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	if limit <= 0 {
		limit = len(all)
	}
	if len(all) > limit {
		all = all[:limit]
	}

	var next *domain.Cursor
	if len(all) == limit && limit > 0 && len(all) > 0 {
		last := all[len(all)-1]
		next = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return all, next, nil
}

func lessThanCursor(entry domain.ActivityLog, cursor *domain.Cursor) bool {
	if entry.CreatedAt.Equal(cursor.CreatedAt) {
		return entry.ID < cursor.ID
	}
	return entry.CreatedAt.Before(cursor.CreatedAt)
}

// ListLogsInRange returns the owner's logs with dates in [from, to], ordered
// by date then creation time so rollups see a deterministic snapshot.
func (r *Repository) ListLogsInRange(ctx context.Context, ownerID string, from, to time.Time) ([]domain.ActivityLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	from, to = domain.DateOf(from), domain.DateOf(to)
	out := make([]domain.ActivityLog, 0)
	for _, entry := range r.logs {
		if entry.OwnerID != ownerID {
			continue
		}
		day := domain.DateOf(entry.Date)
		if day.Before(from) || day.After(to) {
			continue
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteLog removes an owner's log entry.
func (r *Repository) DeleteLog(ctx context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.logs[id]
	if !ok || entry.OwnerID != ownerID {
		return nil
	}
	delete(r.logs, id)
	return nil
}

// GetStreak returns nil for users who have never logged.
func (r *Repository) GetStreak(ctx context.Context, ownerID string) (*domain.Streak, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.streaks[ownerID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// SaveStreak upserts the user's streak record.
func (r *Repository) SaveStreak(ctx context.Context, s domain.Streak) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.streaks[s.OwnerID] = s
	return nil
}

// AddUser registers a user; used by tests and local seeding.
func (r *Repository) AddUser(ctx context.Context, u domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

// ListUsers returns every known user ordered by creation time.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
