// Package postgres provides the pgx-backed record store, including the
// transactional outbox rows that accompany log and streak writes.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/habits/internal/domain"
	"example.com/habits/internal/events"
)

// Repository provides Postgres-backed persistence for the habit record store.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const activityTypeColumns = `type_id, COALESCE(owner_id, ''), name, icon, color, category, is_default, created_at`

// CreateActivityType inserts a custom activity type.
func (r *Repository) CreateActivityType(ctx context.Context, t domain.ActivityType) error {
	const stmt = `INSERT INTO activity_types (type_id, owner_id, name, icon, color, category, is_default, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	_, err := r.pool.Exec(ctx, stmt,
		t.ID,
		nullIfEmpty(t.OwnerID),
		t.Name,
		t.Icon,
		t.Color,
		string(t.Category),
		t.IsDefault,
		t.CreatedAt,
	)
	return err
}

// GetActivityType retrieves a type by id. Returns nil when absent.
func (r *Repository) GetActivityType(ctx context.Context, id string) (*domain.ActivityType, error) {
	query := `SELECT ` + activityTypeColumns + ` FROM activity_types WHERE type_id=$1`

	row := r.pool.QueryRow(ctx, query, id)
	t, err := scanActivityType(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// ListActivityTypes returns system defaults plus the owner's custom types.
func (r *Repository) ListActivityTypes(ctx context.Context, ownerID string) ([]domain.ActivityType, error) {
	query := `SELECT ` + activityTypeColumns + ` FROM activity_types
        WHERE owner_id IS NULL OR owner_id=$1
        ORDER BY is_default DESC, created_at, type_id`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ActivityType, 0)
	for rows.Next() {
		t, err := scanActivityType(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// DeleteActivityType removes one of the owner's custom types.
func (r *Repository) DeleteActivityType(ctx context.Context, ownerID, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM activity_types WHERE type_id=$1 AND owner_id=$2`, id, ownerID)
	return err
}

const logColumns = `log_id, owner_id, type_id, log_date, minutes, COALESCE(notes, ''), created_at`

// CreateLog persists the log and records a habit.logged outbox event inside a
// single transaction.
func (r *Repository) CreateLog(ctx context.Context, entry domain.ActivityLog) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const stmt = `INSERT INTO activity_logs (log_id, owner_id, type_id, log_date, minutes, notes, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err = tx.Exec(ctx, stmt,
		entry.ID,
		entry.OwnerID,
		entry.ActivityTypeID,
		entry.Date,
		entry.Minutes,
		nullIfEmpty(entry.Notes),
		entry.CreatedAt,
	)
	if err != nil {
		return err
	}

	err = insertOutbox(ctx, tx, "habit.logged", entry.OwnerID, entry.ID, events.HabitLogged{
		LogID:          entry.ID,
		OwnerID:        entry.OwnerID,
		ActivityTypeID: entry.ActivityTypeID,
		Date:           entry.Date.Format(domain.DateLayout),
		Minutes:        entry.Minutes,
		RecordedAt:     entry.CreatedAt,
	})
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetLog retrieves an owner's log by id. Returns nil when absent.
func (r *Repository) GetLog(ctx context.Context, ownerID, id string) (*domain.ActivityLog, error) {
	query := `SELECT ` + logColumns + ` FROM activity_logs WHERE owner_id=$1 AND log_id=$2`

	row := r.pool.QueryRow(ctx, query, ownerID, id)
	entry, err := scanLog(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

// ListLogs returns the owner's logs newest first with keyset pagination.
func (r *Repository) ListLogs(ctx context.Context, ownerID string, cursor *domain.Cursor, limit int) ([]domain.ActivityLog, *domain.Cursor, error) {
	args := []interface{}{ownerID, limit}
	query := `SELECT ` + logColumns + ` FROM activity_logs WHERE owner_id=$1`

	if cursor != nil {
		query += ` AND (created_at, log_id) < ($3, $4)`
		args = append(args, cursor.CreatedAt, cursor.ID)
	}

	query += ` ORDER BY created_at DESC, log_id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results := make([]domain.ActivityLog, 0, limit)
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var next *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		next = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return results, next, nil
}

// ListLogsInRange returns the owner's logs with dates in [from, to], ordered
// by date then creation time.
func (r *Repository) ListLogsInRange(ctx context.Context, ownerID string, from, to time.Time) ([]domain.ActivityLog, error) {
	query := `SELECT ` + logColumns + ` FROM activity_logs
        WHERE owner_id=$1 AND log_date BETWEEN $2 AND $3
        ORDER BY log_date, created_at, log_id`

	rows, err := r.pool.Query(ctx, query, ownerID, domain.DateOf(from), domain.DateOf(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ActivityLog, 0)
	for rows.Next() {
		entry, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *entry)
	}
	return out, rows.Err()
}

// DeleteLog removes an owner's log entry.
func (r *Repository) DeleteLog(ctx context.Context, ownerID, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM activity_logs WHERE owner_id=$1 AND log_id=$2`, ownerID, id)
	return err
}

// GetStreak returns nil for users who have never logged.
func (r *Repository) GetStreak(ctx context.Context, ownerID string) (*domain.Streak, error) {
	const query = `SELECT owner_id, current_streak, longest_streak, last_active_date
        FROM streaks WHERE owner_id=$1`

	row := r.pool.QueryRow(ctx, query, ownerID)
	var s domain.Streak
	var lastActive *time.Time
	if err := row.Scan(&s.OwnerID, &s.CurrentStreak, &s.LongestStreak, &lastActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if lastActive != nil {
		s.LastActiveDate = domain.DateOf(*lastActive)
	}
	return &s, nil
}

// SaveStreak upserts the streak and records a streak.updated outbox event in
// the same transaction.
func (r *Repository) SaveStreak(ctx context.Context, s domain.Streak) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const stmt = `INSERT INTO streaks (owner_id, current_streak, longest_streak, last_active_date)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (owner_id) DO UPDATE
        SET current_streak=EXCLUDED.current_streak,
            longest_streak=EXCLUDED.longest_streak,
            last_active_date=EXCLUDED.last_active_date`

	var lastActive interface{}
	if !s.LastActiveDate.IsZero() {
		lastActive = s.LastActiveDate
	}
	if _, err = tx.Exec(ctx, stmt, s.OwnerID, s.CurrentStreak, s.LongestStreak, lastActive); err != nil {
		return err
	}

	err = insertOutbox(ctx, tx, "streak.updated", s.OwnerID, s.OwnerID, events.StreakUpdated{
		OwnerID:        s.OwnerID,
		CurrentStreak:  s.CurrentStreak,
		LongestStreak:  s.LongestStreak,
		LastActiveDate: s.LastActiveDate.Format(domain.DateLayout),
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListUsers returns every known user ordered by creation time.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT user_id, email, created_at FROM users ORDER BY created_at, user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func insertOutbox(ctx context.Context, tx pgx.Tx, eventType, ownerID, aggregateID string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta, ok := eventCatalog[eventType]
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	const stmt = `INSERT INTO outbox (owner_id, aggregate_id, event_type, topic, partition_key, payload)
        VALUES ($1,$2,$3,$4,$5,$6)`

	_, err = tx.Exec(ctx, stmt, ownerID, aggregateID, eventType, meta.Topic, ownerID, body)
	return err
}

func scanActivityType(row pgx.Row) (*domain.ActivityType, error) {
	var t domain.ActivityType
	var category string
	if err := row.Scan(&t.ID, &t.OwnerID, &t.Name, &t.Icon, &t.Color, &category, &t.IsDefault, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Category = domain.Category(category)
	return &t, nil
}

func scanLog(row pgx.Row) (*domain.ActivityLog, error) {
	var entry domain.ActivityLog
	if err := row.Scan(&entry.ID, &entry.OwnerID, &entry.ActivityTypeID, &entry.Date, &entry.Minutes, &entry.Notes, &entry.CreatedAt); err != nil {
		return nil, err
	}
	entry.Date = domain.DateOf(entry.Date)
	return &entry, nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic string
}

var eventCatalog = map[string]EventMetadata{
	"habit.logged":   {Topic: "habit_events"},
	"streak.updated": {Topic: "streak_events"},
}
