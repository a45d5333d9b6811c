package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/habits/internal/domain"
)

func TestSeededDefaults(t *testing.T) {
	repo := New()

	types, err := repo.ListActivityTypes(context.Background(), "anyone")
	require.NoError(t, err)
	require.Len(t, types, 10)

	byCategory := map[domain.Category]int{}
	for _, at := range types {
		require.True(t, at.IsDefault)
		require.Empty(t, at.OwnerID)
		byCategory[at.Category]++
	}
	require.Equal(t, 3, byCategory[domain.CategoryProductive])
	require.Equal(t, 3, byCategory[domain.CategoryHealth])
	require.Equal(t, 3, byCategory[domain.CategoryLeisure])
	require.Equal(t, 1, byCategory[domain.CategoryOther])
}

func TestCustomTypeVisibility(t *testing.T) {
	repo := New()
	ctx := context.Background()

	custom := domain.ActivityType{
		ID:        "custom-1",
		OwnerID:   "user-1",
		Name:      "Piano",
		Category:  domain.CategoryProductive,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateActivityType(ctx, custom))

	mine, err := repo.ListActivityTypes(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 11)

	theirs, err := repo.ListActivityTypes(ctx, "user-2")
	require.NoError(t, err)
	require.Len(t, theirs, 10)
}

func TestListLogsKeysetPagination(t *testing.T) {
	repo := New()
	ctx := context.Background()
	base := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 7; i++ {
		require.NoError(t, repo.CreateLog(ctx, domain.ActivityLog{
			ID:             "log-" + string(rune('a'+i)),
			OwnerID:        "user-1",
			ActivityTypeID: "t-1",
			Date:           base.AddDate(0, 0, -i),
			Minutes:        10,
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page1, cursor, err := repo.ListLogs(ctx, "user-1", nil, 3)
	require.NoError(t, err)
	require.Len(t, page1, 3)
	require.NotNil(t, cursor)
	require.Equal(t, "log-g", page1[0].ID) // newest first

	page2, cursor, err := repo.ListLogs(ctx, "user-1", cursor, 3)
	require.NoError(t, err)
	require.Len(t, page2, 3)
	require.NotNil(t, cursor)

	page3, _, err := repo.ListLogs(ctx, "user-1", cursor, 3)
	require.NoError(t, err)
	require.Len(t, page3, 1)

	seen := map[string]bool{}
	for _, entry := range append(append(page1, page2...), page3...) {
		require.False(t, seen[entry.ID])
		seen[entry.ID] = true
	}
}

func TestListLogsInRangeOrdering(t *testing.T) {
	repo := New()
	ctx := context.Background()
	base := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	entries := []domain.ActivityLog{
		{ID: "b", OwnerID: "user-1", ActivityTypeID: "t", Date: base.AddDate(0, 0, 2), Minutes: 1, CreatedAt: base},
		{ID: "a", OwnerID: "user-1", ActivityTypeID: "t", Date: base, Minutes: 1, CreatedAt: base},
		{ID: "c", OwnerID: "user-2", ActivityTypeID: "t", Date: base, Minutes: 1, CreatedAt: base},
	}
	for _, entry := range entries {
		require.NoError(t, repo.CreateLog(ctx, entry))
	}

	out, err := repo.ListLogsInRange(ctx, "user-1", base, base.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, "a", out[0].ID)
	require.Equal(t, "b", out[1].ID)
}

func TestStreakRoundTrip(t *testing.T) {
	repo := New()
	ctx := context.Background()

	missing, err := repo.GetStreak(ctx, "user-1")
	require.NoError(t, err)
	require.Nil(t, missing)

	saved := domain.Streak{
		OwnerID:        "user-1",
		CurrentStreak:  4,
		LongestStreak:  9,
		LastActiveDate: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.SaveStreak(ctx, saved))

	loaded, err := repo.GetStreak(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, saved, *loaded)
}

func TestListUsers(t *testing.T) {
	repo := New()
	ctx := context.Background()
	base := time.Now().UTC()

	require.NoError(t, repo.AddUser(ctx, domain.User{ID: "u2", Email: "b@example.com", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.AddUser(ctx, domain.User{ID: "u1", Email: "a@example.com", CreatedAt: base}))

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "u1", users[0].ID)
}
