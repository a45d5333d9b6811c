package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/habits/internal/domain"
	"example.com/habits/internal/persistence/memory"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memory.Repository) {
	t.Helper()
	repo := memory.New()
	svc := NewWithClock(repo, func() time.Time { return fixedNow })
	return svc, repo
}

func typeIDByName(t *testing.T, svc *Service, owner, name string) string {
	t.Helper()
	types, err := svc.ListActivityTypes(context.Background(), owner)
	require.NoError(t, err)
	for _, at := range types {
		if at.Name == name {
			return at.ID
		}
	}
	t.Fatalf("no activity type named %q", name)
	return ""
}

func TestRecordLogForTodayAdvancesStreak(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	workID := typeIDByName(t, svc, "user-1", "Work")

	entry, err := svc.RecordLog(ctx, RecordLogInput{
		OwnerID:        "user-1",
		ActivityTypeID: workID,
		Date:           fixedNow,
		Minutes:        45,
	})
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)

	streak, err := svc.GetStreak(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, streak.CurrentStreak)
	require.Equal(t, 1, streak.LongestStreak)
}

func TestBackdatedLogDoesNotTouchStreak(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	workID := typeIDByName(t, svc, "user-1", "Work")

	_, err := svc.RecordLog(ctx, RecordLogInput{
		OwnerID:        "user-1",
		ActivityTypeID: workID,
		Date:           fixedNow.AddDate(0, 0, -3),
		Minutes:        45,
	})
	require.NoError(t, err)

	streak, err := svc.GetStreak(ctx, "user-1")
	require.NoError(t, err)
	require.Zero(t, streak.CurrentStreak)
	require.True(t, streak.LastActiveDate.IsZero())
}

func TestSecondLogSameDayDoesNotDoubleCount(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	workID := typeIDByName(t, svc, "user-1", "Work")

	for i := 0; i < 2; i++ {
		_, err := svc.RecordLog(ctx, RecordLogInput{
			OwnerID:        "user-1",
			ActivityTypeID: workID,
			Date:           fixedNow,
			Minutes:        30,
		})
		require.NoError(t, err)
	}

	streak, err := svc.GetStreak(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, 1, streak.CurrentStreak)
}

func TestRecordLogRejectsUnknownType(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RecordLog(context.Background(), RecordLogInput{
		OwnerID:        "user-1",
		ActivityTypeID: "nope",
		Date:           fixedNow,
		Minutes:        30,
	})
	require.ErrorIs(t, err, domain.ErrActivityTypeNotFound)
}

func TestRecordLogRejectsForeignCustomType(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateActivityType(ctx, CreateActivityTypeInput{
		OwnerID:  "user-2",
		Name:     "Piano",
		Category: domain.CategoryProductive,
	})
	require.NoError(t, err)

	_, err = svc.RecordLog(ctx, RecordLogInput{
		OwnerID:        "user-1",
		ActivityTypeID: created.ID,
		Date:           fixedNow,
		Minutes:        30,
	})
	require.ErrorIs(t, err, domain.ErrActivityTypeNotFound)
}

func TestGetStreakDefaultsToFresh(t *testing.T) {
	svc, _ := newTestService(t)

	streak, err := svc.GetStreak(context.Background(), "nobody")
	require.NoError(t, err)
	require.Equal(t, "nobody", streak.OwnerID)
	require.Zero(t, streak.CurrentStreak)
}

func TestDeleteActivityTypeRules(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	workID := typeIDByName(t, svc, "user-1", "Work")
	err := svc.DeleteActivityType(ctx, "user-1", workID)
	require.ErrorIs(t, err, domain.ErrDefaultTypeImmutable)

	created, err := svc.CreateActivityType(ctx, CreateActivityTypeInput{
		OwnerID:  "user-1",
		Name:     "Piano",
		Category: domain.CategoryProductive,
	})
	require.NoError(t, err)

	err = svc.DeleteActivityType(ctx, "user-2", created.ID)
	require.ErrorIs(t, err, domain.ErrActivityTypeNotFound)

	require.NoError(t, svc.DeleteActivityType(ctx, "user-1", created.ID))
}

func TestGetDailyKeepsOrphanedMinutesInTotal(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateActivityType(ctx, CreateActivityTypeInput{
		OwnerID:  "user-1",
		Name:     "Piano",
		Category: domain.CategoryProductive,
	})
	require.NoError(t, err)

	_, err = svc.RecordLog(ctx, RecordLogInput{
		OwnerID:        "user-1",
		ActivityTypeID: created.ID,
		Date:           fixedNow,
		Minutes:        60,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteActivityType(ctx, "user-1", created.ID))

	daily, err := svc.GetDaily(ctx, "user-1", fixedNow)
	require.NoError(t, err)
	require.Equal(t, 60, daily.TotalMinutes)
	require.Empty(t, daily.Activities)
}

func TestGetWeeklyUsesPreviousWindowSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	workID := typeIDByName(t, svc, "user-1", "Work")

	// fixedNow is Friday 2024-03-15; previous week is 03-04 to 03-10.
	_, err := svc.RecordLog(ctx, RecordLogInput{
		OwnerID:        "user-1",
		ActivityTypeID: workID,
		Date:           time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
		Minutes:        100,
	})
	require.NoError(t, err)
	_, err = svc.RecordLog(ctx, RecordLogInput{
		OwnerID:        "user-1",
		ActivityTypeID: workID,
		Date:           fixedNow,
		Minutes:        150,
	})
	require.NoError(t, err)

	weekly, err := svc.GetWeekly(ctx, "user-1", fixedNow)
	require.NoError(t, err)
	require.Equal(t, "2024-03-11", weekly.WeekStart)
	require.Len(t, weekly.Activities, 1)
	require.Equal(t, 150, weekly.Activities[0].Minutes)
	require.Equal(t, 100, weekly.Activities[0].PreviousMinutes)
	require.InDelta(t, 50.0, weekly.Activities[0].ChangePercentage, 0.001)
}

func TestListLogsPaginates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	workID := typeIDByName(t, svc, "user-1", "Work")

	repoClockOffset := 0
	svc.now = func() time.Time {
		repoClockOffset++
		return fixedNow.Add(time.Duration(repoClockOffset) * time.Second)
	}

	for i := 0; i < 5; i++ {
		_, err := svc.RecordLog(ctx, RecordLogInput{
			OwnerID:        "user-1",
			ActivityTypeID: workID,
			Date:           fixedNow.AddDate(0, 0, -i-1),
			Minutes:        10,
		})
		require.NoError(t, err)
	}

	first, cursor, err := svc.ListLogs(ctx, "user-1", nil, 3)
	require.NoError(t, err)
	require.Len(t, first, 3)
	require.NotNil(t, cursor)

	rest, _, err := svc.ListLogs(ctx, "user-1", cursor, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)

	seen := map[string]bool{}
	for _, entry := range append(first, rest...) {
		require.False(t, seen[entry.ID], "duplicate entry across pages")
		seen[entry.ID] = true
	}
}

func TestDeleteLogUnknownID(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.DeleteLog(context.Background(), "user-1", "missing")
	require.ErrorIs(t, err, domain.ErrLogNotFound)
}
