// Package scheduler runs the nightly per-user summary job.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"example.com/habits/internal/domain"
	"example.com/habits/internal/observability"
	"example.com/habits/internal/service"
)

// Summarizer computes yesterday's rollup for every user once a day and
// publishes the totals as metrics and structured log lines.
type Summarizer struct {
	cron   *cron.Cron
	repo   domain.Repository
	svc    *service.Service
	logger *log.Logger
	now    func() time.Time
}

// New constructs a Summarizer on the UTC clock.
func New(repo domain.Repository, svc *service.Service, logger *log.Logger) *Summarizer {
	return &Summarizer{
		cron:   cron.New(cron.WithLocation(time.UTC), cron.WithSeconds()),
		repo:   repo,
		svc:    svc,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ScheduleDaily registers the job at the given HH:MM time string.
func (s *Summarizer) ScheduleDaily(timeStr string) error {
	spec, err := buildDailySpec(timeStr)
	if err != nil {
		return err
	}
	_, err = s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) })
	return err
}

// Start launches the cron loop.
func (s *Summarizer) Start() {
	s.cron.Start()
}

// Stop halts the cron loop and waits for running jobs.
func (s *Summarizer) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunOnce summarizes yesterday for every known user. Per-user failures are
// logged and skipped so one broken account cannot starve the rest.
func (s *Summarizer) RunOnce(ctx context.Context) {
	yesterday := domain.DateOf(s.now()).AddDate(0, 0, -1)

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		s.logger.Error("daily summary: list users", "err", err)
		return
	}

	for _, user := range users {
		daily, err := s.svc.GetDaily(ctx, user.ID, yesterday)
		if err != nil {
			s.logger.Error("daily summary failed", "user", user.ID, "err", err)
			continue
		}
		observability.RecordDailySummary(user.ID, daily.TotalMinutes)
		s.logger.Info("daily summary",
			"user", user.ID,
			"date", daily.Date,
			"minutes", daily.TotalMinutes,
			"productive", daily.ProductiveMinutes,
			"leisure", daily.LeisureMinutes,
		)
	}
}

func buildDailySpec(timeStr string) (string, error) {
	parts := strings.Split(timeStr, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in %q", timeStr)
	}
	// cron format: second minute hour dom month dow
	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
