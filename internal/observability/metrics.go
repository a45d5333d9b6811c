package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	logsRecordedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "habit_service",
		Subsystem: "logs",
		Name:      "recorded_total",
		Help:      "Number of activity logs persisted.",
	})
	logPersistGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "habit_service",
		Subsystem: "logs",
		Name:      "last_persisted_timestamp_seconds",
		Help:      "Unix timestamp of the most recent activity log persisted.",
	})
	streakGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "habit_service",
		Subsystem: "streak",
		Name:      "current_days",
		Help:      "Current streak length of the most recently updated user.",
	})
	summaryGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "habit_service",
		Subsystem: "scheduler",
		Name:      "daily_summary_minutes",
		Help:      "Minutes logged per user for the last summarized day.",
	}, []string{"user_id"})
)

func init() {
	prometheus.MustRegister(logsRecordedCounter, logPersistGauge, streakGauge, summaryGauge)
}

// RecordLogPersisted updates the log counter and persistence watermark.
func RecordLogPersisted(ts time.Time) {
	logsRecordedCounter.Inc()
	if ts.IsZero() {
		return
	}
	logPersistGauge.Set(float64(ts.Unix()))
}

// RecordStreak updates the streak length gauge.
func RecordStreak(days int) {
	streakGauge.Set(float64(days))
}

// RecordDailySummary publishes the scheduler's per-user daily total.
func RecordDailySummary(userID string, minutes int) {
	summaryGauge.WithLabelValues(userID).Set(float64(minutes))
}
