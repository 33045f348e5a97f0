package jobs

import (
	"context"
	"log/slog"
	"time"

	"homeservice/internal/tracking"

	"github.com/robfig/cron/v3"
)

// locationSweeper evicts provider positions that have not been refreshed
// within the given ttl and reports how many were removed.
type locationSweeper interface {
	SweepStale(now time.Time, ttl time.Duration) int
}

// StaleLocationSweepJob evicts provider positions older than the tracking
// TTL so customers never see a frozen marker as a live one.
type StaleLocationSweepJob struct {
	feed   locationSweeper
	ttl    time.Duration
	cron   *cron.Cron
	logger *slog.Logger
}

// NewStaleLocationSweepJob creates a job that sweeps the location feed
// once a minute using the default tracking TTL.
func NewStaleLocationSweepJob(feed locationSweeper, logger *slog.Logger) *StaleLocationSweepJob {
	return &StaleLocationSweepJob{
		feed:   feed,
		ttl:    tracking.DefaultLocationTTL,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "stale_location_sweep_job"),
	}
}

// Start begins the stale location sweep.
func (j *StaleLocationSweepJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		removed := j.feed.SweepStale(time.Now().UTC(), j.ttl)
		if removed > 0 {
			j.logger.InfoContext(context.Background(), "Swept stale provider locations", "removed", removed)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale location sweep job started (running every minute)")
	return nil
}

// Stop stops the stale location sweep job.
func (j *StaleLocationSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale location sweep job stopped")
}
