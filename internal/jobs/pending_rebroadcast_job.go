package jobs

import (
	"context"
	"log/slog"

	"homeservice/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// PendingRebroadcastJob periodically re-broadcasts requests that are still
// pending to the matching providers. A request stays visible to newly
// onboarded or newly online providers until someone accepts it.
type PendingRebroadcastJob struct {
	handler commands.RebroadcastPendingCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewPendingRebroadcastJob creates a job that sweeps pending requests
// every thirty seconds.
func NewPendingRebroadcastJob(handler commands.RebroadcastPendingCommandHandler, logger *slog.Logger) *PendingRebroadcastJob {
	return &PendingRebroadcastJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "pending_rebroadcast_job"),
	}
}

// Start begins the pending re-broadcast sweep.
func (j *PendingRebroadcastJob) Start() error {
	_, err := j.cron.AddFunc("*/30 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewRebroadcastPendingCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Pending re-broadcast job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Pending re-broadcast job started (running every 30 seconds)")
	return nil
}

// Stop stops the pending re-broadcast job.
func (j *PendingRebroadcastJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Pending re-broadcast job stopped")
}
