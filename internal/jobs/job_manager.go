package jobs

import (
	"fmt"
	"log/slog"

	"homeservice/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	pendingRebroadcastJob *PendingRebroadcastJob
	staleLocationSweepJob *StaleLocationSweepJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the rebroadcast handler and the location feed as dependencies.
func NewJobManager(
	rebroadcastHandler commands.RebroadcastPendingCommandHandler,
	locationFeed locationSweeper,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		pendingRebroadcastJob: NewPendingRebroadcastJob(rebroadcastHandler, logger),
		staleLocationSweepJob: NewStaleLocationSweepJob(locationFeed, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.pendingRebroadcastJob.Start(); err != nil {
		return fmt.Errorf("failed to start pending re-broadcast job: %w", err)
	}

	if err := jm.staleLocationSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.pendingRebroadcastJob.Stop()
		return fmt.Errorf("failed to start stale location sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.staleLocationSweepJob.Stop()
	jm.pendingRebroadcastJob.Stop()
}
