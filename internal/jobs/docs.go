// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the dispatch service.
//
// # Available Jobs
//
// 1. PendingRebroadcastJob - Runs every 30 seconds to re-broadcast pending requests to matching providers
// 2. StaleLocationSweepJob - Runs every minute to evict provider positions older than the tracking TTL
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(rebroadcastHandler, locationFeed, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - The re-broadcast job logs handler failures; individual provider notification failures are logged inside the handler and do not stop the sweep
// - The sweep job only logs when it actually removed stale positions
// - Failed job starts will stop any already running jobs
package jobs
