// Package jobs provides the background work of the fulfillment service.
//
// # Available Jobs
//
// 1. OrderHandlingPool - a fixed set of workers that run the handling pipeline for scheduled orders
// 2. EventTrimJob - a cron job (every 10 seconds by default) that trims every event channel to its newest entries
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	pool := jobs.NewOrderHandlingPool(handle, cfg.WorkerCount, cfg.WorkerQueueSize, logger)
//	trim := jobs.NewEventTrimJob(queue, cfg.EventTrimSchedule, cfg.EventMaxBacklog, logger)
//	jobManager := jobs.NewJobManager(pool, trim)
//
//	if err := jobManager.StartAll(ctx); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Pool semantics
//
// Schedule returns as soon as the order is queued and blocks only while the queue is full.
// Runs are detached from the scheduling request, so a client that disconnects does not abort
// a handling run. Stop closes intake and waits for every queued and in-flight run.
//
// # Error Handling
//
// - Handling errors are logged per order and never stop a worker
// - Trim errors are logged per channel and the other channels are still trimmed
// - Failed job starts will stop any already running jobs
package jobs
