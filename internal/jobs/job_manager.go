package jobs

import (
	"context"
	"fmt"
)

// JobManager coordinates the background work of the application.
// Provides a unified interface to start and stop the handling pool and the trim job.
type JobManager struct {
	pool    *OrderHandlingPool
	trimJob *EventTrimJob
}

func NewJobManager(pool *OrderHandlingPool, trimJob *EventTrimJob) *JobManager {
	return &JobManager{
		pool:    pool,
		trimJob: trimJob,
	}
}

// StartAll starts the pool, then the trim job.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll(ctx context.Context) error {
	if err := jm.pool.Start(ctx); err != nil {
		return fmt.Errorf("failed to start order handling pool: %w", err)
	}

	if err := jm.trimJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.pool.Stop()
		return fmt.Errorf("failed to start event trim job: %w", err)
	}

	return nil
}

// StopAll stops the trim job and drains the pool.
func (jm *JobManager) StopAll() {
	jm.trimJob.Stop()
	jm.pool.Stop()
}
