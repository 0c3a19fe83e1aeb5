package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	redisclient "github.com/botanex/marketplace-backend/internal/clients/redis"
	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/repos"
	"github.com/botanex/marketplace-backend/internal/types"
)

// RunCounts is the per-run tally the coordinator records: entities processed
// and per-entity failures. Insufficient-data skips count in neither.
type RunCounts struct {
	Processed int
	Errors    int
}

// RunCoordinator wraps every batch job in a fleet-wide named lock and an
// IntelRun metadata row. A held lock means another process is already
// computing from current data, so the invocation is a silent no-op rather
// than queued work.
type RunCoordinator struct {
	db      *gorm.DB
	log     *logger.Logger
	locker  redisclient.JobLocker
	runs    repos.IntelRunRepo
	lockTTL time.Duration
}

func NewRunCoordinator(db *gorm.DB, baseLog *logger.Logger, locker redisclient.JobLocker, runs repos.IntelRunRepo, lockTTL time.Duration) *RunCoordinator {
	if lockTTL <= 0 {
		lockTTL = 10 * time.Minute
	}
	return &RunCoordinator{
		db:      db,
		log:     baseLog.With("service", "RunCoordinator"),
		locker:  locker,
		runs:    runs,
		lockTTL: lockTTL,
	}
}

func lockKey(jobKind string) string { return "intel:lock:" + jobKind }

// RunExclusive executes fn under the job kind's lock. skipped is true when
// the lock was held elsewhere; that is not an error. The lock is always
// released on the way out, and the TTL bounds leakage if the process dies
// mid-run.
func (c *RunCoordinator) RunExclusive(ctx context.Context, jobKind string, fn func(ctx context.Context) (RunCounts, error)) (RunCounts, bool, error) {
	release, acquired, err := c.locker.Acquire(ctx, lockKey(jobKind), c.lockTTL)
	if err != nil {
		return RunCounts{}, false, fmt.Errorf("acquire %s lock: %w", jobKind, err)
	}
	if !acquired {
		c.log.Info("Job already running elsewhere, skipping", "job_kind", jobKind)
		return RunCounts{}, true, nil
	}
	defer release()

	run := &types.IntelRun{
		JobKind:   jobKind,
		Status:    types.IntelRunStatusRunning,
		StartedAt: time.Now(),
	}
	if err := c.runs.Create(ctx, nil, run); err != nil {
		return RunCounts{}, false, fmt.Errorf("create run row: %w", err)
	}

	counts, runErr := fn(ctx)
	status := types.IntelRunStatusCompleted
	if runErr != nil {
		status = types.IntelRunStatusFailed
	}
	if err := c.runs.Finish(ctx, nil, run.ID, status, counts.Processed, counts.Errors); err != nil {
		c.log.Error("Failed to finalize run row", "job_kind", jobKind, "run_id", run.ID, "error", err)
	}
	if runErr != nil {
		return counts, false, fmt.Errorf("%s run: %w", jobKind, runErr)
	}
	c.log.Info("Job run completed", "job_kind", jobKind, "processed", counts.Processed, "errors", counts.Errors)
	return counts, false, nil
}
