package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/types"
)

// memoryLocker is an in-process stand-in for the Redis lock with the same
// non-blocking semantics.
type memoryLocker struct {
	mu   sync.Mutex
	held map[string]bool
}

func newMemoryLocker() *memoryLocker {
	return &memoryLocker{held: map[string]bool{}}
}

func (l *memoryLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return nil, false, nil
	}
	l.held[key] = true
	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}
	return release, true, nil
}

func (l *memoryLocker) Close() error { return nil }

type memoryRunRepo struct {
	mu   sync.Mutex
	runs []*types.IntelRun
}

func (r *memoryRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.IntelRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run.ID = uuid.New()
	cp := *run
	r.runs = append(r.runs, &cp)
	return nil
}

func (r *memoryRunRepo) Finish(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string, processed, errorCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, run := range r.runs {
		if run.ID == id {
			now := time.Now()
			run.Status = status
			run.FinishedAt = &now
			run.Processed = processed
			run.Errors = errorCount
			return nil
		}
	}
	return errors.New("run not found")
}

func (r *memoryRunRepo) LatestByKind(ctx context.Context, tx *gorm.DB, jobKind string) (*types.IntelRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *types.IntelRun
	for _, run := range r.runs {
		if run.JobKind != jobKind {
			continue
		}
		if latest == nil || run.StartedAt.After(latest.StartedAt) {
			latest = run
		}
	}
	return latest, nil
}

func (r *memoryRunRepo) byStatus(status string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, run := range r.runs {
		if run.Status == status {
			n++
		}
	}
	return n
}

func testCoordinator(t *testing.T, runs *memoryRunRepo) *RunCoordinator {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return NewRunCoordinator(nil, log, newMemoryLocker(), runs, time.Minute)
}

func TestRunExclusiveRecordsRun(t *testing.T) {
	runs := &memoryRunRepo{}
	c := testCoordinator(t, runs)

	counts, skipped, err := c.RunExclusive(context.Background(), types.JobKindMatchGeneration, func(ctx context.Context) (RunCounts, error) {
		return RunCounts{Processed: 12, Errors: 1}, nil
	})
	if err != nil {
		t.Fatalf("RunExclusive: %v", err)
	}
	if skipped {
		t.Fatal("uncontended run should not be skipped")
	}
	if counts.Processed != 12 || counts.Errors != 1 {
		t.Fatalf("counts = %+v", counts)
	}

	latest, err := runs.LatestByKind(context.Background(), nil, types.JobKindMatchGeneration)
	if err != nil || latest == nil {
		t.Fatalf("latest run missing: %v", err)
	}
	if latest.Status != types.IntelRunStatusCompleted {
		t.Fatalf("run status = %q, want completed", latest.Status)
	}
	if latest.Processed != 12 || latest.Errors != 1 {
		t.Fatalf("run tallies = %d/%d", latest.Processed, latest.Errors)
	}
	if latest.FinishedAt == nil {
		t.Fatal("finished_at not set")
	}
}

func TestRunExclusiveContendedCallSkips(t *testing.T) {
	runs := &memoryRunRepo{}
	c := testCoordinator(t, runs)

	started := make(chan struct{})
	finish := make(chan struct{})
	var executions int32

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, skipped, err := c.RunExclusive(context.Background(), types.JobKindChurnDetection, func(ctx context.Context) (RunCounts, error) {
			atomic.AddInt32(&executions, 1)
			close(started)
			<-finish
			return RunCounts{Processed: 3}, nil
		})
		if err != nil {
			t.Errorf("first run errored: %v", err)
		}
		if skipped {
			t.Error("first run should not be skipped")
		}
	}()

	<-started

	// Second invocation while the first still holds the lock.
	counts, skipped, err := c.RunExclusive(context.Background(), types.JobKindChurnDetection, func(ctx context.Context) (RunCounts, error) {
		atomic.AddInt32(&executions, 1)
		return RunCounts{}, nil
	})
	if err != nil {
		t.Fatalf("contended run errored: %v", err)
	}
	if !skipped {
		t.Fatal("contended run should report skipped")
	}
	if counts.Processed != 0 || counts.Errors != 0 {
		t.Fatalf("skipped run should return zero counts, got %+v", counts)
	}

	close(finish)
	wg.Wait()

	if got := atomic.LoadInt32(&executions); got != 1 {
		t.Fatalf("job body ran %d times, want exactly 1", got)
	}
	if n := runs.byStatus(types.IntelRunStatusCompleted); n != 1 {
		t.Fatalf("completed run rows = %d, want 1 (skip writes nothing)", n)
	}
	if len(runs.runs) != 1 {
		t.Fatalf("run rows = %d, want 1", len(runs.runs))
	}
}

func TestRunExclusiveFailedRunReleasesLock(t *testing.T) {
	runs := &memoryRunRepo{}
	c := testCoordinator(t, runs)
	boom := errors.New("boom")

	_, skipped, err := c.RunExclusive(context.Background(), types.JobKindSellerScoring, func(ctx context.Context) (RunCounts, error) {
		return RunCounts{Processed: 2, Errors: 2}, boom
	})
	if skipped {
		t.Fatal("failed run is not a skip")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped job error, got %v", err)
	}

	latest, _ := runs.LatestByKind(context.Background(), nil, types.JobKindSellerScoring)
	if latest == nil || latest.Status != types.IntelRunStatusFailed {
		t.Fatalf("run should be marked failed, got %+v", latest)
	}

	// Lock must be free again for the next run.
	_, skipped, err = c.RunExclusive(context.Background(), types.JobKindSellerScoring, func(ctx context.Context) (RunCounts, error) {
		return RunCounts{Processed: 5}, nil
	})
	if err != nil || skipped {
		t.Fatalf("follow-up run should proceed, got skipped=%v err=%v", skipped, err)
	}
}
