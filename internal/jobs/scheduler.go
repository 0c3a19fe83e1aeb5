package jobs

import (
	"context"
	"time"

	"github.com/botanex/marketplace-backend/internal/logger"
	"github.com/botanex/marketplace-backend/internal/services"
	"github.com/botanex/marketplace-backend/internal/types"
)

// ScheduleConfig holds the per-job tick intervals. Zero disables a job's
// schedule; it can still be triggered manually.
type ScheduleConfig struct {
	MatchGeneration   time.Duration
	ChurnDetection    time.Duration
	ReorderPrediction time.Duration
	SellerScoring     time.Duration
}

// Scheduler ticks each batch job on its own interval. Every tick goes through
// the same coordinator path as a manual trigger, so overlapping ticks across
// the fleet collapse into one run via the job lock.
type Scheduler struct {
	log      *logger.Logger
	intelSvc services.IntelService
	cfg      ScheduleConfig
}

func NewScheduler(baseLog *logger.Logger, intelSvc services.IntelService, cfg ScheduleConfig) *Scheduler {
	return &Scheduler{
		log:      baseLog.With("component", "IntelScheduler"),
		intelSvc: intelSvc,
		cfg:      cfg,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.schedule(ctx, types.JobKindMatchGeneration, s.cfg.MatchGeneration, func(ctx context.Context) error {
		_, err := s.intelSvc.GenerateMatches(ctx, nil)
		return err
	})
	s.schedule(ctx, types.JobKindChurnDetection, s.cfg.ChurnDetection, func(ctx context.Context) error {
		_, err := s.intelSvc.RunChurnDetection(ctx)
		return err
	})
	s.schedule(ctx, types.JobKindReorderPrediction, s.cfg.ReorderPrediction, func(ctx context.Context) error {
		_, err := s.intelSvc.RunReorderPrediction(ctx)
		return err
	})
	s.schedule(ctx, types.JobKindSellerScoring, s.cfg.SellerScoring, func(ctx context.Context) error {
		_, err := s.intelSvc.RecalculateSellerScores(ctx)
		return err
	})
}

func (s *Scheduler) schedule(ctx context.Context, jobKind string, interval time.Duration, run func(ctx context.Context) error) {
	if interval <= 0 {
		s.log.Info("Job schedule disabled", "job_kind", jobKind)
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		s.log.Info("Job schedule started", "job_kind", jobKind, "interval", interval.String())
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := run(ctx); err != nil {
					s.log.Error("Scheduled job failed", "job_kind", jobKind, "error", err)
				}
			}
		}
	}()
}
