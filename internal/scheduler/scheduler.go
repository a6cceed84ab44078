package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
	"github.com/yungbote/roadmaphub-backend/internal/services"
)

// Scheduler runs the periodic score reconciliation pass. Scores are
// recomputed from completion state on every write path already; this
// job exists to heal any drift left by crashed transactions or manual
// data edits.
type Scheduler struct {
	cron         *gocron.Scheduler
	log          *logger.Logger
	scoreService services.ScoreService
	interval     time.Duration
}

func New(log *logger.Logger, scoreService services.ScoreService, interval time.Duration) *Scheduler {
	return &Scheduler{
		cron:         gocron.NewScheduler(time.UTC),
		log:          log.With("component", "Scheduler"),
		scoreService: scoreService,
		interval:     interval,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.Every(s.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		summary, err := s.scoreService.RecalculateAll(ctx)
		if err != nil {
			s.log.Error("score reconciliation failed", "error", err)
			return
		}
		if summary.UpdatedCount > 0 {
			s.log.Warn("score reconciliation corrected drift",
				"updated", summary.UpdatedCount,
				"delta", summary.TotalScoreDelta)
		}
	})
	if err != nil {
		return err
	}
	s.cron.StartAsync()
	s.log.Info("scheduler started", "interval", s.interval)
	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}
