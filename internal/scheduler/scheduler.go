package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockEstimator/internal/logger"
	"StockEstimator/internal/screen"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher is the "get data" action the scheduler triggers.
type Refresher interface {
	GetData(ctx context.Context) error
}

// Scheduler manages the cron-driven chart refresh.
type Scheduler struct {
	Cron    *cron.Cron
	Target  Refresher
	Timeout time.Duration
	Ctx     context.Context
	log     *zap.Logger
}

// NewScheduler creates a new Scheduler. Cron specs include a seconds field.
func NewScheduler(ctx context.Context, target Refresher, log *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds()),
		Target: target,
		Ctx:    ctx,
		log:    logger.OrNop(log),
	}
}

// Register adds the refresh task. An empty spec registers nothing.
func (s *Scheduler) Register(refreshCron string) error {
	if refreshCron == "" {
		return nil
	}
	if _, err := s.Cron.AddFunc(refreshCron, s.RunNow); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	s.log.Info("refresh task registered", zap.String("cron", refreshCron))
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunNow performs one refresh. A trigger that lands while a fetch is in
// flight is skipped.
func (s *Scheduler) RunNow() {
	ctx := s.Ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	err := s.Target.GetData(ctx)
	switch {
	case err == nil:
		s.log.Debug("scheduled refresh finished")
	case errors.Is(err, screen.ErrBusy):
		s.log.Info("scheduled refresh skipped, fetch in progress")
	default:
		s.log.Error("scheduled refresh failed", zap.Error(err))
	}
}
