package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Task is a periodic job body. Errors are logged, never fatal.
type Task func(ctx context.Context) error

// Scheduler runs background maintenance jobs such as expired-session cleanup.
type Scheduler struct {
	inner  gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

func New(log *zap.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("init scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		inner:  s,
		ctx:    ctx,
		cancel: cancel,
		log:    log.With(zap.String("component", "scheduler")),
	}, nil
}

// Every registers task to run each interval. Runs of the same job never
// overlap; a run still in progress pushes the next one back.
func (s *Scheduler) Every(name string, interval time.Duration, task Task) error {
	j, err := s.inner.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			start := time.Now()
			if err := task(s.ctx); err != nil {
				s.log.Error("Job failed", zap.String("job", name), zap.Error(err))
				return
			}
			s.log.Debug("Job finished", zap.String("job", name), zap.Duration("duration", time.Since(start)))
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}

	s.log.Info("Job scheduled",
		zap.String("job", name),
		zap.String("id", j.ID().String()),
		zap.Duration("interval", interval))
	return nil
}

func (s *Scheduler) Start() {
	s.inner.Start()
	s.log.Info("Scheduler started", zap.Int("jobs", len(s.inner.Jobs())))
}

// Shutdown cancels running tasks and waits for them to return.
func (s *Scheduler) Shutdown() error {
	s.cancel()
	if err := s.inner.Shutdown(); err != nil {
		return fmt.Errorf("shutdown scheduler: %w", err)
	}
	return nil
}
