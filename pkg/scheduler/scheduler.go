// Package scheduler runs periodic jobs on cron schedules for the lifetime
// of the process.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/JaimeStill/masteryhub/pkg/lifecycle"
)

// Job is a unit of periodic work. The context is cancelled on shutdown.
type Job func(ctx context.Context) error

// System schedules jobs and binds the cron runner to the lifecycle.
type System interface {
	// Add registers job under name with a standard five-field spec or a
	// descriptor such as "@every 1m".
	Add(name, spec string, job Job) error
	// Start begins running jobs once startup completes and stops them on shutdown.
	Start(lc *lifecycle.Coordinator) error
}

type scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	ctx    context.Context
}

// New creates a scheduler running in UTC.
func New(logger *slog.Logger) System {
	return &scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		logger: logger.With("system", "scheduler"),
		ctx:    context.Background(),
	}
}

func (s *scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		if err := job(s.ctx); err != nil {
			s.logger.Error("job failed", "job", name, "error", err, "duration", time.Since(start))
			return
		}
		s.logger.Debug("job completed", "job", name, "duration", time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}

	s.logger.Info("job scheduled", "job", name, "spec", spec)
	return nil
}

func (s *scheduler) Start(lc *lifecycle.Coordinator) error {
	s.ctx = lc.Context()

	lc.OnStartup(func() error {
		s.cron.Start()
		s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
		return nil
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		<-s.cron.Stop().Done()
		s.logger.Info("scheduler stopped")
	})

	return nil
}
