// Package scheduler runs periodic maintenance jobs on robfig/cron.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/candor-hq/candor/internal/shared/biztime"
	"github.com/candor-hq/candor/internal/shared/logger"
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BatchJobFunc adapts a function to BatchJob.
type BatchJobFunc func(ctx context.Context) (int, error)

func (f BatchJobFunc) Execute(ctx context.Context) (int, error) {
	return f(ctx)
}

// Accepts 5-field expressions and descriptors such as "@every 1h".
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

const defaultJobTimeout = 10 * time.Minute

// SchedulerManager owns one cron instance. Overlapping runs of the same job
// are skipped and panics are recovered and logged.
type SchedulerManager struct {
	cron   *cron.Cron
	logger logger.Interface

	started   bool
	startedMu sync.Mutex
}

func NewSchedulerManager(log logger.Interface) *SchedulerManager {
	cl := &cronLogger{log: log}
	c := cron.New(
		cron.WithLocation(biztime.Location()),
		cron.WithParser(parser),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		cron.WithLogger(cl),
	)
	return &SchedulerManager{
		cron:   c,
		logger: log,
	}
}

// RegisterAutoCloseJob schedules the job that closes issues left resolved
// beyond the configured age.
func (m *SchedulerManager) RegisterAutoCloseJob(schedule string, job BatchJob) error {
	return m.register("close-stale-resolved", schedule, job)
}

func (m *SchedulerManager) register(name, schedule string, job BatchJob) error {
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid schedule %q for %s: %w", schedule, name, err)
	}

	_, err := m.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultJobTimeout)
		defer cancel()
		m.run(ctx, name, job)
	})
	if err != nil {
		return fmt.Errorf("failed to register %s: %w", name, err)
	}

	m.logger.Infow("registered scheduled job", "job", name, "schedule", schedule)
	return nil
}

func (m *SchedulerManager) run(ctx context.Context, name string, job BatchJob) {
	m.logger.Debugw("scheduled job started", "job", name)
	startTime := biztime.NowUTC()

	count, err := job.Execute(ctx)
	if err != nil {
		m.logger.Errorw("scheduled job failed",
			"job", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if count > 0 {
		m.logger.Infow("scheduled job processed items",
			"job", name,
			"count", count,
			"duration", time.Since(startTime),
		)
	} else {
		m.logger.Debugw("scheduled job had nothing to do",
			"job", name,
			"duration", time.Since(startTime),
		)
	}
}

// Entries reports how many jobs are registered.
func (m *SchedulerManager) Entries() int {
	return len(m.cron.Entries())
}

func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()
	if m.started {
		return
	}
	m.cron.Start()
	m.started = true
	m.logger.Infow("scheduler started", "jobs", len(m.cron.Entries()))
}

// Stop waits for running jobs until ctx is done.
func (m *SchedulerManager) Stop(ctx context.Context) error {
	m.startedMu.Lock()
	if !m.started {
		m.startedMu.Unlock()
		return nil
	}
	m.started = false
	m.startedMu.Unlock()

	done := m.cron.Stop()
	select {
	case <-done.Done():
		m.logger.Infow("scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("scheduler stop: %w", ctx.Err())
	}
}

// cronLogger adapts logger.Interface to cron.Logger.
type cronLogger struct {
	log logger.Interface
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw("cron: "+msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
