// Package scheduler runs the console's periodic jobs (rate refresh, low-stock
// polling, idle workspace sweep) on a robfig/cron runner.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/ridloal/retail-admin-console/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

type Job func(ctx context.Context)

// Scheduler wraps a cron runner. Jobs never overlap with themselves; a run
// that is still going when the next tick fires makes that tick a no-op.
type Scheduler struct {
	cron *cron.Cron

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	entries map[string]cron.EntryID
}

func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	l := cronLogger{}
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(l), cron.WithChain(cron.Recover(l), cron.SkipIfStillRunning(l))),
		ctx:     ctx,
		cancel:  cancel,
		entries: map[string]cron.EntryID{},
	}
}

// Add registers job under name, replacing any job already using that name.
// spec accepts standard cron lines and descriptors such as "@every 60s".
func (s *Scheduler) Add(name, spec string, job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.entries[name]; ok {
		s.cron.Remove(id)
		delete(s.entries, name)
	}
	ctx := s.ctx
	id, err := s.cron.AddFunc(spec, func() {
		job(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	s.entries[name] = id
	logger.Info("Scheduler: job %s registered with spec '%s'", name, spec)
	return nil
}

func (s *Scheduler) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.entries[name]; ok {
		s.cron.Remove(id)
		delete(s.entries, name)
	}
}

func (s *Scheduler) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[name]
	return ok
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels the context handed to jobs and waits for running jobs to end
// or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logger.Warn("Scheduler: stop timed out with jobs still running")
	}
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	// cron reports every wake-up at info level; only errors are interesting.
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("Scheduler: %s %v", err, msg, keysAndValues)
}
