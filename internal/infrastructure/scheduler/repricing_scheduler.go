// Package scheduler runs the periodic repricing evaluation.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RepricingExecutor evaluates every enabled pricing rule once.
// Implementations must isolate per-product failures internally; an error
// return means the run itself could not start or finish.
type RepricingExecutor interface {
	RepriceAll(ctx context.Context) error
}

// RepricingSchedulerConfig holds configuration for the interval scheduler
type RepricingSchedulerConfig struct {
	// Enabled indicates if the scheduler is enabled
	Enabled bool
	// Interval is the time between repricing runs
	Interval time.Duration
	// RunOnStart triggers a run immediately when the scheduler starts
	RunOnStart bool
	// JobTimeout is the maximum time a single run can take
	JobTimeout time.Duration
}

// DefaultRepricingSchedulerConfig returns defaults: a run every six hours.
func DefaultRepricingSchedulerConfig() RepricingSchedulerConfig {
	return RepricingSchedulerConfig{
		Enabled:    true,
		Interval:   6 * time.Hour,
		RunOnStart: false,
		JobTimeout: 30 * time.Minute,
	}
}

// Validate validates the configuration
func (c *RepricingSchedulerConfig) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.JobTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// RepricingScheduler triggers repricing runs on a fixed interval. Runs are
// serialized: if a run is still executing when the next tick arrives, the
// tick is skipped rather than queued.
type RepricingScheduler struct {
	config   RepricingSchedulerConfig
	executor RepricingExecutor
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	inFlight  bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewRepricingScheduler creates a new interval-based repricing scheduler
func NewRepricingScheduler(config RepricingSchedulerConfig, executor RepricingExecutor, logger *zap.Logger) (*RepricingScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &RepricingScheduler{
		config:   config,
		executor: executor,
		logger:   logger,
	}, nil
}

// Start starts the scheduler loop
func (s *RepricingScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	next := time.Now().Add(s.config.Interval)
	s.nextRunAt = &next
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Repricing scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Bool("run_on_start", s.config.RunOnStart),
	)

	if s.config.RunOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runOnce(ctx)
		}()
	}

	return nil
}

// Stop gracefully stops the scheduler, waiting for an in-flight run
func (s *RepricingScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Repricing scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Repricing scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *RepricingScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
			s.mu.Lock()
			next := time.Now().Add(s.config.Interval)
			s.nextRunAt = &next
			s.mu.Unlock()
		}
	}
}

// runOnce executes a single repricing run with the configured timeout.
// Overlapping runs are skipped.
func (s *RepricingScheduler) runOnce(ctx context.Context) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		s.logger.Warn("Skipping repricing run, previous run still in progress")
		return
	}
	s.inFlight = true
	now := time.Now()
	s.lastRunAt = &now
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	started := time.Now()
	if err := s.executor.RepriceAll(runCtx); err != nil {
		s.logger.Error("Repricing run failed",
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("Repricing run finished",
		zap.Duration("elapsed", time.Since(started)),
	)
}

// TriggerManualRun starts a repricing run outside the schedule.
// The run uses a background context so it survives the HTTP request
// that triggered it.
func (s *RepricingScheduler) TriggerManualRun() error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrRunInProgress
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runOnce(context.Background())
	}()
	return nil
}

// GetStatus returns the current scheduler state for the admin endpoint
func (s *RepricingScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":     s.config.Enabled,
		"is_running":  s.isRunning,
		"in_flight":   s.inFlight,
		"interval":    s.config.Interval.String(),
		"last_run_at": s.lastRunAt,
		"next_run_at": s.nextRunAt,
	}
}

// GetLastRunAt returns when the last run started
func (s *RepricingScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}
