package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	catalogapp "github.com/erp/productext/internal/application/catalog"
	"github.com/erp/productext/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobRunner runs planned price batches
type JobRunner interface {
	Run(ctx context.Context, tenantID uuid.UUID, opts catalogapp.RunOptions) (*catalogapp.BatchResult, error)
	RunAll(ctx context.Context, opts catalogapp.RunOptions) ([]*catalogapp.BatchResult, error)
}

// Config holds the planned price scheduler configuration
type Config struct {
	Schedule       DailySchedule
	BatchSize      int
	RetriggerDelay time.Duration
	JobTimeout     time.Duration
	// CheckInterval is how often the clock is compared with the schedule
	CheckInterval time.Duration
	QueueSize     int
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Schedule:       DailySchedule{Hour: 3, Minute: 0},
		BatchSize:      catalogapp.DefaultBatchSize,
		RetriggerDelay: 5 * time.Second,
		JobTimeout:     20 * time.Minute,
		CheckInterval:  time.Minute,
		QueueSize:      100,
	}
}

// run is a queued job execution. A nil tenant runs every tenant.
type run struct {
	tenantID uuid.UUID
}

// PlannedPriceScheduler runs the planned price update job once a day and on
// demand. Runs are executed one at a time by a single worker.
type PlannedPriceScheduler struct {
	config Config
	runner JobRunner
	logger *zap.Logger
	now    func() time.Time

	runs        chan run
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	mu          sync.Mutex
	isRunning   bool
	lastRunDate string
	timers      map[*time.Timer]struct{}
}

// NewPlannedPriceScheduler creates a stopped scheduler
func NewPlannedPriceScheduler(config Config, runner JobRunner, logger *zap.Logger) *PlannedPriceScheduler {
	defaults := DefaultConfig()
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaults.CheckInterval
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	return &PlannedPriceScheduler{
		config: config,
		runner: runner,
		logger: logger,
		now:    time.Now,
		runs:   make(chan run, config.QueueSize),
		timers: make(map[*time.Timer]struct{}),
	}
}

// Start starts the clock loop and the worker
func (s *PlannedPriceScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(2)
	go s.clockLoop(ctx)
	go s.worker(ctx)

	s.logger.Info("Planned price scheduler started",
		zap.String("schedule", s.config.Schedule.String()),
		zap.Int("batch_size", s.config.BatchSize),
		zap.Duration("retrigger_delay", s.config.RetriggerDelay),
	)
	return nil
}

// Stop cancels pending follow-ups and waits for the current run to finish
func (s *PlannedPriceScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	for t := range s.timers {
		t.Stop()
	}
	s.timers = make(map[*time.Timer]struct{})
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
		s.logger.Info("Planned price scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Planned price scheduler stop timed out")
		return ctx.Err()
	}
}

// Trigger schedules a follow-up batch for the tenant after the retrigger
// delay. It implements JobTrigger.
func (s *PlannedPriceScheduler) Trigger(tenantID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(s.config.RetriggerDelay, func() {
		s.mu.Lock()
		delete(s.timers, timer)
		s.mu.Unlock()
		if err := s.submit(run{tenantID: tenantID}); err != nil {
			s.logger.Warn("Failed to queue planned price follow-up",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
		}
	})
	s.timers[timer] = struct{}{}
}

// RunNow queues an immediate run. uuid.Nil runs every tenant.
func (s *PlannedPriceScheduler) RunNow(tenantID uuid.UUID) error {
	return s.submit(run{tenantID: tenantID})
}

func (s *PlannedPriceScheduler) submit(r run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}
	select {
	case s.runs <- r:
		return nil
	default:
		return ErrRunQueueFull
	}
}

func (s *PlannedPriceScheduler) clockLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndTrigger()
		}
	}
}

// checkAndTrigger queues the daily run once per day when the schedule is due
func (s *PlannedPriceScheduler) checkAndTrigger() {
	now := s.now()
	if !s.config.Schedule.Due(now) {
		return
	}
	today := now.Format("2006-01-02")

	s.mu.Lock()
	if s.lastRunDate == today {
		s.mu.Unlock()
		return
	}
	s.lastRunDate = today
	s.mu.Unlock()

	s.logger.Info("Triggering daily planned price update")
	if err := s.submit(run{}); err != nil {
		s.logger.Error("Failed to queue daily planned price update", zap.Error(err))
	}
}

func (s *PlannedPriceScheduler) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-s.runs:
			s.execute(ctx, r)
		}
	}
}

func (s *PlannedPriceScheduler) execute(ctx context.Context, r run) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	opts := catalogapp.RunOptions{BatchSize: s.config.BatchSize}
	if r.tenantID == uuid.Nil {
		if _, err := s.runner.RunAll(runCtx, opts); err != nil {
			s.logger.Error("Planned price update failed", zap.Error(err))
		}
		return
	}

	_, err := s.runner.Run(runCtx, r.tenantID, opts)
	switch {
	case err == nil:
	case errors.Is(err, shared.ErrJobRunning):
		s.logger.Info("Planned price update already running",
			zap.String("tenant_id", r.tenantID.String()),
		)
	default:
		s.logger.Error("Planned price update failed",
			zap.String("tenant_id", r.tenantID.String()),
			zap.Error(err),
		)
	}
}

// Ensure PlannedPriceScheduler implements JobTrigger
var _ catalogapp.JobTrigger = (*PlannedPriceScheduler)(nil)
