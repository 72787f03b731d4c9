package scheduler

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	appfiscal "github.com/dukahub/backend/internal/application/fiscal"
	"go.uber.org/zap"
)

// cronTickerInterval is the interval at which the cron scheduler checks for execution
const cronTickerInterval = 1 * time.Minute

// BatchRunner executes the daily Z-Report submission across all tenants
type BatchRunner interface {
	SubmitForAllTenants(ctx context.Context, day *time.Time) (*appfiscal.BatchResult, error)
}

// ZReportCronSchedulerConfig holds configuration for the cron-based Z-Report scheduler
type ZReportCronSchedulerConfig struct {
	// Enabled indicates if the cron scheduler is enabled
	Enabled bool
	// CronHour is the hour (0-23) to run the daily submission
	CronHour int
	// CronMinute is the minute (0-59) to run the daily submission
	CronMinute int
	// DailyCronSchedule is the cron expression (parsed to extract hour/minute)
	DailyCronSchedule string
	// RunOnStart triggers one batch run immediately after Start, catching up
	// reports missed while the process was down
	RunOnStart bool
	// JobTimeout is the maximum time a full batch run can take
	JobTimeout time.Duration
}

// DefaultZReportCronSchedulerConfig returns default cron scheduler configuration.
// Defaults to running at 2:00 AM daily, after the previous business day has
// fully closed in every tenant timezone the platform serves.
func DefaultZReportCronSchedulerConfig() ZReportCronSchedulerConfig {
	return ZReportCronSchedulerConfig{
		Enabled:           true,
		CronHour:          2,
		CronMinute:        0,
		DailyCronSchedule: "0 2 * * *",
		RunOnStart:        false,
		JobTimeout:        30 * time.Minute,
	}
}

// ParseCronSchedule parses a cron expression "minute hour * * *" to extract hour and minute.
// Returns defaults (2:00) if the expression is empty or has no fixed fields.
func ParseCronSchedule(cronExpr string) (hour, minute int, err error) {
	hour = 2
	minute = 0

	if cronExpr == "" {
		return hour, minute, nil
	}

	parts := strings.Fields(cronExpr)
	if len(parts) < 2 {
		return hour, minute, nil
	}

	if parts[0] != "*" {
		if val, parseErr := parseIntOrDefault(parts[0], 0); parseErr == nil {
			minute = val
		}
	}
	if parts[1] != "*" {
		if val, parseErr := parseIntOrDefault(parts[1], 2); parseErr == nil {
			hour = val
		}
	}

	if minute < 0 || minute > 59 {
		return 2, 0, fmt.Errorf("minute must be 0-59, got %d", minute)
	}
	if hour < 0 || hour > 23 {
		return 2, 0, fmt.Errorf("hour must be 0-23, got %d", hour)
	}

	return hour, minute, nil
}

// parseIntOrDefault parses an int string or returns default
func parseIntOrDefault(s string, defaultVal int) (int, error) {
	if s == "" || s == "*" {
		return defaultVal, nil
	}
	var val int
	for _, c := range s {
		if c < '0' || c > '9' {
			return defaultVal, ErrInvalidConfig
		}
		val = val*10 + int(c-'0')
	}
	return val, nil
}

// ZReportCronScheduler fires the daily Z-Report batch once per day at the
// configured wall-clock time. A minute ticker checks against the injected
// clock, so tests can drive time without sleeping.
type ZReportCronScheduler struct {
	config ZReportCronSchedulerConfig
	runner BatchRunner
	clock  appfiscal.Clock
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	runActive bool

	lastRunAt     *time.Time
	lastRunResult *appfiscal.BatchResult
	nextRunAt     *time.Time
}

// NewZReportCronScheduler creates a new cron-based Z-Report scheduler.
// A nil clock defaults to the system clock.
func NewZReportCronScheduler(
	config ZReportCronSchedulerConfig,
	runner BatchRunner,
	clock appfiscal.Clock,
	logger *zap.Logger,
) *ZReportCronScheduler {
	if clock == nil {
		clock = appfiscal.SystemClock()
	}
	return &ZReportCronScheduler{
		config: config,
		runner: runner,
		clock:  clock,
		logger: logger,
	}
}

// Start starts the cron scheduler
func (s *ZReportCronScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.cronLoop(ctx)

	s.logger.Info("Z-Report cron scheduler started",
		zap.Int("cron_hour", s.config.CronHour),
		zap.Int("cron_minute", s.config.CronMinute),
		zap.Bool("run_on_start", s.config.RunOnStart),
		zap.Timep("next_run_at", s.nextRunAt),
	)

	if s.config.RunOnStart {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runBatch(ctx)
		}()
	}

	return nil
}

// Stop stops the cron scheduler
func (s *ZReportCronScheduler) Stop(ctx context.Context) error {
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
		s.logger.Info("Z-Report cron scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Z-Report cron scheduler stop timed out")
		return ctx.Err()
	}
}

// cronLoop runs the main cron loop
func (s *ZReportCronScheduler) cronLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(cronTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if s.shouldRun(s.clock.Now()) {
				s.runBatch(ctx)
				s.calculateNextRunTime()
			}
		}
	}
}

// shouldRun checks if the cron should run at the given time
func (s *ZReportCronScheduler) shouldRun(now time.Time) bool {
	return now.Hour() == s.config.CronHour && now.Minute() == s.config.CronMinute
}

// calculateNextRunTime calculates the next run time
func (s *ZReportCronScheduler) calculateNextRunTime() {
	now := s.clock.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.config.CronHour, s.config.CronMinute, 0, 0, now.Location())

	// If we've already passed today's run time, schedule for tomorrow
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

// runBatch executes one batch run under the configured timeout. Only one run
// may be active at a time; overlapping triggers are dropped.
func (s *ZReportCronScheduler) runBatch(ctx context.Context) {
	s.mu.Lock()
	if s.runActive {
		s.mu.Unlock()
		s.logger.Warn("Skipping batch run, previous run still active")
		return
	}
	s.runActive = true
	now := s.clock.Now()
	s.lastRunAt = &now
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.runActive = false
		s.mu.Unlock()
	}()

	if s.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.JobTimeout)
		defer cancel()
	}

	s.logger.Info("Starting daily Z-Report batch run")

	result, err := s.runner.SubmitForAllTenants(ctx, nil)
	if err != nil {
		s.logger.Error("Z-Report batch run aborted", zap.Error(err))
	}
	if result == nil {
		return
	}

	s.mu.Lock()
	s.lastRunResult = result
	s.mu.Unlock()

	s.logger.Info("Z-Report batch run finished",
		zap.Time("run_date", result.RunDate),
		zap.Duration("duration", result.Duration),
		zap.Int("total", result.Total),
		zap.Int("submitted", result.Submitted),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
}

// TriggerManualRun triggers a batch run outside the cron schedule.
// Uses a background context so the run survives the triggering HTTP request.
func (s *ZReportCronScheduler) TriggerManualRun(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	if s.runActive {
		s.mu.Unlock()
		return ErrRunInProgress
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runBatch(context.Background())
	}()
	return nil
}

// GetStatus returns the current status of the cron scheduler
func (s *ZReportCronScheduler) GetStatus() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]any{
		"enabled":       s.config.Enabled,
		"is_running":    s.isRunning,
		"run_active":    s.runActive,
		"cron_hour":     s.config.CronHour,
		"cron_minute":   s.config.CronMinute,
		"cron_schedule": s.config.DailyCronSchedule,
		"last_run_at":   s.lastRunAt,
		"next_run_at":   s.nextRunAt,
	}
	if s.lastRunResult != nil {
		status["last_run"] = map[string]any{
			"run_date":  s.lastRunResult.RunDate,
			"total":     s.lastRunResult.Total,
			"submitted": s.lastRunResult.Submitted,
			"skipped":   s.lastRunResult.Skipped,
			"failed":    s.lastRunResult.Failed,
		}
	}
	return status
}

// GetNextRunAt returns when the next scheduled run will occur
func (s *ZReportCronScheduler) GetNextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

// GetLastRunAt returns when the last run occurred
func (s *ZReportCronScheduler) GetLastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}
