package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	appfiscal "github.com/dukahub/backend/internal/application/fiscal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// stubBatchRunner records runs and optionally blocks until released
type stubBatchRunner struct {
	mu      sync.Mutex
	runs    int
	started chan struct{}
	release chan struct{}
	result  *appfiscal.BatchResult
}

func newStubBatchRunner() *stubBatchRunner {
	return &stubBatchRunner{
		started: make(chan struct{}, 8),
		result:  &appfiscal.BatchResult{RunDate: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), Total: 3, Submitted: 2, Skipped: 1},
	}
}

func (r *stubBatchRunner) SubmitForAllTenants(ctx context.Context, day *time.Time) (*appfiscal.BatchResult, error) {
	r.mu.Lock()
	r.runs++
	r.mu.Unlock()
	r.started <- struct{}{}
	if r.release != nil {
		<-r.release
	}
	return r.result, nil
}

func (r *stubBatchRunner) runCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

func waitForRun(t *testing.T, r *stubBatchRunner) {
	t.Helper()
	select {
	case <-r.started:
	case <-time.After(2 * time.Second):
		t.Fatal("batch run was not triggered")
	}
}

func TestParseCronSchedule(t *testing.T) {
	tests := []struct {
		name       string
		expr       string
		wantHour   int
		wantMinute int
		wantErr    bool
	}{
		{name: "standard", expr: "30 4 * * *", wantHour: 4, wantMinute: 30},
		{name: "empty defaults", expr: "", wantHour: 2, wantMinute: 0},
		{name: "wildcards default", expr: "* * * * *", wantHour: 2, wantMinute: 0},
		{name: "midnight", expr: "0 0 * * *", wantHour: 0, wantMinute: 0},
		{name: "minute out of range", expr: "75 4 * * *", wantErr: true},
		{name: "hour out of range", expr: "0 25 * * *", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hour, minute, err := ParseCronSchedule(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHour, hour)
			assert.Equal(t, tt.wantMinute, minute)
		})
	}
}

func TestShouldRun(t *testing.T) {
	config := DefaultZReportCronSchedulerConfig()
	s := NewZReportCronScheduler(config, newStubBatchRunner(), nil, zap.NewNop())

	assert.True(t, s.shouldRun(time.Date(2026, 8, 24, 2, 0, 30, 0, time.UTC)))
	assert.False(t, s.shouldRun(time.Date(2026, 8, 24, 2, 1, 0, 0, time.UTC)))
	assert.False(t, s.shouldRun(time.Date(2026, 8, 24, 3, 0, 0, 0, time.UTC)))
}

func TestCalculateNextRunTime(t *testing.T) {
	config := DefaultZReportCronSchedulerConfig()

	beforeCron := fixedClock{now: time.Date(2026, 8, 24, 1, 15, 0, 0, time.UTC)}
	s := NewZReportCronScheduler(config, newStubBatchRunner(), beforeCron, zap.NewNop())
	s.calculateNextRunTime()
	require.NotNil(t, s.GetNextRunAt())
	assert.Equal(t, time.Date(2026, 8, 24, 2, 0, 0, 0, time.UTC), *s.GetNextRunAt())

	afterCron := fixedClock{now: time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)}
	s = NewZReportCronScheduler(config, newStubBatchRunner(), afterCron, zap.NewNop())
	s.calculateNextRunTime()
	require.NotNil(t, s.GetNextRunAt())
	assert.Equal(t, time.Date(2026, 8, 25, 2, 0, 0, 0, time.UTC), *s.GetNextRunAt())
}

func TestRunOnStart(t *testing.T) {
	config := DefaultZReportCronSchedulerConfig()
	config.RunOnStart = true
	runner := newStubBatchRunner()
	s := NewZReportCronScheduler(config, runner, nil, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	waitForRun(t, runner)
	require.NoError(t, s.Stop(context.Background()))

	assert.Equal(t, 1, runner.runCount())
	assert.NotNil(t, s.GetLastRunAt())

	status := s.GetStatus()
	assert.Equal(t, false, status["is_running"])
	require.Contains(t, status, "last_run")
	lastRun := status["last_run"].(map[string]any)
	assert.Equal(t, 2, lastRun["submitted"])
}

func TestTriggerManualRun(t *testing.T) {
	runner := newStubBatchRunner()
	s := NewZReportCronScheduler(DefaultZReportCronSchedulerConfig(), runner, nil, zap.NewNop())

	// Not started yet
	assert.ErrorIs(t, s.TriggerManualRun(context.Background()), ErrSchedulerNotRunning)

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop(context.Background())

	require.NoError(t, s.TriggerManualRun(context.Background()))
	waitForRun(t, runner)
	assert.Equal(t, 1, runner.runCount())
}

func TestTriggerManualRunRejectsOverlap(t *testing.T) {
	runner := newStubBatchRunner()
	runner.release = make(chan struct{})
	s := NewZReportCronScheduler(DefaultZReportCronSchedulerConfig(), runner, nil, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))

	require.NoError(t, s.TriggerManualRun(context.Background()))
	waitForRun(t, runner)

	// The first run is still holding; a second trigger must be refused
	assert.ErrorIs(t, s.TriggerManualRun(context.Background()), ErrRunInProgress)

	close(runner.release)
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, 1, runner.runCount())
}

func TestStartStopIdempotent(t *testing.T) {
	s := NewZReportCronScheduler(DefaultZReportCronSchedulerConfig(), newStubBatchRunner(), nil, zap.NewNop())

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
	require.NoError(t, s.Stop(context.Background()))
}
