package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akbarkhojayev/coinMarkaz/pkg/timeutil"
)

// fakeJob счётчик запусков с настраиваемой ошибкой.
type fakeJob struct {
	name string
	runs atomic.Int64
	err  error
}

func (j *fakeJob) Name() string { return j.name }

func (j *fakeJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestScheduler_Register(t *testing.T) {
	s := NewScheduler(nil)

	err := s.Register(&fakeJob{name: "rebuild"}, NewIntervalSchedule(time.Minute))
	require.NoError(t, err)

	jobs := s.ListJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "rebuild", jobs[0].Name)
	assert.Equal(t, "@every 1m0s", jobs[0].Schedule)
	assert.False(t, jobs[0].NextRun.IsZero())
}

func TestScheduler_RegisterDuplicate(t *testing.T) {
	s := NewScheduler(nil)
	sched := NewIntervalSchedule(time.Minute)

	require.NoError(t, s.Register(&fakeJob{name: "rebuild"}, sched))
	err := s.Register(&fakeJob{name: "rebuild"}, sched)
	assert.ErrorIs(t, err, ErrJobAlreadyExists)
}

func TestScheduler_RegisterNil(t *testing.T) {
	s := NewScheduler(nil)

	assert.ErrorIs(t, s.Register(nil, NewIntervalSchedule(time.Minute)), ErrNilJob)
	assert.ErrorIs(t, s.Register(&fakeJob{name: "rebuild"}, nil), ErrNilSchedule)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(nil)
	require.NoError(t, s.Register(&fakeJob{name: "rebuild"}, NewIntervalSchedule(time.Hour)))

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.ErrorIs(t, s.Start(context.Background()), ErrAlreadyRunning)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	assert.ErrorIs(t, s.Stop(), ErrNotRunning)
}

func TestScheduler_RunNow(t *testing.T) {
	s := NewScheduler(nil)
	job := &fakeJob{name: "audit"}
	require.NoError(t, s.Register(job, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "audit")
	require.NoError(t, err)
	assert.Equal(t, "audit", result.JobName)
	assert.Equal(t, int64(1), job.runs.Load())

	last, ok := s.LastResult("audit")
	require.True(t, ok)
	assert.NoError(t, last.Err)
}

func TestScheduler_RunNowFailure(t *testing.T) {
	s := NewScheduler(nil)
	boom := errors.New("ledger unreachable")
	require.NoError(t, s.Register(&fakeJob{name: "audit", err: boom}, NewIntervalSchedule(time.Hour)))

	result, err := s.RunNow(context.Background(), "audit")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, result.Err, boom)

	jobs := s.ListJobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, int64(1), jobs[0].FailCount)
}

func TestScheduler_RunNowUnknown(t *testing.T) {
	s := NewScheduler(nil)

	_, err := s.RunNow(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestIntervalSchedule(t *testing.T) {
	sched := NewIntervalSchedule(10 * time.Minute)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(10*time.Minute), sched.Next(now))
	assert.Equal(t, "@every 10m0s", sched.String())
}

func TestDailySchedule(t *testing.T) {
	sched, err := NewDailySchedule("03:30")
	require.NoError(t, err)
	assert.Equal(t, "@daily 03:30", sched.String())

	// 01:00 местного времени: запуск сегодня в 03:30.
	now := time.Date(2026, 3, 10, 1, 0, 0, 0, timeutil.TashkentTZ)
	next := sched.Next(now)
	assert.Equal(t, 10, next.Day())
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 30, next.Minute())

	// После 03:30 запуск переносится на завтра.
	next = sched.Next(next)
	assert.Equal(t, 11, next.Day())
}

func TestNewDailySchedule_Invalid(t *testing.T) {
	_, err := NewDailySchedule("25:99")
	assert.Error(t, err)
}
