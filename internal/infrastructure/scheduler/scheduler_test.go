package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name  string
	runs  atomic.Int32
	err   error
	block bool
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return j.err
}

func TestScheduler_RunsJobsPeriodically(t *testing.T) {
	s := New(nil)
	job := &countingJob{name: "audit-retention"}
	require.NoError(t, s.Register(job, JobConfig{Interval: 10 * time.Millisecond, RunAtStart: true}))

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return job.runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	states := s.States()
	require.Len(t, states, 1)
	assert.Equal(t, "audit-retention", states[0].Name)
	assert.Equal(t, JobStatusSuccess, states[0].Status)
	assert.NotNil(t, states[0].LastRunAt)

	after := job.runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, job.runs.Load(), "no runs after Stop")
}

func TestScheduler_RecordsFailures(t *testing.T) {
	s := New(nil)
	job := &countingJob{name: "failing", err: errors.New("db down")}
	require.NoError(t, s.Register(job, JobConfig{Interval: time.Hour, RunAtStart: true}))

	s.Start(context.Background())
	assert.Eventually(t, func() bool {
		return s.States()[0].Status == JobStatusFailed
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))

	assert.Equal(t, "db down", s.States()[0].LastError)
}

func TestScheduler_TimeoutCancelsRun(t *testing.T) {
	s := New(nil)
	job := &countingJob{name: "slow", block: true}
	require.NoError(t, s.Register(job, JobConfig{Interval: time.Hour, Timeout: 20 * time.Millisecond, RunAtStart: true}))

	s.Start(context.Background())
	assert.Eventually(t, func() bool {
		st := s.States()[0]
		return st.Status == JobStatusFailed && st.LastError == context.DeadlineExceeded.Error()
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_Register(t *testing.T) {
	s := New(nil)
	err := s.Register(&countingJob{name: "bad"}, JobConfig{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	require.NoError(t, s.Register(&countingJob{name: "ok"}, JobConfig{Interval: time.Hour}))
	assert.ErrorIs(t, s.Register(&countingJob{name: "ok"}, JobConfig{Interval: time.Minute}), ErrDuplicateJob)
	s.Start(context.Background())
	defer func() { _ = s.Stop(context.Background()) }()

	assert.ErrorIs(t, s.Register(&countingJob{name: "late"}, JobConfig{Interval: time.Hour}), ErrSchedulerRunning)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	assert.NoError(t, New(nil).Stop(context.Background()))
}
