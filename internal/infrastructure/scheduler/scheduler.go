// Package scheduler runs periodic maintenance jobs such as audit log
// retention next to the HTTP server.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobStatus represents the outcome of a job's last run
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Job is a unit of periodic work
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// JobConfig controls how often a job runs
type JobConfig struct {
	Interval time.Duration
	Timeout  time.Duration
	// RunAtStart runs the job once when the scheduler starts
	RunAtStart bool
}

// JobState is a snapshot of a registered job
type JobState struct {
	Name      string
	Status    JobStatus
	Runs      int
	LastError string
	LastRunAt *time.Time
}

type entry struct {
	job    Job
	config JobConfig
	state  JobState
}

// Scheduler runs every registered job on its own ticker
type Scheduler struct {
	logger *zap.Logger

	mu        sync.Mutex
	entries   []*entry
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
}

// Registration errors
var (
	ErrSchedulerRunning = errors.New("scheduler is already running")
	ErrInvalidConfig    = errors.New("invalid job configuration")
	ErrDuplicateJob     = errors.New("job already registered")
)

// New creates a scheduler
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{logger: logger.Named("scheduler")}
}

// Register adds a job. Jobs must be registered before Start.
func (s *Scheduler) Register(job Job, cfg JobConfig) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("%w: job %s needs a positive interval", ErrInvalidConfig, job.Name())
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return ErrSchedulerRunning
	}
	for _, e := range s.entries {
		if e.job.Name() == job.Name() {
			return fmt.Errorf("%w: %s", ErrDuplicateJob, job.Name())
		}
	}
	s.entries = append(s.entries, &entry{
		job:    job,
		config: cfg,
		state:  JobState{Name: job.Name(), Status: JobStatusPending},
	})
	return nil
}

// Start launches one goroutine per job. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	s.isRunning = true

	ctx, s.cancel = context.WithCancel(ctx)
	for _, e := range s.entries {
		s.wg.Add(1)
		go s.loop(ctx, e)
	}
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.entries)))
}

// Stop cancels the jobs and waits for running ones to return, or for ctx
// to expire
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
		return ctx.Err()
	}
}

// States returns a snapshot of every job
func (s *Scheduler) States() []JobState {
	s.mu.Lock()
	defer s.mu.Unlock()
	states := make([]JobState, len(s.entries))
	for i, e := range s.entries {
		states[i] = e.state
	}
	return states
}

func (s *Scheduler) loop(ctx context.Context, e *entry) {
	defer s.wg.Done()

	if e.config.RunAtStart {
		s.run(ctx, e)
	}

	ticker := time.NewTicker(e.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run(ctx, e)
		}
	}
}

func (s *Scheduler) run(ctx context.Context, e *entry) {
	log := s.logger.With(zap.String("job", e.state.Name))

	s.mu.Lock()
	e.state.Status = JobStatusRunning
	s.mu.Unlock()

	jobCtx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	start := time.Now()
	err := e.job.Run(jobCtx)

	s.mu.Lock()
	e.state.Runs++
	e.state.LastRunAt = &start
	if err != nil {
		e.state.Status = JobStatusFailed
		e.state.LastError = err.Error()
	} else {
		e.state.Status = JobStatusSuccess
		e.state.LastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		log.Error("job failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return
	}
	log.Debug("job completed", zap.Duration("duration", time.Since(start)))
}
