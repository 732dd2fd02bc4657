package telemetry

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/grafana/pyroscope-go"
	"go.uber.org/zap"
)

// ProfilerConfig holds Pyroscope settings
type ProfilerConfig struct {
	Enabled         bool
	ServerAddress   string
	ApplicationName string
	// Tags are added to every profile next to the hostname
	Tags map[string]string
	// Contention adds mutex and block profiles
	Contention bool
}

func (c ProfilerConfig) validate() error {
	var errs []error
	if c.ServerAddress == "" {
		errs = append(errs, errors.New("profiler server address is required"))
	}
	if c.ApplicationName == "" {
		errs = append(errs, errors.New("profiler application name is required"))
	}
	return errors.Join(errs...)
}

func (c ProfilerConfig) profileTypes() []pyroscope.ProfileType {
	types := []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileInuseSpace,
		pyroscope.ProfileGoroutines,
	}
	if c.Contention {
		types = append(types,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
			pyroscope.ProfileBlockCount,
			pyroscope.ProfileBlockDuration,
		)
	}
	return types
}

// Profiler runs continuous profiling with Pyroscope
type Profiler struct {
	profiler *pyroscope.Profiler
	once     sync.Once
	stopErr  error
}

// NewProfiler starts the profiler, or returns an idle one when disabled
func NewProfiler(cfg ProfilerConfig, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{}
	if !cfg.Enabled {
		return p, nil
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	tags := make(map[string]string, len(cfg.Tags)+1)
	for k, v := range cfg.Tags {
		tags[k] = v
	}
	if hostname, err := os.Hostname(); err == nil {
		tags["hostname"] = hostname
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: cfg.ApplicationName,
		ServerAddress:   cfg.ServerAddress,
		Logger:          logger.Named("pyroscope").Sugar(),
		Tags:            tags,
		ProfileTypes:    cfg.profileTypes(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}
	p.profiler = profiler
	return p, nil
}

// IsEnabled reports whether the profiler is running
func (p *Profiler) IsEnabled() bool {
	return p.profiler != nil
}

// Stop flushes and stops the profiler. Later calls return the first result.
func (p *Profiler) Stop() error {
	p.once.Do(func() {
		if p.profiler == nil {
			return
		}
		if err := p.profiler.Stop(); err != nil {
			p.stopErr = fmt.Errorf("failed to stop profiler: %w", err)
		}
	})
	return p.stopErr
}
