package telemetry

import (
	"context"
	"errors"

	"github.com/assetdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Telemetry bundles the providers started for one process
type Telemetry struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
}

// Setup starts the signals switched on in cfg. A signal that fails to
// start stops the ones already running.
func Setup(ctx context.Context, cfg config.TelemetryConfig, version string, logger *zap.Logger) (*Telemetry, error) {
	base := Config{
		Enabled:           cfg.Enabled,
		CollectorEndpoint: cfg.CollectorEndpoint,
		SamplingRatio:     cfg.SamplingRatio,
		ServiceName:       cfg.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Insecure,
	}
	res, err := newResource(base)
	if err != nil {
		return nil, err
	}

	t := &Telemetry{}
	fail := func(err error) (*Telemetry, error) {
		_ = t.Shutdown(ctx)
		return nil, err
	}

	if t.Tracer, err = newTracerProvider(ctx, base, res, logger); err != nil {
		return fail(err)
	}
	metricsCfg := base
	metricsCfg.Enabled = cfg.MetricsEnabled
	if t.Meter, err = newMeterProvider(ctx, metricsCfg, cfg.MetricsInterval, res); err != nil {
		return fail(err)
	}
	logsCfg := base
	logsCfg.Enabled = cfg.LogsEnabled
	if t.Logs, err = newLoggerProvider(ctx, logsCfg, res); err != nil {
		return fail(err)
	}
	if t.Profiler, err = NewProfiler(ProfilerConfig{
		Enabled:         cfg.ProfilingEnabled,
		ServerAddress:   cfg.PyroscopeURL,
		ApplicationName: cfg.ServiceName,
		Tags:            map[string]string{"version": serviceVersion(version)},
		Contention:      cfg.ProfileContention,
	}, logger); err != nil {
		return fail(err)
	}
	if t.Profiler.IsEnabled() {
		t.Tracer.EnableSpanProfiles()
	}

	logger.Info("telemetry started",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.Bool("traces", t.Tracer.IsEnabled()),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
		zap.Bool("metrics", t.Meter.IsEnabled()),
		zap.Bool("logs", t.Logs.IsEnabled()),
		zap.Bool("profiles", t.Profiler.IsEnabled()),
	)
	return t, nil
}

// Shutdown stops every started provider, profiler first
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.Profiler != nil {
		errs = append(errs, t.Profiler.Stop())
	}
	if t.Logs != nil {
		errs = append(errs, t.Logs.Shutdown(ctx))
	}
	if t.Meter != nil {
		errs = append(errs, t.Meter.Shutdown(ctx))
	}
	if t.Tracer != nil {
		errs = append(errs, t.Tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
