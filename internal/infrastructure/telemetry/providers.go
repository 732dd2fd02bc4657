package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const shutdownTimeout = 10 * time.Second

// grpcOptions builds the endpoint options shared by the three OTLP gRPC
// exporters, whose option types differ
func grpcOptions[O any](cfg Config, endpoint func(string) O, insecure func() O) []O {
	opts := []O{endpoint(cfg.CollectorEndpoint)}
	if cfg.Insecure {
		opts = append(opts, insecure())
	}
	return opts
}

// flusher stops an SDK provider within shutdownTimeout. A nil fn means
// the signal is disabled.
type flusher struct {
	signal string
	fn     func(context.Context) error
}

func (f flusher) enabled() bool { return f.fn != nil }

func (f flusher) shutdown(ctx context.Context) error {
	if f.fn == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := f.fn(ctx); err != nil {
		return fmt.Errorf("failed to shutdown %s provider: %w", f.signal, err)
	}
	return nil
}

// TracerProvider exports spans over OTLP gRPC
type TracerProvider struct {
	flusher
	provider     *sdktrace.TracerProvider
	logger       *zap.Logger
	mu           sync.Mutex
	spanProfiles bool
}

func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource, logger *zap.Logger) (*TracerProvider, error) {
	tp := &TracerProvider{flusher: flusher{signal: "tracer"}, logger: logger}
	if !cfg.Enabled {
		return tp, nil
	}
	exporter, err := otlptracegrpc.New(ctx, grpcOptions(cfg, otlptracegrpc.WithEndpoint, otlptracegrpc.WithInsecure)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	tp.provider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sampler(cfg.SamplingRatio))),
	)
	tp.fn = tp.provider.Shutdown
	otel.SetTracerProvider(tp.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	return tp, nil
}

func sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.AlwaysSample()
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(ratio)
	}
}

// EnableSpanProfiles links CPU profiles to span IDs. It needs a running
// profiler and is a no-op the second time.
func (tp *TracerProvider) EnableSpanProfiles() {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	if tp.provider == nil || tp.spanProfiles {
		return
	}
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(tp.provider))
	tp.spanProfiles = true
	tp.logger.Info("span profiles enabled")
}

// Tracer returns a named tracer, from the global provider when disabled
func (tp *TracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	if tp.provider == nil {
		return otel.GetTracerProvider().Tracer(name, opts...)
	}
	return tp.provider.Tracer(name, opts...)
}

// IsEnabled reports whether spans are exported
func (tp *TracerProvider) IsEnabled() bool { return tp.enabled() }

// Shutdown flushes pending spans
func (tp *TracerProvider) Shutdown(ctx context.Context) error { return tp.shutdown(ctx) }

// MeterProvider exports metrics over OTLP gRPC on a fixed interval
type MeterProvider struct {
	flusher
	provider *sdkmetric.MeterProvider
}

func newMeterProvider(ctx context.Context, cfg Config, interval time.Duration, res *resource.Resource) (*MeterProvider, error) {
	mp := &MeterProvider{flusher: flusher{signal: "meter"}}
	if !cfg.Enabled {
		return mp, nil
	}
	if interval <= 0 {
		interval = time.Minute
	}
	exporter, err := otlpmetricgrpc.New(ctx, grpcOptions(cfg, otlpmetricgrpc.WithEndpoint, otlpmetricgrpc.WithInsecure)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}
	mp.provider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
		sdkmetric.WithResource(res),
	)
	mp.fn = mp.provider.Shutdown
	otel.SetMeterProvider(mp.provider)
	return mp, nil
}

// Meter returns a named meter, from the global no-op provider when disabled
func (mp *MeterProvider) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if mp.provider == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return mp.provider.Meter(name, opts...)
}

// IsEnabled reports whether metrics are exported
func (mp *MeterProvider) IsEnabled() bool { return mp.enabled() }

// Shutdown flushes the last collection
func (mp *MeterProvider) Shutdown(ctx context.Context) error { return mp.shutdown(ctx) }

// LoggerProvider exports zap entries over OTLP gRPC through the otelzap
// bridge
type LoggerProvider struct {
	flusher
	provider *sdklog.LoggerProvider
	name     string
}

func newLoggerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*LoggerProvider, error) {
	lp := &LoggerProvider{flusher: flusher{signal: "logger"}, name: cfg.ServiceName}
	if !cfg.Enabled {
		return lp, nil
	}
	exporter, err := otlploggrpc.New(ctx, grpcOptions(cfg, otlploggrpc.WithEndpoint, otlploggrpc.WithInsecure)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
	}
	lp.provider = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	lp.fn = lp.provider.Shutdown
	global.SetLoggerProvider(lp.provider)
	return lp, nil
}

// Core returns a zap core forwarding entries at or above level, for
// logger.New to tee next to the local output. It is a no-op when log
// export is disabled.
func (lp *LoggerProvider) Core(level zapcore.Level) zapcore.Core {
	if lp.provider == nil {
		return zapcore.NewNopCore()
	}
	return &levelFilterCore{
		Core:     otelzap.NewCore(lp.name, otelzap.WithLoggerProvider(lp.provider)),
		minLevel: level,
	}
}

// IsEnabled reports whether logs are exported
func (lp *LoggerProvider) IsEnabled() bool { return lp.enabled() }

// Shutdown flushes pending records
func (lp *LoggerProvider) Shutdown(ctx context.Context) error { return lp.shutdown(ctx) }

// levelFilterCore gives the otelzap core, which exports every level, a floor
type levelFilterCore struct {
	zapcore.Core
	minLevel zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), minLevel: c.minLevel}
}
