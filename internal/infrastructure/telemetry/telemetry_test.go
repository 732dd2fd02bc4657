package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/assetdesk/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestSetup_Disabled(t *testing.T) {
	tel, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "assetdesk"}, "test", zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tel.Tracer.IsEnabled())
	assert.False(t, tel.Meter.IsEnabled())
	assert.False(t, tel.Logs.IsEnabled())
	assert.False(t, tel.Profiler.IsEnabled())
	assert.NotNil(t, tel.Meter.Meter("x"))
	assert.NotNil(t, tel.Tracer.Tracer("x"))

	require.NoError(t, tel.Shutdown(context.Background()))
	require.NoError(t, tel.Profiler.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "assetdesk"}, zap.NewNop())
	assert.ErrorContains(t, err, "server address")
	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://pyroscope:4040"}, zap.NewNop())
	assert.ErrorContains(t, err, "application name")

	idle, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, idle.Stop())
	assert.NoError(t, idle.Stop())
}

func TestProfilerConfig_ProfileTypes(t *testing.T) {
	assert.Len(t, ProfilerConfig{}.profileTypes(), 4)
	assert.Len(t, ProfilerConfig{Contention: true}.profileTypes(), 8)
}

func TestFlusher(t *testing.T) {
	assert.NoError(t, flusher{signal: "meter"}.shutdown(context.Background()))

	var deadline bool
	f := flusher{signal: "tracer", fn: func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		return errors.New("collector unreachable")
	}}
	assert.True(t, f.enabled())
	assert.ErrorContains(t, f.shutdown(context.Background()), "failed to shutdown tracer provider")
	assert.True(t, deadline)
}

func TestSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), sampler(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), sampler(0).Description())
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}

func TestLoggerProvider_DisabledCore(t *testing.T) {
	lp, err := newLoggerProvider(context.Background(), Config{}, nil)
	require.NoError(t, err)
	assert.False(t, lp.Core(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
}

func TestLevelFilterCore(t *testing.T) {
	inner := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(&discard{}), zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
	assert.Nil(t, core.Check(zapcore.Entry{Level: zapcore.DebugLevel}, nil))

	child := core.With([]zapcore.Field{zap.String("team_id", "t1")})
	assert.False(t, child.Enabled(zapcore.InfoLevel))
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestAttachmentMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewAttachmentMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	teamID := uuid.New()
	m.FileStored(ctx, teamID, 2048)
	m.FilesLinked(ctx, teamID, 3)
	m.FilesDetached(ctx, teamID, 1)
	m.FilesDeleted(ctx, teamID, 1)
	m.BlobsCompensated(ctx, 2)
	m.BlobCleanupFailed(ctx, "release")
	m.EventDelivered(ctx, "AssetCreated", nil)
	m.EventDelivered(ctx, "AssetCreated", errors.New("locked"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			data, ok := metric.Data.(metricdata.Sum[int64])
			require.True(t, ok, metric.Name)
			for _, dp := range data.DataPoints {
				sums[metric.Name] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(1), sums["attachment.files.stored"])
	assert.Equal(t, int64(2048), sums["attachment.bytes.stored"])
	assert.Equal(t, int64(3), sums["attachment.links.created"])
	assert.Equal(t, int64(1), sums["attachment.links.removed"])
	assert.Equal(t, int64(1), sums["attachment.files.deleted"])
	assert.Equal(t, int64(2), sums["attachment.blobs.compensated"])
	assert.Equal(t, int64(1), sums["attachment.blob.cleanup_failures"])
	assert.Equal(t, int64(2), sums["events.deliveries"])
}

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func TestStartSpan(t *testing.T) {
	recorder := withRecorder(t)

	_, span := StartSpan(context.Background(), "attachment.reconcile", attribute.Int("files", 2))
	EndSpan(span, errors.New("not found"))
	_, ok := StartSpan(context.Background(), "attachment.detach")
	EndSpan(ok, nil)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "attachment.reconcile", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.Int("files", 2))
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
}

func TestInstrumentDB(t *testing.T) {
	recorder := withRecorder(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	require.NoError(t, InstrumentDB(db, DBTracingConfig{Enabled: false}, zap.NewNop()))

	require.NoError(t, InstrumentDB(db, DBTracingConfig{
		Enabled:         true,
		DBSystem:        "sqlite",
		SlowQueryThresh: time.Nanosecond,
	}, zap.NewNop()))

	type tag struct {
		ID   uint
		Name string
	}
	require.NoError(t, db.AutoMigrate(&tag{}))
	require.NoError(t, db.WithContext(context.Background()).Create(&tag{Name: "outdoor"}).Error)

	assert.NotEmpty(t, recorder.Ended(), "statements are traced")
}

func TestMarkSlowQuery(t *testing.T) {
	recorder := withRecorder(t)

	ctx, span := StartSpan(context.Background(), "gorm.Create")
	ctx = context.WithValue(ctx, queryStartKey{}, time.Now().Add(-time.Second))
	tx := &gorm.DB{Statement: &gorm.Statement{Context: ctx, Table: "tags"}}
	markSlowQuery(tx, 100*time.Millisecond)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes(), attribute.String("db.sql.table", "tags"))
	assert.Contains(t, spans[0].Attributes(), attribute.Bool("db.slow_query", true))
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "slow_query", spans[0].Events()[0].Name)
}
