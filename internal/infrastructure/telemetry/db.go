package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds GORM instrumentation settings
type DBTracingConfig struct {
	Enabled         bool
	DBSystem        string
	LogFullSQL      bool // include bound query variables in spans
	SlowQueryThresh time.Duration
}

type queryStartKey struct{}

// InstrumentDB registers otelgorm on db and marks slow statements on their
// spans. Query variables are left out of spans unless LogFullSQL is set.
func InstrumentDB(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if cfg.SlowQueryThresh > 0 {
		if err := registerSlowQueryCallbacks(db, cfg.SlowQueryThresh); err != nil {
			return err
		}
	}

	logger.Info("database tracing enabled",
		zap.String("db_system", cfg.DBSystem),
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func registerSlowQueryCallbacks(db *gorm.DB, threshold time.Duration) error {
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey{}, time.Now())
		}
	}
	after := func(tx *gorm.DB) {
		markSlowQuery(tx, threshold)
	}

	cb := db.Callback()
	registrations := []error{
		cb.Create().Before("gorm:create").Register("assetdesk:query_start:create", before),
		cb.Query().Before("gorm:query").Register("assetdesk:query_start:query", before),
		cb.Update().Before("gorm:update").Register("assetdesk:query_start:update", before),
		cb.Delete().Before("gorm:delete").Register("assetdesk:query_start:delete", before),
		cb.Row().Before("gorm:row").Register("assetdesk:query_start:row", before),
		cb.Raw().Before("gorm:raw").Register("assetdesk:query_start:raw", before),
		cb.Create().After("gorm:create").Register("assetdesk:slow_query:create", after),
		cb.Query().After("gorm:query").Register("assetdesk:slow_query:query", after),
		cb.Update().After("gorm:update").Register("assetdesk:slow_query:update", after),
		cb.Delete().After("gorm:delete").Register("assetdesk:slow_query:delete", after),
		cb.Row().After("gorm:row").Register("assetdesk:slow_query:row", after),
		cb.Raw().After("gorm:raw").Register("assetdesk:slow_query:raw", after),
	}
	return errors.Join(registrations...)
}

func markSlowQuery(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.RecordError(tx.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > threshold {
		span.SetAttributes(attribute.Bool("db.slow_query", true))
		span.AddEvent("slow_query", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", threshold.Milliseconds()),
		))
	}
}
