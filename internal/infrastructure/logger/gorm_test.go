package logger

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func traceQuery(l *GormLogger, ctx context.Context, sql string, elapsed time.Duration, err error) {
	l.Trace(ctx, time.Now().Add(-elapsed), func() (string, int64) { return sql, 1 }, err)
}

func TestNewGormLogger_Defaults(t *testing.T) {
	l, _ := newObservedGormLogger(gormlogger.Warn)

	assert.Equal(t, 200*time.Millisecond, l.slowThreshold)
	assert.Equal(t, l.slowThreshold, l.lockThreshold, "lock threshold follows the slow threshold")
	assert.False(t, l.logNotFound)

	l, _ = newObservedGormLogger(gormlogger.Warn,
		WithSlowThreshold(time.Second),
		WithLockWaitThreshold(50*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)
	assert.Equal(t, time.Second, l.slowThreshold)
	assert.Equal(t, 50*time.Millisecond, l.lockThreshold)
	assert.True(t, l.logNotFound)
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	l, _ := newObservedGormLogger(gormlogger.Info)
	quiet, ok := l.LogMode(gormlogger.Silent).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Info, l.level)
	assert.Equal(t, gormlogger.Silent, quiet.level)
}

func TestGormLogger_Messages(t *testing.T) {
	tests := []struct {
		name  string
		level gormlogger.LogLevel
		call  func(l *GormLogger)
		want  zapcore.Level
		msg   string
	}{
		{"info", gormlogger.Info, func(l *GormLogger) { l.Info(context.Background(), "migrated %d tables", 3) }, zapcore.InfoLevel, "migrated 3 tables"},
		{"warn", gormlogger.Warn, func(l *GormLogger) { l.Warn(context.Background(), "pool at %d%%", 90) }, zapcore.WarnLevel, "pool at 90%"},
		{"error", gormlogger.Error, func(l *GormLogger) { l.Error(context.Background(), "connection lost") }, zapcore.ErrorLevel, "connection lost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, recorded := newObservedGormLogger(tt.level)
			tt.call(l)
			require.Equal(t, 1, recorded.Len())
			entry := recorded.All()[0]
			assert.Equal(t, tt.want, entry.Level)
			assert.Equal(t, tt.msg, entry.Message)
		})
	}

	l, recorded := newObservedGormLogger(gormlogger.Silent)
	l.Info(context.Background(), "hidden")
	l.Error(context.Background(), "hidden")
	assert.Zero(t, recorded.Len())
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		sql     string
		elapsed time.Duration
		err     error
		want    string
		locking bool
	}{
		{name: "error", level: gormlogger.Error, sql: "UPDATE kits SET asset_count = asset_count + 1", err: errors.New("deadlock detected"), want: "SQL error"},
		{name: "not found ignored", level: gormlogger.Error, sql: "SELECT * FROM assets", err: gormlogger.ErrRecordNotFound},
		{name: "slow scan", level: gormlogger.Warn, sql: "SELECT * FROM assets WHERE name ILIKE '%drill%'", elapsed: 300 * time.Millisecond, want: "slow SQL"},
		{name: "slow lock", level: gormlogger.Warn, sql: "SELECT * FROM additional_files WHERE id IN ($1) FOR UPDATE", elapsed: 300 * time.Millisecond, want: "slow locking SQL", locking: true},
		{name: "fast query at warn", level: gormlogger.Warn, sql: "SELECT 1", elapsed: time.Millisecond},
		{name: "fast query at info", level: gormlogger.Info, sql: "SELECT 1", elapsed: time.Millisecond, want: "SQL"},
		{name: "silent", level: gormlogger.Silent, sql: "SELECT 1", err: errors.New("boom")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, recorded := newObservedGormLogger(tt.level)
			traceQuery(l, context.Background(), tt.sql, tt.elapsed, tt.err)

			if tt.want == "" {
				assert.Zero(t, recorded.Len())
				return
			}
			require.Equal(t, 1, recorded.Len())
			entry := recorded.All()[0]
			assert.Equal(t, tt.want, entry.Message)
			assert.Equal(t, tt.sql, entry.ContextMap()["sql"])
			_, hasLocking := entry.ContextMap()["locking"]
			assert.Equal(t, tt.locking, hasLocking)
		})
	}
}

func TestGormLogger_LockThreshold(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Warn,
		WithSlowThreshold(time.Second),
		WithLockWaitThreshold(10*time.Millisecond),
	)

	traceQuery(l, context.Background(), "SELECT * FROM kits WHERE id = $1 FOR UPDATE", 50*time.Millisecond, nil)
	traceQuery(l, context.Background(), "SELECT * FROM kits WHERE id = $1", 50*time.Millisecond, nil)

	require.Equal(t, 1, recorded.Len())
	assert.Equal(t, "slow locking SQL", recorded.All()[0].Message)
}

func TestGormLogger_ContextFields(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Info)
	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-1")
	ctx, _ = WithTeamID(ctx, zap.NewNop(), "team-1")

	traceQuery(l, ctx, "SELECT 1", 0, nil)

	require.Equal(t, 1, recorded.Len())
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "team-1", fields["team_id"])
}

func TestGormLogger_TruncatesSQL(t *testing.T) {
	l, recorded := newObservedGormLogger(gormlogger.Info, WithMaxSQLLength(16))
	traceQuery(l, context.Background(), "INSERT INTO asset_tags VALUES "+strings.Repeat("($1,$2),", 50), 0, nil)

	require.Equal(t, 1, recorded.Len())
	sql := recorded.All()[0].ContextMap()["sql"].(string)
	assert.Len(t, sql, 16+len("..."))
	assert.True(t, strings.HasSuffix(sql, "..."))
}

func TestMapGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"info":    gormlogger.Info,
		"DEBUG":   gormlogger.Info,
		"unknown": gormlogger.Warn,
	}
	for in, want := range tests {
		assert.Equal(t, want, MapGormLogLevel(in), in)
	}
}
