package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerCtxKey ctxKey = iota
	correlationCtxKey
)

// correlation identifies who a request acts for. It is stored by value
// so each setter leaves the parent context untouched.
type correlation struct {
	requestID string
	teamID    string
	userID    string
}

func correlationFrom(ctx context.Context) correlation {
	c, _ := ctx.Value(correlationCtxKey).(correlation)
	return c
}

func (c correlation) fields() []zap.Field {
	fields := make([]zap.Field, 0, 3)
	if c.requestID != "" {
		fields = append(fields, zap.String("request_id", c.requestID))
	}
	if c.teamID != "" {
		fields = append(fields, zap.String("team_id", c.teamID))
	}
	if c.userID != "" {
		fields = append(fields, zap.String("user_id", c.userID))
	}
	return fields
}

// WithContext attaches logger to ctx
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// FromContext returns the request logger, or a no-op logger outside a request
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerCtxKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID records the request id and returns the context with the
// logger carrying it
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return annotate(ctx, logger, zap.String("request_id", requestID), func(c *correlation) { c.requestID = requestID })
}

// WithTeamID records the acting team
func WithTeamID(ctx context.Context, logger *zap.Logger, teamID string) (context.Context, *zap.Logger) {
	return annotate(ctx, logger, zap.String("team_id", teamID), func(c *correlation) { c.teamID = teamID })
}

// WithUserID records the acting user
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return annotate(ctx, logger, zap.String("user_id", userID), func(c *correlation) { c.userID = userID })
}

func annotate(ctx context.Context, logger *zap.Logger, field zap.Field, set func(*correlation)) (context.Context, *zap.Logger) {
	c := correlationFrom(ctx)
	set(&c)
	logger = logger.With(field)
	ctx = context.WithValue(ctx, correlationCtxKey, c)
	return WithContext(ctx, logger), logger
}

func GetRequestID(ctx context.Context) string { return correlationFrom(ctx).requestID }

func GetTeamID(ctx context.Context) string { return correlationFrom(ctx).teamID }

func GetUserID(ctx context.Context) string { return correlationFrom(ctx).userID }

// GetTraceID returns the trace id of the active span, or ""
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// Enrich adds the request's trace and correlation fields to a component
// logger, so service logs line up with the access log:
//
//	logger.Enrich(ctx, s.logger).Info("kit deleted", zap.String("kit_id", id.String()))
func Enrich(ctx context.Context, l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	fields := correlationFrom(ctx).fields()
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
