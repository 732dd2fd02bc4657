package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const ginLoggerKey = "logger"

// AccessLogOption configures AccessLog
type AccessLogOption func(*accessLog)

type accessLog struct {
	skip map[string]bool
	slow time.Duration
}

// WithSkipPaths stops successful requests to the paths from being logged.
// Failures are always logged.
func WithSkipPaths(paths ...string) AccessLogOption {
	return func(a *accessLog) {
		for _, p := range paths {
			a.skip[p] = true
		}
	}
}

// WithSlowRequest raises requests slower than d to warn
func WithSlowRequest(d time.Duration) AccessLogOption {
	return func(a *accessLog) {
		a.slow = d
	}
}

// AccessLog logs one line per request and stores a request scoped logger
// in both the gin context and the request context. Routes are logged by
// template so asset and file IDs stay out of the route field.
func AccessLog(logger *zap.Logger, opts ...AccessLogOption) gin.HandlerFunc {
	cfg := &accessLog{skip: make(map[string]bool)}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetString("request_id")
		reqLogger := logger.With(
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		ctx, _ := WithRequestID(c.Request.Context(), logger, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ginLoggerKey, reqLogger)

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		if status < http.StatusBadRequest && cfg.skip[c.Request.URL.Path] {
			return
		}

		fields := []zap.Field{
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("response_bytes", c.Writer.Size()),
		}
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			fields = append(fields, zap.Int64("upload_bytes", c.Request.ContentLength))
		}
		if teamID := c.GetString("team_id"); teamID != "" {
			fields = append(fields, zap.String("team_id", teamID))
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			reqLogger.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			reqLogger.Warn("request rejected", fields...)
		case cfg.slow > 0 && latency > cfg.slow:
			reqLogger.Warn("slow request", fields...)
		default:
			reqLogger.Info("request", fields...)
		}
	}
}

// Recovery turns a handler panic into a 500 envelope carrying the
// request ID, and logs the stack
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			requestID := c.GetString("request_id")
			logger.Error("panic recovered",
				zap.String("request_id", requestID),
				zap.String("method", c.Request.Method),
				zap.String("route", c.FullPath()),
				zap.Any("panic", rec),
				zap.Stack("stacktrace"),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":       "INTERNAL_ERROR",
					"message":    "An internal error occurred",
					"request_id": requestID,
				},
			})
		}()
		c.Next()
	}
}

// GetGinLogger returns the logger stored by AccessLog, or a no-op logger
func GetGinLogger(c *gin.Context) *zap.Logger {
	if zl, ok := c.Value(ginLoggerKey).(*zap.Logger); ok {
		return zl
	}
	return zap.NewNop()
}
