// Package middleware holds the gin middleware chain: request ids, team
// authentication, idempotency, tracing, metrics and profiling labels.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxRequestIDLength is the maximum accepted length of a client supplied request ID
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing returns the otelgin middleware. Spans are named after the
// matched route; 5xx responses are marked as errors.
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	)
}

// TracingAttributeInjector adds request, team and user attributes to the
// current span. Place it after Auth.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if teamID, ok := GetTeamID(c); ok {
				span.SetAttributes(attribute.String("team_id", teamID.String()))
			}
			if userID := GetUserID(c); userID != "" {
				span.SetAttributes(attribute.String("user_id", userID))
			}
		}

		c.Next()

		if span.IsRecording() {
			if code := c.Writer.Status(); code >= http.StatusBadRequest {
				span.SetAttributes(attribute.Int("http.status_code", code))
				if code >= http.StatusInternalServerError {
					span.SetStatus(codes.Error, http.StatusText(code))
				}
			}
		}
	}
}
