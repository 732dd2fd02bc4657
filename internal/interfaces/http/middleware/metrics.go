package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// Metric names recorded by HTTPMetrics
const (
	MetricRequestDuration = "http.server.request.duration"
	MetricRequestBodySize = "http.server.request.body.size"
	MetricActiveRequests  = "http.server.active_requests"
)

var (
	durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	// uploads go up to the multipart limit
	bodySizeBuckets = []float64{1 << 10, 16 << 10, 128 << 10, 1 << 20, 4 << 20, 16 << 20}
)

type httpInstruments struct {
	duration metric.Float64Histogram
	bodySize metric.Int64Histogram
	active   metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	var (
		in   httpInstruments
		errs [3]error
	)
	in.duration, errs[0] = meter.Float64Histogram(MetricRequestDuration,
		metric.WithDescription("Duration of API requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...))
	in.bodySize, errs[1] = meter.Int64Histogram(MetricRequestBodySize,
		metric.WithDescription("Size of request bodies, uploads included"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(bodySizeBuckets...))
	in.active, errs[2] = meter.Int64UpDownCounter(MetricActiveRequests,
		metric.WithDescription("Requests being served"),
		metric.WithUnit("{request}"))
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return &in, nil
}

// HTTPMetrics records per route latency, body size and in-flight requests.
// Requests that matched no route are recorded under the route "unmatched".
// A nil meter disables it.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	if meter == nil {
		return func(c *gin.Context) { c.Next() }, nil
	}
	in, err := newHTTPInstruments(meter)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()
		method := metric.WithAttributes(semconv.HTTPRequestMethodKey.String(c.Request.Method))
		in.active.Add(ctx, 1, method)
		defer in.active.Add(ctx, -1, method)

		c.Next()

		attrs := requestAttributes(c)
		in.duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))
		if size := c.Request.ContentLength; size > 0 {
			in.bodySize.Record(ctx, size, metric.WithAttributes(attrs[:2]...))
		}
	}, nil
}

// requestAttributes starts with method and route so the pair can be sliced off
func requestAttributes(c *gin.Context) []attribute.KeyValue {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	attrs := []attribute.KeyValue{
		semconv.HTTPRequestMethodKey.String(c.Request.Method),
		semconv.HTTPRoute(route),
		semconv.HTTPResponseStatusCode(c.Writer.Status()),
	}
	if resource := GetResource(c); resource != "" {
		attrs = append(attrs, attribute.String("assetdesk.resource", resource))
	}
	if teamID, ok := GetTeamID(c); ok {
		attrs = append(attrs, attribute.String("team_id", teamID.String()))
	}
	return attrs
}
