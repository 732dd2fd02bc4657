package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// ResourceKey is the context key holding the API resource of the route
const ResourceKey = "resource"

// Profiling label keys
const (
	ProfilingLabelRoute    = "route"
	ProfilingLabelMethod   = "method"
	ProfilingLabelResource = "resource"
	ProfilingLabelTeamID   = "team_id"
)

// TagResource records which API resource ("assets", "kits", ...) serves
// the request
func TagResource(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ResourceKey, name)
	}
}

// GetResource returns the resource recorded by TagResource
func GetResource(c *gin.Context) string {
	return c.GetString(ResourceKey)
}

// Profiling runs the rest of the chain under pyroscope labels so CPU and
// allocation profiles can be split by route, resource and team. It belongs
// after Auth and TagResource.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.FullPath() == "" {
			c.Next()
			return
		}
		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(profilingLabels(c)...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) []string {
	labels := []string{
		ProfilingLabelMethod, c.Request.Method,
		ProfilingLabelRoute, c.FullPath(),
	}
	if resource := GetResource(c); resource != "" {
		labels = append(labels, ProfilingLabelResource, resource)
	}
	if teamID, ok := GetTeamID(c); ok {
		labels = append(labels, ProfilingLabelTeamID, teamID.String())
	}
	return labels
}
