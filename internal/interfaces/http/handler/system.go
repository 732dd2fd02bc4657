package handler

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"github.com/assetdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DatabaseProbe reports whether the database is reachable and how busy
// its pool is
type DatabaseProbe interface {
	Ping(ctx context.Context) error
	Stats() sql.DBStats
}

const healthPingTimeout = 2 * time.Second

// SystemHandler serves health and version
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	db        DatabaseProbe
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string, db DatabaseProbe) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		db:        db,
		startTime: time.Now(),
	}
}

// VersionResponse is the build information of the running server
type VersionResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Version returns the running version
func (h *SystemHandler) Version(c *gin.Context) {
	h.Success(c, VersionResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// HealthResponse is the health probe result
type HealthResponse struct {
	Status   string     `json:"status"`
	Time     string     `json:"time"`
	Database string     `json:"database"`
	Pool     *PoolStats `json:"pool,omitempty"`
}

// PoolStats is the database connection pool at probe time
type PoolStats struct {
	Open    int   `json:"open"`
	InUse   int   `json:"in_use"`
	Idle    int   `json:"idle"`
	Waiting int64 `json:"wait_count"`
}

// Health answers 200 while the database is reachable, 503 otherwise
func (h *SystemHandler) Health(c *gin.Context) {
	now := time.Now().Format(time.RFC3339)
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, dto.Response{
				Success: false,
				Data:    HealthResponse{Status: "unhealthy", Time: now, Database: "error"},
				Error:   &dto.ErrorInfo{Code: dto.ErrCodeStorage, Message: "database unreachable"},
			})
			return
		}
	}
	resp := HealthResponse{Status: "healthy", Time: now, Database: "ok"}
	if h.db != nil {
		stats := h.db.Stats()
		resp.Pool = &PoolStats{Open: stats.OpenConnections, InUse: stats.InUse, Idle: stats.Idle, Waiting: stats.WaitCount}
	}
	h.Success(c, resp)
}
