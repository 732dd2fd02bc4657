package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Idempotency headers
const (
	IdempotencyKeyHeader      = "Idempotency-Key"
	IdempotencyReplayedHeader = "Idempotency-Replayed"
	maxIdempotencyKeyLength   = 255
)

// IdempotencyMiddlewareConfig configures Idempotency. A nil Store
// disables it; a zero TTL uses shared.DefaultIdempotencyTTL.
type IdempotencyMiddlewareConfig struct {
	Store  shared.IdempotencyStore
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency makes a write safe to retry. The first request with a key
// reserves it and its response is stored; repeats replay that response.
// A repeat while the first is still running gets 409. Server errors (5xx)
// release the key so the client can try again. Keys are scoped by team
// and route. Requests without the header pass through.
func Idempotency(cfg IdempotencyMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Store == nil {
		return func(c *gin.Context) { c.Next() }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyTTL
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.Fail(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		ctx := c.Request.Context()
		scoped := scopedIdempotencyKey(c, key)
		reserved, err := cfg.Store.Reserve(ctx, scoped, ttl)
		if err != nil {
			log.Warn("idempotency store unavailable, processing without key",
				zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if !reserved {
			stored, err := cfg.Store.Lookup(ctx, scoped)
			if err != nil {
				log.Warn("idempotency lookup failed", zap.String("key", key), zap.Error(err))
			}
			if stored == nil {
				c.AbortWithStatusJSON(http.StatusConflict, dto.Fail(
					dto.ErrCodeInFlight, "A request with this Idempotency-Key is still being processed", GetRequestID(c)))
				return
			}
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(stored.Status, stored.ContentType, stored.Body)
			c.Abort()
			return
		}

		recorder := &responseRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder
		c.Next()

		// The request context may already be cancelled by a timeout;
		// the outcome must still be recorded.
		finish := context.WithoutCancel(ctx)
		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			if err := cfg.Store.Release(finish, scoped); err != nil {
				log.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
			}
			return
		}
		resp := shared.StoredResponse{
			Status:      status,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		}
		if err := cfg.Store.Complete(finish, scoped, resp, ttl); err != nil {
			log.Warn("failed to store idempotent response", zap.String("key", key), zap.Error(err))
		}
	}
}

func scopedIdempotencyKey(c *gin.Context, key string) string {
	team := c.GetString(TeamIDKey)
	return team + ":" + c.Request.Method + ":" + c.FullPath() + ":" + key
}

// responseRecorder copies the response body while it is written
type responseRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}
