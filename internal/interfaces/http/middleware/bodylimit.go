package middleware

import (
	"net/http"
	"strings"

	"github.com/assetdesk/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimits caps request bodies. Multipart requests carry uploads and
// get Multipart; everything else gets Other. A limit of zero or less
// disables that cap.
type BodyLimits struct {
	Multipart int64
	Other     int64
}

func (l BodyLimits) forRequest(r *http.Request) int64 {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return l.Multipart
	}
	return l.Other
}

// BodyLimit rejects a declared Content-Length over the limit with 413 and
// caps chunked bodies while they are read
func BodyLimit(limits BodyLimits) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := limits.forRequest(c.Request)
		if limit <= 0 || c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.Fail(
				dto.ErrCodeTooLarge, "Request body exceeds maximum allowed size", GetRequestID(c)))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
