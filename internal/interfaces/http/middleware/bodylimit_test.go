package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/assetdesk/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bodyLimitRouter(limits BodyLimits) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), BodyLimit(limits))
	handler := func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.String(http.StatusBadRequest, "read failed")
			return
		}
		c.String(http.StatusOK, "ok")
	}
	r.POST("/api/v1/assets", handler)
	r.GET("/api/v1/assets", handler)
	return r
}

func TestBodyLimit(t *testing.T) {
	limits := BodyLimits{Multipart: 1000, Other: 100}

	tests := []struct {
		name          string
		limits        BodyLimits
		method        string
		contentType   string
		size          int
		contentLength int64
		wantStatus    int
	}{
		{name: "json within limit", limits: limits, method: http.MethodPost, contentType: "application/json", size: 50, contentLength: 50, wantStatus: http.StatusOK},
		{name: "json over limit", limits: limits, method: http.MethodPost, contentType: "application/json", size: 200, contentLength: 200, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "multipart uses the upload limit", limits: limits, method: http.MethodPost, contentType: "multipart/form-data; boundary=x", size: 500, contentLength: 500, wantStatus: http.StatusOK},
		{name: "multipart over the upload limit", limits: limits, method: http.MethodPost, contentType: "multipart/form-data; boundary=x", size: 2000, contentLength: 2000, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "chunked body capped while read", limits: limits, method: http.MethodPost, contentType: "application/json", size: 200, contentLength: -1, wantStatus: http.StatusBadRequest},
		{name: "GET without body", limits: BodyLimits{Other: 1}, method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "zero limit disables the cap", limits: BodyLimits{}, method: http.MethodPost, contentType: "application/json", size: 4096, contentLength: 4096, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.size > 0 {
				body = strings.NewReader(strings.Repeat("x", tt.size))
			}
			req := httptest.NewRequest(tt.method, "/api/v1/assets", body)
			if tt.size > 0 {
				req.ContentLength = tt.contentLength
				req.Header.Set("Content-Type", tt.contentType)
			}
			w := httptest.NewRecorder()
			bodyLimitRouter(tt.limits).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusRequestEntityTooLarge {
				return
			}
			env := testutil.DecodeEnvelope(t, w.Body.Bytes())
			require.NotNil(t, env.Error)
			assert.Equal(t, "REQUEST_TOO_LARGE", env.Error.Code)
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}
}
