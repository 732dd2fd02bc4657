package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// TestContext is a gin context over a response recorder, for calling
// handlers directly
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
}

// ContextOption prepares a TestContext
type ContextOption func(*gin.Context)

// WithTeam sets the acting team the way the auth middleware does
func WithTeam(id uuid.UUID) ContextOption {
	return func(c *gin.Context) { c.Set("team_id", id.String()) }
}

// WithUser sets the authenticated user
func WithUser(id string) ContextOption {
	return func(c *gin.Context) { c.Set("user_id", id) }
}

// WithRequestID sets the request id the way the request id middleware does
func WithRequestID(id string) ContextOption {
	return func(c *gin.Context) { c.Set("request_id", id) }
}

// WithRequest replaces the default GET / request. An empty contentType
// leaves the header unset.
func WithRequest(method, target string, body io.Reader, contentType string) ContextOption {
	return func(c *gin.Context) {
		c.Request = httptest.NewRequest(method, target, body)
		if contentType != "" {
			c.Request.Header.Set("Content-Type", contentType)
		}
	}
}

// WithHeader sets a request header. Apply it after WithRequest.
func WithHeader(key, value string) ContextOption {
	return func(c *gin.Context) { c.Request.Header.Set(key, value) }
}

// NewTestContext creates a context holding a GET / request, then applies opts
func NewTestContext(t *testing.T, opts ...ContextOption) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, opt := range opts {
		opt(c)
	}
	return &TestContext{Context: c, Recorder: w}
}

// ResponseBody returns what the handler wrote
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the status the handler wrote
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}
