package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/assetdesk/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func() error

func (f pingerFunc) Ping(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return f()
}

func (f pingerFunc) Stats() sql.DBStats {
	return sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2}
}

func TestSystemHandler_Version(t *testing.T) {
	h := NewSystemHandler("assetdesk", "1.4.0", nil)
	tc := testutil.NewTestContext(t)

	h.Version(tc.Context)

	assert.Equal(t, http.StatusOK, tc.ResponseCode())
	data := testutil.JSONResponse(t, tc)["data"].(map[string]interface{})
	assert.Equal(t, "assetdesk", data["name"])
	assert.Equal(t, "1.4.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewSystemHandler("assetdesk", "dev", pingerFunc(func() error { return nil }))
		tc := testutil.NewTestContext(t)

		h.Health(tc.Context)

		assert.Equal(t, http.StatusOK, tc.ResponseCode())
		data := testutil.JSONResponse(t, tc)["data"].(map[string]interface{})
		assert.Equal(t, "healthy", data["status"])
		assert.Equal(t, "ok", data["database"])
		pool := data["pool"].(map[string]interface{})
		assert.Equal(t, float64(3), pool["open"])
		assert.Equal(t, float64(1), pool["in_use"])
	})

	t.Run("database down", func(t *testing.T) {
		h := NewSystemHandler("assetdesk", "dev", pingerFunc(func() error { return errors.New("connection refused") }))
		tc := testutil.NewTestContext(t)

		h.Health(tc.Context)

		assert.Equal(t, http.StatusServiceUnavailable, tc.ResponseCode())
		resp := decode(t, tc)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "unhealthy", data["status"])
		assert.NotContains(t, data, "pool")
	})
}
