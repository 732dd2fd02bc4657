package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/assetdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func echo(c *gin.Context) {
	c.String(http.StatusOK, c.Request.Method+" "+c.FullPath())
}

func TestMount(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	assets := NewResource("assets", "/assets")
	assets.GET("", echo).Update("/:id", echo)
	kits := NewResource("kits", "/kits")
	kits.Nest("kit-assets", "/:id/assets").DELETE("/:assetId", echo)

	table := Mount(engine, "v2", []gin.HandlerFunc{func(c *gin.Context) {
		c.Header("X-API", "1")
		c.Header("X-Resource", middleware.GetResource(c))
		c.Next()
	}}, assets, kits)

	w := serve(engine, http.MethodPost, "/api/v2/assets/a1")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "POST /api/v2/assets/:id", w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-API"))
	assert.Equal(t, "assets", w.Header().Get("X-Resource"))
	assert.Equal(t, "kits", serve(engine, http.MethodDelete, "/api/v2/kits/k1/assets/a1").Header().Get("X-Resource"))

	assert.Equal(t, "PUT /api/v2/assets/:id", serve(engine, http.MethodPut, "/api/v2/assets/a1").Body.String())
	assert.Equal(t, "DELETE /api/v2/kits/:id/assets/:assetId", serve(engine, http.MethodDelete, "/api/v2/kits/k1/assets/a1").Body.String())
	assert.Empty(t, serve(engine, http.MethodGet, "/health").Header().Get("X-API"))
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/assets").Code)

	require.Len(t, table, 4)
	assert.Equal(t, []Route{
		{Method: http.MethodGet, Path: "/api/v2/assets"},
		{Method: http.MethodPost, Path: "/api/v2/assets/:id"},
		{Method: http.MethodPut, Path: "/api/v2/assets/:id"},
		{Method: http.MethodDelete, Path: "/api/v2/kits/:id/assets/:assetId"},
	}, table)
}

func TestResource_Middleware(t *testing.T) {
	engine := gin.New()
	files := NewResource("additional-files", "/additional-files").Use(func(c *gin.Context) {
		c.Header("X-Resource", "files")
		c.Next()
	})
	files.GET("/:id", echo)
	files.Nest("downloads", "/:id/download").GET("", echo)
	tags := NewResource("tags", "/tags")
	tags.GET("", echo)
	Mount(engine, "v1", nil, files, tags)

	assert.Equal(t, "additional-files", files.Name())
	assert.Equal(t, "files", serve(engine, http.MethodGet, "/api/v1/additional-files/f1").Header().Get("X-Resource"))
	assert.Equal(t, "files", serve(engine, http.MethodGet, "/api/v1/additional-files/f1/download").Header().Get("X-Resource"))
	assert.Empty(t, serve(engine, http.MethodGet, "/api/v1/tags").Header().Get("X-Resource"))
}

func TestResources_CoverAPI(t *testing.T) {
	var paths []string
	for _, res := range resources(Handlers{}, nil) {
		for _, route := range res.table("/api/v1") {
			paths = append(paths, route.Method+" "+route.Path)
		}
	}

	for _, want := range []string{
		"POST /api/v1/assets",
		"POST /api/v1/assets/:id",
		"PUT /api/v1/kits/:id",
		"POST /api/v1/kits/:id/assets",
		"DELETE /api/v1/kits/:id/assets/:assetId",
		"POST /api/v1/additional-files",
		"DELETE /api/v1/additional-files/:id",
		"PUT /api/v1/teams/:id/logo",
		"GET /api/v1/version",
	} {
		assert.Contains(t, paths, want)
	}
}
