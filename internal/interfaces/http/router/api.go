package router

import (
	"fmt"

	"github.com/assetdesk/backend/internal/infrastructure/config"
	"github.com/assetdesk/backend/internal/infrastructure/logger"
	"github.com/assetdesk/backend/internal/interfaces/http/handler"
	"github.com/assetdesk/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Handlers are the handlers mounted by New
type Handlers struct {
	Assets       *handler.AssetHandler
	Kits         *handler.KitHandler
	Files        *handler.AdditionalFileHandler
	Categories   *handler.CategoryHandler
	Tags         *handler.TagHandler
	Locations    *handler.LocationHandler
	CustomFields *handler.CustomFieldHandler
	Teams        *handler.TeamHandler
	Audit        *handler.AuditHandler
	System       *handler.SystemHandler
}

// Options configures the engine built by New
type Options struct {
	HTTP        config.HTTPConfig
	Logger      *zap.Logger
	ServiceName string
	Tracing     bool
	Profiling   bool
	// Meter records HTTP metrics; nil disables them
	Meter metric.Meter
	Auth  middleware.AuthConfig
	// Idempotency guards create and upload routes; nil disables it
	Idempotency gin.HandlerFunc
}

// versionPath is served without credentials
const versionPath = "/api/v1/version"

// New builds the gin engine with the global middleware chain, /health and
// every /api/v1 route
func New(opts Options, h Handlers) (*gin.Engine, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	httpMetrics, err := middleware.HTTPMetrics(opts.Meter)
	if err != nil {
		return nil, fmt.Errorf("http metrics: %w", err)
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{ServiceName: opts.ServiceName, Enabled: opts.Tracing}),
		logger.AccessLog(log, logger.WithSkipPaths("/health"), logger.WithSlowRequest(opts.HTTP.SlowRequest)),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORS(middleware.CORSConfigFromHTTP(opts.HTTP)),
		middleware.BodyLimit(middleware.BodyLimits{Multipart: opts.HTTP.MaxBodySize, Other: opts.HTTP.MaxJSONBodySize}),
		middleware.Timeout(opts.HTTP.RequestTimeout),
		httpMetrics,
	)

	engine.GET("/health", h.System.Health)

	authCfg := opts.Auth
	authCfg.SkipPaths = append(authCfg.SkipPaths, versionPath)
	if authCfg.Logger == nil {
		authCfg.Logger = log
	}

	idem := opts.Idempotency
	if idem == nil {
		idem = func(c *gin.Context) { c.Next() }
	}

	table := Mount(engine, "v1",
		[]gin.HandlerFunc{
			middleware.Auth(authCfg),
			middleware.TracingAttributeInjector(),
			middleware.Profiling(opts.Profiling),
		},
		resources(h, idem)...,
	)
	log.Debug("routes mounted", zap.Int("count", len(table)))
	for _, route := range table {
		log.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}

	return engine, nil
}

func resources(h Handlers, idem gin.HandlerFunc) []*Resource {
	system := NewResource("system", "")
	system.GET("/version", h.System.Version)

	assets := NewResource("assets", "/assets")
	assets.GET("", h.Assets.List).POST("", idem, h.Assets.Create)
	assets.GET("/:id", h.Assets.GetByID).Update("/:id", h.Assets.Update).DELETE("/:id", h.Assets.Destroy)

	kits := NewResource("kits", "/kits")
	kits.GET("", h.Kits.List).POST("", idem, h.Kits.Create)
	kits.GET("/:id", h.Kits.GetByID).Update("/:id", h.Kits.Update).DELETE("/:id", h.Kits.Destroy)
	kits.Nest("kit-assets", "/:id/assets").
		POST("", h.Kits.AddAsset).
		DELETE("/:assetId", h.Kits.RemoveAsset)

	files := NewResource("additional-files", "/additional-files")
	files.GET("", h.Files.List).POST("", idem, h.Files.Upload)
	files.GET("/:id", h.Files.GetByID).DELETE("/:id", h.Files.Delete)

	categories := NewResource("categories", "/categories")
	categories.GET("", h.Categories.List).POST("", idem, h.Categories.Create)
	categories.GET("/:id", h.Categories.GetByID).PUT("/:id", h.Categories.Update).DELETE("/:id", h.Categories.Delete)
	categories.POST("/:id/restore", h.Categories.Restore)

	tags := NewResource("tags", "/tags")
	tags.GET("", h.Tags.List).POST("", idem, h.Tags.Create)
	tags.GET("/:id", h.Tags.GetByID).PUT("/:id", h.Tags.Update).DELETE("/:id", h.Tags.Delete)

	locations := NewResource("locations", "/locations")
	locations.GET("", h.Locations.List).POST("", idem, h.Locations.Create)
	locations.GET("/:id", h.Locations.GetByID).Update("/:id", h.Locations.Update).DELETE("/:id", h.Locations.Delete)

	customFields := NewResource("custom-fields", "/custom-fields")
	customFields.GET("", h.CustomFields.List).POST("", idem, h.CustomFields.Create)
	customFields.GET("/:id", h.CustomFields.GetByID).PUT("/:id", h.CustomFields.Update).DELETE("/:id", h.CustomFields.Delete)

	teams := NewResource("teams", "/teams")
	teams.GET("/:id", h.Teams.Get).Update("/:id/logo", idem, h.Teams.UploadLogo)

	audit := NewResource("audit", "/audit")
	audit.GET("", h.Audit.List).GET("/:type/:id", h.Audit.History)

	return []*Resource{system, assets, kits, files, categories, tags, locations, customFields, teams, audit}
}
