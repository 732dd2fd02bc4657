package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/assetdesk/backend/internal/application/attachment"
	"github.com/assetdesk/backend/internal/application/audit"
	appinv "github.com/assetdesk/backend/internal/application/inventory"
	"github.com/assetdesk/backend/internal/application/taxonomy"
	"github.com/assetdesk/backend/internal/application/team"
	"github.com/assetdesk/backend/internal/domain/inventory"
	"github.com/assetdesk/backend/internal/domain/shared"
	"github.com/assetdesk/backend/internal/infrastructure/auth"
	"github.com/assetdesk/backend/internal/infrastructure/cache"
	"github.com/assetdesk/backend/internal/infrastructure/config"
	"github.com/assetdesk/backend/internal/infrastructure/event"
	"github.com/assetdesk/backend/internal/infrastructure/persistence"
	"github.com/assetdesk/backend/internal/infrastructure/scheduler"
	"github.com/assetdesk/backend/internal/infrastructure/storage"
	"github.com/assetdesk/backend/internal/infrastructure/telemetry"
	"github.com/assetdesk/backend/internal/interfaces/http/handler"
	"github.com/assetdesk/backend/internal/interfaces/http/middleware"
	"github.com/assetdesk/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	instrumentationName      = "github.com/assetdesk/backend"
	idempotencySweepInterval = 5 * time.Minute
)

type app struct {
	engine      *gin.Engine
	db          *persistence.Database
	idempotency shared.IdempotencyStore
	jobs        *scheduler.Scheduler
}

// Close releases the database and the idempotency store
func (a *app) Close() error {
	return errors.Join(a.idempotency.Close(), a.db.Close())
}

func uploadPolicies(cfg config.UploadConfig) attachment.Policies {
	return attachment.Policies{
		Image: attachment.UploadPolicy{MaxBytes: cfg.MaxImageKB * 1024, AllowedTypes: cfg.ImageMimeTypes},
		File:  attachment.UploadPolicy{MaxBytes: cfg.MaxFileKB * 1024, AllowedTypes: cfg.FileMimeTypes},
		Logo:  attachment.UploadPolicy{MaxBytes: cfg.MaxLogoKB * 1024, AllowedTypes: cfg.ImageMimeTypes},
	}
}

func newApp(ctx context.Context, cfg *config.Config, tel *telemetry.Telemetry, log *zap.Logger) (*app, error) {
	db, err := persistence.Open(ctx, &cfg.Database,
		persistence.WithSQLLogger(log, cfg.Log.Level, cfg.Telemetry.DBSlowQueryThresh))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := telemetry.InstrumentDB(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:        cfg.Database.Driver,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("instrument database: %w", err)
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	blobs, err := storage.NewBlobStore(ctx, &cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("blob store: %w", err)
	}

	meter := tel.Meter.Meter(instrumentationName)
	metrics, err := telemetry.NewAttachmentMetrics(meter)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("attachment metrics: %w", err)
	}

	auditRepo := persistence.NewGormAuditRepository(db.DB)
	bus := event.NewInMemoryEventBus(log, event.WithObserver(metrics))
	bus.Subscribe(audit.NewRecorder(auditRepo, log))
	bus.Subscribe(shared.HandleFunc(logFileLifecycle(log),
		inventory.EventTypeAdditionalFileCreated,
		inventory.EventTypeAdditionalFileDeleted,
	))

	files := attachment.NewManager(blobs, uploadPolicies(cfg.Upload), log)
	files.SetEventPublisher(bus)
	files.SetMetrics(metrics)

	readers := appinv.Readers{
		Assets:       persistence.NewGormAssetRepository(db.DB),
		Kits:         persistence.NewGormKitRepository(db.DB),
		Files:        persistence.NewGormAdditionalFileRepository(db.DB),
		CustomFields: persistence.NewGormCustomFieldRepository(db.DB),
		CustomValues: persistence.NewGormCustomFieldValueRepository(db.DB),
		Categories:   persistence.NewGormCategoryRepository(db.DB),
		Tags:         persistence.NewGormTagRepository(db.DB),
		Locations:    persistence.NewGormLocationRepository(db.DB),
	}
	scope := persistence.NewGormTransactionScope(db.DB)

	idemStore, err := cache.NewIdempotencyStore(ctx, cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var idempotency gin.HandlerFunc
	if cfg.Upload.IdempotencyEnabled {
		idempotency = middleware.Idempotency(middleware.IdempotencyMiddlewareConfig{
			Store:  idemStore,
			TTL:    cfg.Upload.IdempotencyTTL,
			Logger: log,
		})
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	engine, err := router.New(router.Options{
		HTTP:        cfg.HTTP,
		Logger:      log,
		ServiceName: cfg.Telemetry.ServiceName,
		Tracing:     tel.Tracer.IsEnabled(),
		Profiling:   tel.Profiler.IsEnabled(),
		Meter:       meter,
		Auth: middleware.AuthConfig{
			Validator:       jwtService,
			AllowTeamHeader: cfg.JWT.AllowTeamHeader,
			Logger:          log,
		},
		Idempotency: idempotency,
	}, router.Handlers{
		Assets:       handler.NewAssetHandler(appinv.NewAssetService(scope, files, readers, log)),
		Kits:         handler.NewKitHandler(appinv.NewKitService(scope, files, readers, log)),
		Files:        handler.NewAdditionalFileHandler(attachment.NewService(files, persistence.NewGormAttachmentTransactionScope(db.DB), readers.Files, log)),
		Categories:   handler.NewCategoryHandler(taxonomy.NewCategoryService(readers.Categories, log)),
		Tags:         handler.NewTagHandler(taxonomy.NewTagService(readers.Tags, log)),
		Locations:    handler.NewLocationHandler(taxonomy.NewLocationService(readers.Locations, files, log)),
		CustomFields: handler.NewCustomFieldHandler(appinv.NewCustomFieldService(readers.CustomFields, readers.Categories, log)),
		Teams:        handler.NewTeamHandler(team.NewService(persistence.NewGormTeamRepository(db.DB), files, log)),
		Audit:        handler.NewAuditHandler(audit.NewService(auditRepo)),
		System:       handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, db),
	})
	if err != nil {
		_ = idemStore.Close()
		_ = db.Close()
		return nil, err
	}

	if local, ok := blobs.(*storage.LocalStore); ok && strings.HasPrefix(local.PublicURL(), "/") {
		engine.StaticFS(local.PublicURL(), local.FileSystem())
	}

	jobs := scheduler.New(log)
	if cfg.Audit.Retention > 0 {
		if err := jobs.Register(audit.NewRetentionJob(auditRepo, cfg.Audit.Retention, log), scheduler.JobConfig{
			Interval:   cfg.Audit.PurgeInterval,
			RunAtStart: true,
		}); err != nil {
			_ = idemStore.Close()
			_ = db.Close()
			return nil, err
		}
	}

	if mem, ok := idemStore.(*cache.InMemoryIdempotencyStore); ok {
		if err := jobs.Register(cache.NewExpiryJob(mem, log), scheduler.JobConfig{
			Interval: idempotencySweepInterval,
		}); err != nil {
			_ = idemStore.Close()
			_ = db.Close()
			return nil, err
		}
	}

	return &app{engine: engine, db: db, idempotency: idemStore, jobs: jobs}, nil
}

// logFileLifecycle logs pool files appearing and disappearing, which is
// where orphaned blobs are tracked down
func logFileLifecycle(log *zap.Logger) func(context.Context, shared.DomainEvent) error {
	log = log.Named("files")
	return func(_ context.Context, e shared.DomainEvent) error {
		log.Info("additional file "+strings.ToLower(strings.TrimPrefix(e.EventType(), "AdditionalFile")),
			zap.String("file_id", e.AggregateID().String()),
			zap.String("team_id", e.TeamID().String()),
		)
		return nil
	}
}
