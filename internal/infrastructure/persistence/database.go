package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/assetdesk/backend/internal/infrastructure/config"
	applogger "github.com/assetdesk/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultPingTimeout = 5 * time.Second

// Database owns the GORM handle and its connection pool
type Database struct {
	DB *gorm.DB
}

type openOptions struct {
	logger      gormlogger.Interface
	pingTimeout time.Duration
}

// OpenOption configures Open
type OpenOption func(*openOptions)

// WithSQLLogger logs statements through zap at the given level name.
// Statements slower than slow are warned about; zero keeps the default.
func WithSQLLogger(log *zap.Logger, level string, slow time.Duration) OpenOption {
	return func(o *openOptions) {
		var opts []applogger.GormLoggerOption
		if slow > 0 {
			opts = append(opts, applogger.WithSlowThreshold(slow))
		}
		o.logger = applogger.NewGormLogger(log, applogger.MapGormLogLevel(level), opts...)
	}
}

// WithPingTimeout bounds the connectivity check made by Open
func WithPingTimeout(d time.Duration) OpenOption {
	return func(o *openOptions) {
		o.pingTimeout = d
	}
}

// Open connects to the configured database, sizes the pool and checks the
// connection. SQL logging is off unless WithSQLLogger is given.
func Open(ctx context.Context, cfg *config.DatabaseConfig, opts ...OpenOption) (*Database, error) {
	o := openOptions{
		logger:      gormlogger.Discard,
		pingTimeout: defaultPingTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 o.logger,
		SkipDefaultTransaction: true,
		PrepareStmt:            cfg.Driver != "sqlite",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	d := &Database{DB: db}

	sqlDB, err := d.sqlDB()
	if err != nil {
		return nil, err
	}
	configurePool(sqlDB, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, o.pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return d, nil
}

// Dialector returns the GORM dialector for the configured driver
func Dialector(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", "postgres":
		return postgres.Open(cfg.DSN()), nil
	case "sqlite":
		// cascades on the join tables need foreign keys, which SQLite leaves off
		return sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on"), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func configurePool(sqlDB *sql.DB, cfg *config.DatabaseConfig) {
	if cfg.Driver == "sqlite" {
		// one writer at a time
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

func (d *Database) sqlDB() (*sql.DB, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB, nil
}

// Ping checks the connection, used by the health probe
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.sqlDB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Stats reports the connection pool
func (d *Database) Stats() sql.DBStats {
	sqlDB, err := d.sqlDB()
	if err != nil {
		return sql.DBStats{}
	}
	return sqlDB.Stats()
}

// Close closes the pool
func (d *Database) Close() error {
	sqlDB, err := d.sqlDB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
