// Package integration runs the services against a real PostgreSQL started
// with testcontainers. The tests are skipped with -short.
package integration

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/assetdesk/backend/internal/infrastructure/config"
	"github.com/assetdesk/backend/internal/infrastructure/migration"
	"github.com/assetdesk/backend/internal/infrastructure/persistence"
	"github.com/assetdesk/backend/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

const (
	pgImage    = "postgres:16-alpine"
	pgDatabase = "assetdesk_test"
	pgUser     = "postgres"
	pgPassword = "postgres"
)

// TestDB is a migrated PostgreSQL in its own container, opened the same
// way the server opens its database
type TestDB struct {
	DB *gorm.DB

	database  *persistence.Database
	container *tcpostgres.PostgresContainer
	t         *testing.T
}

// NewTestDB starts PostgreSQL and applies the embedded migrations
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, pgImage,
		tcpostgres.WithDatabase(pgDatabase),
		tcpostgres.WithUsername(pgUser),
		tcpostgres.WithPassword(pgPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	tdb := &TestDB{container: container, t: t}
	t.Cleanup(tdb.close)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	tdb.database, err = persistence.Open(ctx, &config.DatabaseConfig{
		Driver:       "postgres",
		Host:         host,
		Port:         port.Int(),
		User:         pgUser,
		Password:     pgPassword,
		DBName:       pgDatabase,
		SSLMode:      "disable",
		MaxOpenConns: 20,
		MaxIdleConns: 5,
	}, persistence.WithPingTimeout(30*time.Second))
	require.NoError(t, err, "open postgres")
	tdb.DB = tdb.database.DB

	require.NoError(t, tdb.Migrator().Up(), "apply migrations")
	return tdb
}

// Migrator returns a migrator over the embedded migrations. Closing it
// closes its own connection only.
func (tdb *TestDB) Migrator() *migration.Migrator {
	tdb.t.Helper()
	sqlDB, err := sql.Open("postgres", tdb.dsn())
	require.NoError(tdb.t, err)
	m, err := migration.NewWithFS(sqlDB, migrations.FS, zaptest.NewLogger(tdb.t))
	require.NoError(tdb.t, err)
	tdb.t.Cleanup(func() { _ = m.Close() })
	return m
}

func (tdb *TestDB) dsn() string {
	dsn, err := tdb.container.ConnectionString(context.Background(), "sslmode=disable")
	require.NoError(tdb.t, err)
	return dsn
}

func (tdb *TestDB) close() {
	if tdb.database != nil {
		_ = tdb.database.Close()
	}
	if err := tdb.container.Terminate(context.Background()); err != nil {
		tdb.t.Logf("terminate container: %v", err)
	}
}

// Count returns the number of rows matching the query
func (tdb *TestDB) Count(query string, args ...any) int64 {
	tdb.t.Helper()
	var n int64
	require.NoError(tdb.t, tdb.DB.Raw(query, args...).Scan(&n).Error)
	return n
}
