package testutil

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/assetdesk/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	}
}

// NewMockDB opens GORM in the PostgreSQL dialect over sqlmock, for asserting
// the exact statements a repository issues. Unmet expectations fail the
// test when it ends.
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)

	cfg := gormConfig()
	cfg.DisableAutomaticPing = true
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn, DriverName: "postgres"}), cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet(), "unmet database expectations")
		_ = conn.Close()
	})
	return db, mock
}

// NewSQLiteDB opens a private in-memory SQLite database with every model
// migrated. It has one connection, so the schema lives as long as the test
// and transactions run one at a time as they would under row locks.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), gormConfig())
	require.NoError(t, err)

	conn, err := db.DB()
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...), "migrate sqlite schema")
	return db
}
