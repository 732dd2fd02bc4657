package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/assetdesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.DatabaseConfig
		want    string
		wantErr bool
	}{
		{name: "postgres", cfg: config.DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, DBName: "assetdesk", SSLMode: "disable"}, want: "postgres"},
		{name: "default driver", cfg: config.DatabaseConfig{Host: "db", Port: 5432}, want: "postgres"},
		{name: "sqlite", cfg: config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"}, want: "sqlite"},
		{name: "unknown driver", cfg: config.DatabaseConfig{Driver: "oracle"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Dialector(&tt.cfg)
			if tt.wantErr {
				assert.ErrorContains(t, err, "oracle")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name())
		})
	}
}

func openSQLite(t *testing.T, opts ...OpenOption) *Database {
	t.Helper()
	cfg := &config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "assetdesk.db"),
	}
	db, err := Open(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_SQLite(t *testing.T) {
	db := openSQLite(t)

	require.NoError(t, db.Ping(context.Background()))
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)

	var fk int
	require.NoError(t, db.DB.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}

func TestOpen_SQLLogger(t *testing.T) {
	core, recorded := observer.New(zap.DebugLevel)
	db := openSQLite(t, WithSQLLogger(zap.New(core), "info", time.Second))

	require.NoError(t, db.DB.Exec("SELECT 1").Error)

	var sqlLines int
	for _, e := range recorded.All() {
		if e.Message == "SQL" {
			sqlLines++
		}
	}
	assert.Positive(t, sqlLines)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.DatabaseConfig{Driver: "mysql"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
	})
	require.NoError(t, err)
	return &Database{DB: gormDB}, mock
}

func TestDatabase_Ping(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectPing()
	assert.NoError(t, db.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(assert.AnError)
	assert.ErrorIs(t, db.Ping(context.Background()), assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Close(t *testing.T) {
	db, mock := newMockDatabase(t)

	mock.ExpectClose()
	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Stats(t *testing.T) {
	db, _ := newMockDatabase(t)

	stats := db.Stats()
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
	assert.Zero(t, stats.InUse)
}
