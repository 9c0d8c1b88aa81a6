package database

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/festy23/league_engine/internal/database/config"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestNewWithConfig_UnreachableHost(t *testing.T) {
	t.Setenv("DB_RETRY_MAX_ATTEMPTS", "1")

	cfg := config.Config{
		Host:     "127.0.0.1",
		User:     "league",
		Password: "s3cr3t-password",
		DBName:   "league_engine",
		Port:     "1",
		SSLMode:  "disable",
		TimeZone: "UTC",
	}

	db, err := NewWithConfig(cfg, zap.NewNop().Sugar())
	require.Error(t, err)
	assert.Nil(t, db)
	assert.NotContains(t, err.Error(), "s3cr3t-password")
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy connection", func(t *testing.T) {
		db := openSQLite(t)
		defer Close(db)

		assert.NoError(t, HealthCheck(context.Background(), db))
	})

	t.Run("nil database", func(t *testing.T) {
		err := HealthCheck(context.Background(), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database connection is nil")
	})

	t.Run("closed connection", func(t *testing.T) {
		db := openSQLite(t)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		err = HealthCheck(context.Background(), db)
		assert.Error(t, err)
		assert.True(t,
			strings.Contains(err.Error(), "database ping failed") ||
				strings.Contains(err.Error(), "failed to get underlying sql.DB"),
			"error should be related to connection: %s", err.Error())
	})
}

func TestClose(t *testing.T) {
	t.Run("close valid connection", func(t *testing.T) {
		db := openSQLite(t)

		require.NoError(t, Close(db))

		sqlDB, err := db.DB()
		require.NoError(t, err)
		assert.Error(t, sqlDB.Ping())
	})

	t.Run("close nil database", func(t *testing.T) {
		assert.NoError(t, Close(nil))
	})
}

func TestGetStats(t *testing.T) {
	t.Run("valid connection", func(t *testing.T) {
		db := openSQLite(t)
		defer Close(db)

		stats, err := GetStats(db)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, stats.MaxOpenConnections, 0)
	})

	t.Run("nil database", func(t *testing.T) {
		stats, err := GetStats(nil)
		assert.Error(t, err)
		assert.Nil(t, stats)
	})
}

type lockProbe struct {
	ID uint
}

func TestForUpdate(t *testing.T) {
	t.Run("sqlite has no lock clause", func(t *testing.T) {
		db := openSQLite(t)
		sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
			var rows []lockProbe
			return ForUpdate(tx).Find(&rows)
		})
		assert.NotContains(t, strings.ToUpper(sql), "FOR UPDATE")
	})

	t.Run("postgres locks rows", func(t *testing.T) {
		db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=127.0.0.1 port=1"}), &gorm.Config{
			DryRun:               true,
			DisableAutomaticPing: true,
		})
		require.NoError(t, err)
		sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
			var rows []lockProbe
			return ForUpdate(tx).Find(&rows)
		})
		assert.Contains(t, sql, "FOR UPDATE")
	})
}
