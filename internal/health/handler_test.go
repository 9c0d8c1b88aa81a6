package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func check(t *testing.T, db *gorm.DB) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", New(db, zap.NewNop().Sugar()).Check)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHandler_Check(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		w, resp := check(t, setupTestDB(t))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "sqlite", resp.Database)
		require.NotNil(t, resp.OpenConnections)
		assert.LessOrEqual(t, *resp.OpenConnections, 1)
	})

	t.Run("database closed", func(t *testing.T) {
		db := setupTestDB(t)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		require.NoError(t, sqlDB.Close())

		w, resp := check(t, db)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "down", resp.Database)
		assert.Nil(t, resp.OpenConnections)
	})

	t.Run("nil database", func(t *testing.T) {
		w, resp := check(t, nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", resp.Status)
	})
}
