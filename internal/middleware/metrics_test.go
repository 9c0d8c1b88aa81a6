package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/festy23/league_engine/internal/metrics"
)

func TestMetrics_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics())
	r.GET("/leagues/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := metrics.HTTPRequests.WithLabelValues("/leagues/:id", http.MethodGet, "200")
	missing := metrics.HTTPRequests.WithLabelValues("unmatched", http.MethodGet, "404")
	before, beforeMissing := testutil.ToFloat64(counter), testutil.ToFloat64(missing)

	for _, path := range []string{"/leagues/1", "/leagues/2", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
	assert.Equal(t, beforeMissing+1, testutil.ToFloat64(missing))
}
