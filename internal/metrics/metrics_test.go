package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	MatchesCreated.WithLabelValues(SourceSchedule).Add(3)
	assert.InDelta(t, 3, testutil.ToFloat64(MatchesCreated.WithLabelValues(SourceSchedule)), 1e-9)

	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "league_engine_engine_matches_created_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestNewRegistry_Twice(t *testing.T) {
	_, err := NewRegistry()
	require.NoError(t, err)
	_, err = NewRegistry()
	assert.NoError(t, err, "each registry is independent")
}
