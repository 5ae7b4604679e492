//nolint:testpackage // requires internal access to unexported types and functions
package monitoring

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerEndpoints(t *testing.T) {
	collector := NewMetricsCollector(true)
	collector.Observe("groupBy", 3, time.Millisecond, nil)

	ts := httptest.NewServer(NewMonitoringServer(collector, 0).Handler())
	defer ts.Close()

	t.Run("prometheus metrics", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), `canopy_operations_total{operation="groupBy",status="success"} 1`)
	})

	t.Run("summary", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/summary")
		require.NoError(t, err)
		defer resp.Body.Close()

		var summary MetricsSummary
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
		assert.Equal(t, 1, summary.TotalOperations)
		assert.Equal(t, int64(3), summary.TotalRows)
	})

	t.Run("summary rejects post", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/summary", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()

		var health map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
		assert.Equal(t, "ok", health["status"])
		assert.Equal(t, true, health["enabled"])
	})
}
