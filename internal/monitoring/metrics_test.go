//nolint:testpackage // requires internal access to unexported types and functions
package monitoring

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCollector(t *testing.T) {
	t.Run("create disabled collector", func(t *testing.T) {
		collector := NewMetricsCollector(false)
		assert.NotNil(t, collector)
		assert.False(t, collector.IsEnabled())
		assert.Empty(t, collector.GetMetrics())
	})

	t.Run("record operation with disabled collector", func(t *testing.T) {
		collector := NewMetricsCollector(false)

		callCount := 0
		err := collector.RecordOperation("groupBy", func() error {
			callCount++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, callCount)
		assert.Empty(t, collector.GetMetrics())
		assert.InDelta(t, 0, testutil.ToFloat64(collector.operations.WithLabelValues("groupBy", StatusSuccess)), 0)
	})

	t.Run("record operation with enabled collector", func(t *testing.T) {
		collector := NewMetricsCollector(true)

		err := collector.RecordOperation("join", func() error {
			time.Sleep(time.Millisecond)
			return nil
		})

		require.NoError(t, err)
		metrics := collector.GetMetrics()
		require.Len(t, metrics, 1)
		assert.Equal(t, "join", metrics[0].Operation)
		assert.False(t, metrics[0].Failed)
		assert.GreaterOrEqual(t, metrics[0].Duration, time.Millisecond)
	})

	t.Run("record failing operation", func(t *testing.T) {
		collector := NewMetricsCollector(true)
		boom := errors.New("boom")

		err := collector.RecordOperation("insert", func() error { return boom })

		require.ErrorIs(t, err, boom)
		require.Len(t, collector.GetMetrics(), 1)
		assert.True(t, collector.GetMetrics()[0].Failed)
		assert.InDelta(t, 1, testutil.ToFloat64(collector.operations.WithLabelValues("insert", StatusError)), 0)
	})

	t.Run("clear and toggle", func(t *testing.T) {
		collector := NewMetricsCollector(true)
		collector.Observe("explode", 3, time.Millisecond, nil)
		require.Len(t, collector.GetMetrics(), 1)

		collector.Clear()
		assert.Empty(t, collector.GetMetrics())

		collector.SetEnabled(false)
		collector.Observe("explode", 3, time.Millisecond, nil)
		assert.Empty(t, collector.GetMetrics())
	})
}

func TestPrometheusExport(t *testing.T) {
	collector := NewMetricsCollector(true)
	collector.Observe("pivot", 10, 2*time.Millisecond, nil)
	collector.Observe("pivot", 5, time.Millisecond, nil)
	collector.Observe("pivot", 1, time.Millisecond, errors.New("bad key"))

	expected := `
# HELP canopy_operations_total Total number of DataFrame operations
# TYPE canopy_operations_total counter
canopy_operations_total{operation="pivot",status="error"} 1
canopy_operations_total{operation="pivot",status="success"} 2
`
	err := testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "canopy_operations_total")
	require.NoError(t, err)

	assert.InDelta(t, 16, testutil.ToFloat64(collector.rows.WithLabelValues("pivot")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(collector.duration))
}

func TestGetSummary(t *testing.T) {
	collector := NewMetricsCollector(true)
	assert.Equal(t, MetricsSummary{}, collector.GetSummary())

	collector.Observe("select", 4, 2*time.Millisecond, nil)
	collector.Observe("select", 6, 4*time.Millisecond, nil)
	collector.Observe("join", 1, 3*time.Millisecond, errors.New("missing key"))

	summary := collector.GetSummary()
	assert.Equal(t, 3, summary.TotalOperations)
	assert.Equal(t, int64(11), summary.TotalRows)
	assert.Equal(t, 1, summary.Failures)
	assert.Equal(t, 9*time.Millisecond, summary.TotalDuration)
	assert.Equal(t, 3*time.Millisecond, summary.AverageDuration)
	assert.Equal(t, map[string]int{"select": 2, "join": 1}, summary.OperationCounts)
}
