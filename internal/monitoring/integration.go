package monitoring

import (
	"sync"
	"time"
)

// The engine reports every operation to the global collector; nothing is
// recorded until one is installed.
//
//nolint:gochecknoglobals // process-wide collector shared by all engine calls
var (
	globalCollector *MetricsCollector
	globalMutex     sync.RWMutex
)

// SetGlobalCollector installs collector; nil stops recording.
func SetGlobalCollector(collector *MetricsCollector) {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	globalCollector = collector
}

// GetGlobalCollector returns the installed collector or nil.
func GetGlobalCollector() *MetricsCollector {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return globalCollector
}

// EnableGlobalMonitoring installs a fresh enabled collector and returns it.
func EnableGlobalMonitoring() *MetricsCollector {
	collector := NewMetricsCollector(true)
	SetGlobalCollector(collector)
	return collector
}

// ObserveGlobal records a finished engine operation on the global
// collector, if any.
func ObserveGlobal(operation string, rows int, duration time.Duration, err error) {
	if collector := GetGlobalCollector(); collector != nil {
		collector.Observe(operation, rows, duration, err)
	}
}

// GlobalSummary summarises the global collector; zero when none is set.
func GlobalSummary() MetricsSummary {
	if collector := GetGlobalCollector(); collector != nil {
		return collector.GetSummary()
	}
	return MetricsSummary{}
}
