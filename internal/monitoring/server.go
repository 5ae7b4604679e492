package monitoring

import (
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a collector over HTTP: prometheus exposition on /metrics,
// the in-memory summary on /summary and a liveness probe on /health.
type Server struct {
	collector *MetricsCollector
	server    *http.Server
}

// NewMonitoringServer creates a new monitoring server.
func NewMonitoringServer(collector *MetricsCollector, port int) *Server {
	server := &Server{collector: collector}
	server.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second, //nolint:mnd // Standard timeout value
	}
	return server
}

// Handler returns the HTTP handler serving the monitoring endpoints.
func (ms *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(ms.collector.Registry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/summary", ms.handleSummary)
	mux.HandleFunc("/health", ms.handleHealth)
	return mux
}

// Start starts the monitoring server.
func (ms *Server) Start() error {
	return ms.server.ListenAndServe()
}

// Stop stops the monitoring server.
func (ms *Server) Stop() error {
	return ms.server.Close()
}

func (ms *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ms.collector.GetSummary()); err != nil {
		http.Error(w, "Failed to encode summary", http.StatusInternalServerError)
	}
}

func (ms *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"enabled": ms.collector.IsEnabled(),
	})
}
