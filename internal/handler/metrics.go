package handler

import (
	"net/http"

	"github.com/libraryapp/libraryapp/internal/metrics"
)

// MetricsHandler exposes a snapshot of in-memory counters.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Snapshot handles GET /metrics.
func (h *MetricsHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		writeError(w, http.StatusNotFound, "METRICS_DISABLED", "Metrics are not enabled")
		return
	}
	writeJSON(w, http.StatusOK, h.snapshotter.Snapshot())
}
