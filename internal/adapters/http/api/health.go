package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/tycoon/pkg/metrics"
)

// StatsProvider reports runtime counters for /stats.
type StatsProvider interface {
	GetStats(ctx context.Context) map[string]any
}

// OpsHandler serves the operational endpoints: liveness, stats and metrics.
type OpsHandler struct {
	stats StatsProvider
}

func NewOpsHandler(stats StatsProvider) *OpsHandler {
	return &OpsHandler{stats: stats}
}

// HandleHealth answers GET /healthz.
func (h *OpsHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleStats answers GET /stats.
func (h *OpsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.stats.GetStats(r.Context()))
}

// MetricsHandler exposes the studio's Prometheus registry.
func (h *OpsHandler) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
