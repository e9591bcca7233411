package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jwalitptl/patient-registry/internal/service/hospital"
	"github.com/jwalitptl/patient-registry/pkg/httputil"
)

// StatsProvider reports the current collection sizes.
type StatsProvider interface {
	Stats() hospital.Stats
}

// Handler serves health, stats and metrics endpoints
type Handler struct {
	stats   StatsProvider
	metrics http.Handler
}

// NewHandler creates a new handler instance. A nil gatherer serves the
// default prometheus registry.
func NewHandler(stats StatsProvider, gatherer prometheus.Gatherer) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		stats:   stats,
		metrics: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}),
	}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"time":   time.Now(),
	})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now(),
	})
}

func (h *Handler) StatsHandler(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.stats.Stats())
}

func (h *Handler) MetricsHandler(c *gin.Context) {
	h.metrics.ServeHTTP(c.Writer, c.Request)
}
