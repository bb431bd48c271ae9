package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MetricsHandler exposes a Prometheus registry.
type MetricsHandler struct {
	exposition http.Handler
}

// NewMetricsHandler wraps the registry's exposition handler.
func NewMetricsHandler(exposition http.Handler) *MetricsHandler {
	return &MetricsHandler{exposition: exposition}
}

// Metrics godoc
// @Summary      Prometheus metrics
// @Description  Default Go and process metrics plus the request-duration histogram.
// @Tags         monitoring
// @Produce      plain
// @Success      200  {string}  string  "Metrics in Prometheus format"
// @Router       /metrics [get]
func (h *MetricsHandler) Metrics(c *gin.Context) {
	h.exposition.ServeHTTP(c.Writer, c.Request)
}
