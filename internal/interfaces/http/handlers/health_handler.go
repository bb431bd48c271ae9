package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/turtacn/sample-app/pkg/errors"
	"github.com/turtacn/sample-app/pkg/logger"
)

const readinessKey = "readiness"

type readiness struct {
	status     string
	httpStatus int
	checks     map[string]string
}

// HealthHandler serves the liveness and readiness checks.
type HealthHandler struct {
	gatherer prometheus.Gatherer
	results  *cache.Cache
	ttl      time.Duration
	log      logger.Logger
}

// NewHealthHandler creates a new HealthHandler. Readiness results are reused
// for cacheTTL; a zero TTL checks on every request.
func NewHealthHandler(gatherer prometheus.Gatherer, cacheTTL time.Duration, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		gatherer: gatherer,
		results:  cache.New(cacheTTL, time.Minute),
		ttl:      cacheTTL,
		log:      log,
	}
}

// LivenessCheck godoc
// @Summary      Liveness Check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health/live [get]
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ReadinessCheck godoc
// @Summary      Readiness Check
// @Description  Ready once the metrics registry can be gathered.
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /health/ready [get]
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	var result readiness
	if cached, ok := h.results.Get(readinessKey); ok {
		result = cached.(readiness)
	} else {
		result = h.performChecks(c)
		if h.ttl > 0 {
			h.results.SetDefault(readinessKey, result)
		}
	}

	c.JSON(result.httpStatus, gin.H{
		"status":    result.status,
		"timestamp": time.Now().UTC(),
		"checks":    result.checks,
	})
}

func (h *HealthHandler) performChecks(c *gin.Context) readiness {
	result := readiness{
		status:     "ready",
		httpStatus: http.StatusOK,
		checks:     map[string]string{"metrics": "ok"},
	}
	if _, err := h.gatherer.Gather(); err != nil {
		h.log.Error(c.Request.Context(), "Readiness check failed", errors.ErrServiceUnavailable.WithCause(err))
		result.status, result.httpStatus = "not_ready", http.StatusServiceUnavailable
		result.checks["metrics"] = "error: " + err.Error()
	}
	return result
}
