package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/turtacn/sample-app/pkg/logger"
)

// RequestTimer starts a request-duration timer for one label set.
type RequestTimer interface {
	StartTimer(method, route string, code int) *prometheus.Timer
}

// GreetingHandler serves the fixed greeting on the root route.
type GreetingHandler struct {
	greeting string
	timer    RequestTimer
	log      logger.Logger
}

// NewGreetingHandler creates a new GreetingHandler.
func NewGreetingHandler(greeting string, timer RequestTimer, log logger.Logger) *GreetingHandler {
	return &GreetingHandler{
		greeting: greeting,
		timer:    timer,
		log:      log,
	}
}

// Greet godoc
// @Summary      Greeting
// @Description  Returns the greeting and records one request-duration sample.
// @Tags         sample
// @Produce      plain
// @Success      200  {string}  string  "Hello World!"
// @Router       / [get]
func (h *GreetingHandler) Greet(c *gin.Context) {
	route := c.FullPath()
	// The status label is fixed: the greeting never answers anything but 200.
	timer := h.timer.StartTimer(c.Request.Method, route, http.StatusOK)

	c.String(http.StatusOK, h.greeting)

	h.log.ForContext(c.Request.Context()).Info(c.Request.Context(), "Request received", logger.Fields{
		"route":       route,
		"received_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	timer.ObserveDuration()
}
