// Package constants defines the shared keys and defaults of the sample application.
package constants

// ContextKey is the type of the keys stored in a request context.
type ContextKey string

const (
	// ContextKeyLogger holds a request-scoped logger.Logger.
	ContextKeyLogger ContextKey = "logger"

	// ContextKeyRequestID holds the request ID assigned by the request-id middleware.
	ContextKeyRequestID ContextKey = "request_id"
)

const (
	// HeaderRequestID carries the request ID in both directions.
	HeaderRequestID = "X-Request-ID"

	// MaxRequestIDLength bounds a caller-supplied request ID, in bytes.
	MaxRequestIDLength = 128
)

const (
	// DefaultPort is the port the sample application listens on.
	DefaultPort = 3000

	// DefaultGreeting is the body returned by the greeting route.
	DefaultGreeting = "Hello World!"

	// DefaultMetricsPath is where the Prometheus exposition is served.
	DefaultMetricsPath = "/metrics"

	// ServiceName is used for tracing resources and the default tracer.
	ServiceName = "sample-app"
)

// DefaultBuckets are the request-duration histogram buckets, in milliseconds.
var DefaultBuckets = []float64{50, 100, 200, 300, 400, 500, 1000}
