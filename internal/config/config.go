package config

import (
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Config holds the application's configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	App     AppConfig     `mapstructure:"app"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host            string   `mapstructure:"host"`
	Port            int      `mapstructure:"port"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // in seconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // in seconds
	IdleTimeout     int      `mapstructure:"idle_timeout"`     // in seconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // in seconds
	PprofEnabled    bool     `mapstructure:"pprof_enabled"`
	CORSEnabled     bool     `mapstructure:"cors_enabled"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

// Addr returns the host:port pair the HTTP server binds to.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ShutdownGrace is the time in-flight requests get to finish on shutdown.
func (c *ServerConfig) ShutdownGrace() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Greeting string `mapstructure:"greeting"`
}

type MetricsConfig struct {
	Path      string    `mapstructure:"path"`
	Namespace string    `mapstructure:"namespace"`
	Buckets   []float64 `mapstructure:"buckets"` // in milliseconds
}

type HealthConfig struct {
	CacheTTL int `mapstructure:"cache_ttl"` // in seconds, 0 disables caching
}

// CacheDuration is how long a readiness result is reused.
func (c *HealthConfig) CacheDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}
	if c.Health.CacheTTL < 0 {
		return fmt.Errorf("health.cache_ttl must not be negative")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") || c.Metrics.Path == "/" {
		return fmt.Errorf("metrics.path %q must start with / and differ from the greeting route", c.Metrics.Path)
	}
	if len(c.Metrics.Buckets) == 0 {
		return fmt.Errorf("metrics.buckets must not be empty")
	}
	if !sort.Float64sAreSorted(c.Metrics.Buckets) {
		return fmt.Errorf("metrics.buckets must be sorted in increasing order")
	}
	if c.Tracing.SamplingRate < 0 || c.Tracing.SamplingRate > 1 {
		return fmt.Errorf("tracing.sampling_rate must be within [0, 1], got %g", c.Tracing.SamplingRate)
	}
	if c.Tracing.Enabled && c.Tracing.JaegerEndpoint == "" {
		return fmt.Errorf("tracing.jaeger_endpoint is required when tracing is enabled")
	}
	return nil
}
