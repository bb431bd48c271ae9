package config

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/turtacn/sample-app/pkg/constants"
	"github.com/turtacn/sample-app/pkg/logger"
)

const envPrefix = "SAMPLE_APP"

// Loader reads the configuration from defaults, an optional YAML file and the environment.
type Loader struct {
	v   *viper.Viper
	log logger.Logger
}

// NewLoader creates a Loader. Without search paths it looks in the working
// directory and /etc/sample-app/.
func NewLoader(log logger.Logger, searchPaths ...string) *Loader {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(searchPaths) == 0 {
		searchPaths = []string{".", "/etc/sample-app/"}
	}
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, log: log}
}

// Load reads and validates the configuration. A missing config file is not an error.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		l.log.Debug(context.Background(), "No config file found, using defaults and environment")
	} else {
		l.log.Info(context.Background(), "Loaded config file", logger.Fields{"path": l.v.ConfigFileUsed()})
	}

	cfg, err := l.decode()
	if err != nil {
		return nil, err
	}
	if cfg.Metrics.Namespace != "" {
		l.log.Warn(context.Background(), "metrics.namespace renames the request-duration histogram", logger.Fields{
			"metric": cfg.Metrics.Namespace + "_http_request_duration_ms",
		})
	}
	return cfg, nil
}

// ConfigFileUsed returns the path of the file read by Load, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Watch calls onChange with the re-read configuration whenever the config file
// changes. Invalid updates are logged and dropped. It is a no-op without a file.
func (l *Loader) Watch(onChange func(*Config)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.decode()
		if err != nil {
			l.log.Error(context.Background(), "Ignoring invalid config change", err, logger.Fields{"file": e.Name})
			return
		}
		l.log.Info(context.Background(), "Config file changed", logger.Fields{"file": e.Name, "op": e.Op.String()})
		onChange(cfg)
	})
	l.v.WatchConfig()
}

func (l *Loader) decode() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", constants.DefaultPort)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("server.shutdown_timeout", 15)
	v.SetDefault("server.pprof_enabled", false)
	v.SetDefault("server.cors_enabled", false)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("app.name", constants.ServiceName)
	v.SetDefault("app.greeting", constants.DefaultGreeting)

	v.SetDefault("metrics.path", constants.DefaultMetricsPath)
	v.SetDefault("metrics.namespace", "")
	v.SetDefault("metrics.buckets", constants.DefaultBuckets)

	v.SetDefault("health.cache_ttl", 2)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "")
	v.SetDefault("tracing.service_name", constants.ServiceName)
	v.SetDefault("tracing.sampling_rate", 1.0)
}
