// Package config loads process configuration for the link budget binaries
// from an optional config file and LINKBUDGET_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/signalsfoundry/linkbudget/internal/logging"
	"github.com/signalsfoundry/linkbudget/internal/observability"
)

// EnvPrefix is prepended to every environment override, e.g.
// LINKBUDGET_GRPC_ADDR or LINKBUDGET_TRACING_ENABLED.
const EnvPrefix = "LINKBUDGET"

// Config is the resolved process configuration.
type Config struct {
	GRPCAddr     string
	MetricsAddr  string
	ScenarioPath string

	Log     logging.Config
	Tracing observability.TracingConfig
}

func setDefaults(v *viper.Viper) {
	tr := observability.DefaultTracingConfig()

	v.SetDefault("grpc_addr", ":50061")
	v.SetDefault("metrics_addr", ":9091")
	v.SetDefault("scenario_path", "configs/scenarios.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.add_source", false)
	v.SetDefault("tracing.enabled", tr.Enabled)
	v.SetDefault("tracing.service_name", tr.ServiceName)
	v.SetDefault("tracing.exporter", tr.Exporter)
	v.SetDefault("tracing.endpoint", tr.Endpoint)
	v.SetDefault("tracing.sample_ratio", tr.SampleRatio)
}

// Load reads path (any format viper understands: toml, yaml, json) when
// it is non-empty, then applies environment overrides. An empty path
// yields defaults plus environment.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config file %s not found", path)
			}
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		GRPCAddr:     v.GetString("grpc_addr"),
		MetricsAddr:  v.GetString("metrics_addr"),
		ScenarioPath: v.GetString("scenario_path"),
		Log: logging.Config{
			Level:     v.GetString("log.level"),
			Format:    v.GetString("log.format"),
			AddSource: v.GetBool("log.add_source"),
		},
		Tracing: observability.TracingConfig{
			Enabled:     v.GetBool("tracing.enabled"),
			ServiceName: v.GetString("tracing.service_name"),
			Exporter:    v.GetString("tracing.exporter"),
			Endpoint:    v.GetString("tracing.endpoint"),
			SampleRatio: v.GetFloat64("tracing.sample_ratio"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings no binary can start with.
func (c Config) Validate() error {
	if c.GRPCAddr == "" {
		return fmt.Errorf("grpc_addr must not be empty")
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "":
	default:
		return fmt.Errorf("log.format %q: want text or json", c.Log.Format)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio %v outside [0, 1]", c.Tracing.SampleRatio)
	}
	return nil
}
