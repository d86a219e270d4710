// Package config provides configuration loading and validation.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Balancer  BalancerConfig  `mapstructure:"balancer"`
	SDK       SDKConfig       `mapstructure:"sdk"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// NodeConfig is one caller-supplied static node (spec.md §3: `{url, type}`).
type NodeConfig struct {
	URL  string `mapstructure:"url"`
	Type string `mapstructure:"type"`
}

// BalancerConfig mirrors the configuration table of spec.md §3: the
// network to load-balance, an optional static node list (its presence
// selects static bootstrap mode over remote-manifest mode), the block-lag
// tolerance, the scheduling mode, and a verbose flag. Verbose is loaded
// but no component reads it.
type BalancerConfig struct {
	Network              string       `mapstructure:"network"`
	Nodes                []NodeConfig `mapstructure:"nodes"`
	AllowedBlocksBehind  int64        `mapstructure:"allowed_blocks_behind"`
	OneTimeLoadBalancing bool         `mapstructure:"one_time_load_balancing"`
	IntervalSeconds      int64        `mapstructure:"interval_seconds"`
	Verbose              bool         `mapstructure:"verbose"`
}

// SDKConfig supplies the client-identification headers spec.md §6 requires
// on outbound probe requests. Dispatcher calls do not carry them.
type SDKConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Version string `mapstructure:"version"`
	Debug   bool   `mapstructure:"debug"`
}

// Headers builds the SDK identification headers spec.md §6 names:
// x-api-key, x-ttm-sdk-version, x-ttm-sdk-product, and, when Debug is set,
// x-ttm-sdk-debug.
func (c SDKConfig) Headers() map[string]string {
	headers := map[string]string{
		"x-ttm-sdk-product": "rpc-balancer",
	}
	if c.APIKey != "" {
		headers["x-api-key"] = c.APIKey
	}
	if c.Version != "" {
		headers["x-ttm-sdk-version"] = c.Version
	}
	if c.Debug {
		headers["x-ttm-sdk-debug"] = "true"
	}
	return headers
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("RPCLB")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "RPCLB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "RPCLB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "RPCLB_LOG_LEVEL", "LOG_LEVEL")

	// Balancer
	v.BindEnv("balancer.network", "RPCLB_NETWORK", "NETWORK")
	v.BindEnv("balancer.allowed_blocks_behind", "RPCLB_ALLOWED_BLOCKS_BEHIND")
	v.BindEnv("balancer.one_time_load_balancing", "RPCLB_ONE_TIME_LOAD_BALANCING")
	v.BindEnv("balancer.interval_seconds", "RPCLB_INTERVAL_SECONDS")
	v.BindEnv("balancer.verbose", "RPCLB_VERBOSE")

	// SDK
	v.BindEnv("sdk.api_key", "RPCLB_API_KEY", "TATUM_API_KEY")
	v.BindEnv("sdk.version", "RPCLB_SDK_VERSION")
	v.BindEnv("sdk.debug", "RPCLB_SDK_DEBUG")

	// Telemetry
	v.BindEnv("telemetry.enabled", "RPCLB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "RPCLB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "RPCLB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "rpc-balancer")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Balancer defaults
	v.SetDefault("balancer.allowed_blocks_behind", 5)
	v.SetDefault("balancer.one_time_load_balancing", false)
	v.SetDefault("balancer.interval_seconds", 30)
	v.SetDefault("balancer.verbose", false)

	// SDK defaults
	v.SetDefault("sdk.version", "1.0.0")
	v.SetDefault("sdk.debug", false)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "rpc-balancer")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Balancer.Network == "" {
		return fmt.Errorf("balancer.network is required")
	}
	if c.Balancer.AllowedBlocksBehind < 0 {
		return fmt.Errorf("balancer.allowed_blocks_behind must be >= 0")
	}
	for i, n := range c.Balancer.Nodes {
		if n.URL == "" {
			return fmt.Errorf("balancer.nodes[%d].url is required", i)
		}
		if n.Type != "normal" && n.Type != "archive" {
			return fmt.Errorf("balancer.nodes[%d].type must be \"normal\" or \"archive\", got %q", i, n.Type)
		}
	}
	return nil
}
