package config

import (
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by LoadConfig.
const EnvPrefix = "RESUMESCORE"

// Config holds all application configuration.
// Secret precedence: Vault (if enabled), then the config file, then
// RESUMESCORE_* environment variables, then defaults.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	App           AppConfig           `mapstructure:"app"`
	Suggest       SuggestConfig       `mapstructure:"suggest"`
	Vault         VaultConfig         `mapstructure:"vault"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// SuggestConfig selects and tunes the suggestion provider.
type SuggestConfig struct {
	Provider       string               `mapstructure:"provider"` // static or gemini
	Model          string               `mapstructure:"model"`
	APIKey         string               `mapstructure:"apiKey"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	MaxRetries     int                  `mapstructure:"maxRetries"`
	Temperature    float32              `mapstructure:"temperature"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuitBreaker"`
}

// CircuitBreakerConfig represents circuit breaker configuration
type CircuitBreakerConfig struct {
	Enabled          bool          `mapstructure:"enabled"`
	MaxRequests      uint32        `mapstructure:"maxRequests"`      // probes allowed while half-open
	Interval         time.Duration `mapstructure:"interval"`         // closed-state count reset period
	Timeout          time.Duration `mapstructure:"timeout"`          // open-state duration
	MinRequests      uint32        `mapstructure:"minRequests"`      // requests before the ratio is considered
	FailureThreshold float64       `mapstructure:"failureThreshold"` // 0.0-1.0
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host          string          `mapstructure:"host"`
	Port          string          `mapstructure:"port"`
	ReadTimeout   time.Duration   `mapstructure:"readTimeout"`
	WriteTimeout  time.Duration   `mapstructure:"writeTimeout"`
	IdleTimeout   time.Duration   `mapstructure:"idleTimeout"`
	MaxUploadSize int64           `mapstructure:"maxUploadSize"`
	MaxBodySize   int64           `mapstructure:"maxBodySize"`
	TLS           TLSConfig       `mapstructure:"tls"`
	APIKeys       []string        `mapstructure:"apiKeys"`
	RateLimit     RateLimitConfig `mapstructure:"rateLimit"`
}

// TLSConfig holds file-based TLS/mTLS configuration
type TLSConfig struct {
	Mode             string `mapstructure:"mode"` // disabled, server, mutual
	CertFile         string `mapstructure:"certFile"`
	KeyFile          string `mapstructure:"keyFile"`
	CAFile           string `mapstructure:"caFile"`
	MinVersion       string `mapstructure:"minVersion"`       // 1.2 or 1.3
	ClientAuthPolicy string `mapstructure:"clientAuthPolicy"` // require, request, verify
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RequestsPerMin int           `mapstructure:"requestsPerMin"`
	BurstCapacity  int           `mapstructure:"burstCapacity"`
	ByIP           bool          `mapstructure:"byIP"`
	ByAPIKey       bool          `mapstructure:"byAPIKey"`
	Window         time.Duration `mapstructure:"window"` // idle limiter eviction period
}

// AppConfig holds general application configuration
type AppConfig struct {
	LogLevel         string        `mapstructure:"logLevel"`
	DefaultFormat    string        `mapstructure:"defaultFormat"`
	SupportedFormats []string      `mapstructure:"supportedFormats"`
	MaxFileSize      int64         `mapstructure:"maxFileSize"`
	BatchConcurrency int           `mapstructure:"batchConcurrency"`
	WatchDebounce    time.Duration `mapstructure:"watchDebounce"`
}

// ObservabilityConfig holds observability configuration
type ObservabilityConfig struct {
	Enabled            bool                `mapstructure:"enabled"`
	ServiceName        string              `mapstructure:"serviceName"`
	ServiceVersion     string              `mapstructure:"serviceVersion"`
	ServiceInstance    string              `mapstructure:"serviceInstance"`
	ConsoleOutput      bool                `mapstructure:"consoleOutput"`
	PrettyPrint        bool                `mapstructure:"prettyPrint"`
	SampleRate         float64             `mapstructure:"sampleRate"`
	CollectionInterval time.Duration       `mapstructure:"collectionInterval"`
	CustomMetrics      CustomMetricsConfig `mapstructure:"customMetrics"`
	Prometheus         PrometheusConfig    `mapstructure:"prometheus"`
	OTLP               OTLPConfig          `mapstructure:"otlp"`
}

// CustomMetricsConfig toggles groups of domain instruments.
type CustomMetricsConfig struct {
	Analysis       bool `mapstructure:"analysis"`
	Imports        bool `mapstructure:"imports"`
	Suggestions    bool `mapstructure:"suggestions"`
	Infrastructure bool `mapstructure:"infrastructure"`
}

// PrometheusConfig holds Prometheus configuration
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Port     string `mapstructure:"port"`
}

// OTLPConfig holds OTLP exporter configuration
type OTLPConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Endpoint string            `mapstructure:"endpoint"`
	Insecure bool              `mapstructure:"insecure"`
	Headers  map[string]string `mapstructure:"headers"`
}

// LoadConfig reads config.yaml from the standard search path, or configFile
// when it is not empty, and overlays RESUMESCORE_* environment variables.
func LoadConfig(configFile string) (*Config, error) {
	log.Println("[CONFIG] Starting configuration loading process")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/resumescore/")
		v.AddConfigPath("$HOME/.resumescore")
		v.AddConfigPath(".")
	}

	configFileUsed := ""
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("[CONFIG] No config file found, using defaults and environment variables")
	} else {
		configFileUsed = v.ConfigFileUsed()
		log.Printf("[CONFIG] Loaded config file: %s", configFileUsed)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyFallbacks()
	config.logConfigurationSources(configFileUsed)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log.Println("[CONFIG] Configuration loading completed successfully")
	return &config, nil
}

// Default returns the built-in configuration without reading files or the environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		panic(fmt.Sprintf("default configuration does not decode: %v", err))
	}
	config.applyFallbacks()
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("suggest.provider", "static")
	v.SetDefault("suggest.model", "gemini-2.0-flash")
	v.SetDefault("suggest.apiKey", "")
	v.SetDefault("suggest.timeout", 30*time.Second)
	v.SetDefault("suggest.maxRetries", 2)
	v.SetDefault("suggest.temperature", 0.4)
	v.SetDefault("suggest.circuitBreaker.enabled", true)
	v.SetDefault("suggest.circuitBreaker.maxRequests", 3)
	v.SetDefault("suggest.circuitBreaker.interval", 60*time.Second)
	v.SetDefault("suggest.circuitBreaker.timeout", 60*time.Second)
	v.SetDefault("suggest.circuitBreaker.minRequests", 3)
	v.SetDefault("suggest.circuitBreaker.failureThreshold", 0.6)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.readTimeout", 30*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.idleTimeout", 120*time.Second)
	v.SetDefault("server.maxUploadSize", 10*1024*1024)
	v.SetDefault("server.maxBodySize", 1024*1024)
	v.SetDefault("server.tls.mode", "disabled")
	v.SetDefault("server.tls.certFile", "")
	v.SetDefault("server.tls.keyFile", "")
	v.SetDefault("server.tls.caFile", "")
	v.SetDefault("server.tls.minVersion", "1.2")
	v.SetDefault("server.tls.clientAuthPolicy", "require")
	v.SetDefault("server.apiKeys", []string{})
	v.SetDefault("server.rateLimit.enabled", false)
	v.SetDefault("server.rateLimit.requestsPerMin", 60)
	v.SetDefault("server.rateLimit.burstCapacity", 10)
	v.SetDefault("server.rateLimit.byIP", true)
	v.SetDefault("server.rateLimit.byAPIKey", false)
	v.SetDefault("server.rateLimit.window", 10*time.Minute)

	v.SetDefault("app.logLevel", "info")
	v.SetDefault("app.defaultFormat", "json")
	v.SetDefault("app.supportedFormats", []string{"json", "text", "markdown", "yaml"})
	v.SetDefault("app.maxFileSize", 10*1024*1024)
	v.SetDefault("app.batchConcurrency", 4)
	v.SetDefault("app.watchDebounce", 300*time.Millisecond)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.tokenFile", "")
	v.SetDefault("vault.namespace", "")
	v.SetDefault("vault.secrets.apiKeys", "")
	v.SetDefault("vault.secrets.geminiKey", "")

	v.SetDefault("observability.enabled", true)
	v.SetDefault("observability.serviceName", "resumescore")
	v.SetDefault("observability.serviceVersion", "")
	v.SetDefault("observability.serviceInstance", "")
	v.SetDefault("observability.consoleOutput", false)
	v.SetDefault("observability.prettyPrint", true)
	v.SetDefault("observability.sampleRate", 1.0)
	v.SetDefault("observability.collectionInterval", 15*time.Second)
	v.SetDefault("observability.customMetrics.analysis", true)
	v.SetDefault("observability.customMetrics.imports", true)
	v.SetDefault("observability.customMetrics.suggestions", true)
	v.SetDefault("observability.customMetrics.infrastructure", true)
	v.SetDefault("observability.prometheus.enabled", false)
	v.SetDefault("observability.prometheus.endpoint", "/metrics")
	v.SetDefault("observability.prometheus.port", "9090")
	v.SetDefault("observability.otlp.enabled", false)
	v.SetDefault("observability.otlp.endpoint", "http://localhost:4318")
	v.SetDefault("observability.otlp.insecure", true)
	v.SetDefault("observability.otlp.headers", map[string]string{})
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port: %s", c.Server.Port)
	}

	if !slices.Contains(c.App.SupportedFormats, c.App.DefaultFormat) {
		return fmt.Errorf("invalid default format: %s", c.App.DefaultFormat)
	}

	switch c.App.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.App.LogLevel)
	}

	if c.App.MaxFileSize <= 0 || c.Server.MaxUploadSize <= 0 {
		return fmt.Errorf("file size limits must be positive")
	}
	if c.App.BatchConcurrency < 1 {
		return fmt.Errorf("batch concurrency must be at least 1")
	}

	switch c.Suggest.Provider {
	case "static":
	case "gemini":
		if c.Suggest.Timeout <= 0 {
			return fmt.Errorf("suggestion timeout must be positive")
		}
		if c.Suggest.MaxRetries < 0 {
			return fmt.Errorf("suggestion maxRetries cannot be negative")
		}
	default:
		return fmt.Errorf("invalid suggestion provider: %s (must be 'static' or 'gemini')", c.Suggest.Provider)
	}

	if c.Server.RateLimit.Enabled && c.Server.RateLimit.RequestsPerMin <= 0 {
		return fmt.Errorf("rate limit requestsPerMin must be positive")
	}

	if err := c.ValidateTLSConfig(); err != nil {
		return fmt.Errorf("TLS configuration error: %w", err)
	}

	return nil
}
