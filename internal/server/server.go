package server

import (
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"resumescore/internal/config"
	"resumescore/internal/errors"
	"resumescore/internal/importer"
	"resumescore/internal/observability"
	"resumescore/internal/suggest"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// Options carries the collaborators a Server needs beyond configuration.
type Options struct {
	Version       string
	Suggester     *suggest.Service
	Observability *observability.Manager
	// Output receives the startup banner. Defaults to stdout.
	Output io.Writer
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	AppConfig *config.Config
	TLSConfig config.TLSConfig

	// API Authentication
	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxBodySize   int64
	MaxUploadSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Importer  *importer.Importer
	Suggester *suggest.Service
	Obs       *observability.Manager
	Logger    *errors.Logger

	validate  *validator.Validate
	output    io.Writer
	startedAt time.Time
	analyses  atomic.Int64
	imports   atomic.Int64
}

// NewServer creates a Server from the application configuration.
func NewServer(cfg *config.Config, opts Options, logger *errors.Logger) *Server {
	if logger == nil {
		logger = errors.NewLoggerTo(io.Discard, slog.LevelError)
	}

	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.Server.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.Server.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.Server.RateLimit.RequestsPerMin,
			cfg.Server.RateLimit.Window,
			cfg.Server.RateLimit.BurstCapacity,
			logger,
		)
	}

	suggester := opts.Suggester
	if suggester == nil {
		suggester = suggest.NewService(nil, logger)
	}
	obs := opts.Observability
	if obs == nil {
		// a disabled manager never fails
		obs, _ = observability.NewManager(config.ObservabilityConfig{}, opts.Version)
	}
	output := opts.Output
	if output == nil {
		output = os.Stdout
	}

	return &Server{
		Host:          cfg.Server.Host,
		Port:          cfg.Server.Port,
		Version:       opts.Version,
		AppConfig:     cfg,
		TLSConfig:     cfg.Server.TLS,
		APIKeys:       apiKeyMap,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		IdleTimeout:   cfg.Server.IdleTimeout,
		MaxBodySize:   cfg.Server.MaxBodySize,
		MaxUploadSize: cfg.Server.MaxUploadSize,
		RateLimit:     &cfg.Server.RateLimit,
		RateLimiter:   rateLimiter,
		Importer:      importer.New(cfg.Server.MaxUploadSize, logger),
		Suggester:     suggester,
		Obs:           obs,
		Logger:        logger,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		output:        output,
		startedAt:     time.Now(),
	}
}
