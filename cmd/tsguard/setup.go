package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/Sumatoshi-tech/tsguard/pkg/config"
	"github.com/Sumatoshi-tech/tsguard/pkg/lint"
	"github.com/Sumatoshi-tech/tsguard/pkg/lint/rules"
	"github.com/Sumatoshi-tech/tsguard/pkg/observability"
	"github.com/Sumatoshi-tech/tsguard/pkg/version"
)

const metricsReadHeaderTimeout = 5 * time.Second

// observabilityConfig builds the telemetry settings for mode from the loaded
// config, the standard OTEL_* variables and the global flags.
func (g *globalFlags) observabilityConfig(cfg *config.Config, mode observability.AppMode) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.LogLevel = observability.ParseLogLevel(cfg.Logging.Level)
	obsCfg.LogJSON = g.logJSON || cfg.Logging.JSON()

	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		obsCfg.OTLPEndpoint = endpoint
	}

	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))

	if os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true" {
		obsCfg.OTLPInsecure = true
	}

	switch {
	case g.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	case g.quiet:
		obsCfg.LogLevel = slog.LevelError
	}

	return obsCfg
}

// session is the shared state of one command invocation.
type session struct {
	cfg       *config.Config
	providers observability.Providers
}

// startSession loads the config and initializes observability for mode.
func (g *globalFlags) startSession(mode observability.AppMode, prometheus bool) (*session, error) {
	cfg, err := config.LoadConfig(g.configPath)
	if err != nil {
		return nil, err
	}

	err = cfg.CanonicalizeRules(rules.Registry().CanonicalID)
	if err != nil {
		return nil, err
	}

	obsCfg := g.observabilityConfig(cfg, mode)
	obsCfg.Prometheus = prometheus

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, providers: providers}, nil
}

func (s *session) logger() *slog.Logger {
	return s.providers.Logger
}

func (s *session) close() {
	shutdownErr := s.providers.Shutdown(context.Background())
	if shutdownErr != nil {
		s.logger().Warn("observability shutdown failed", "error", shutdownErr)
	}
}

// newLinter configures the registry rules from the session config. Rejected
// rule configurations are logged and returned; the linter runs without them.
func (s *session) newLinter(reg *lint.Registry, settings map[string]lint.RuleSetting) (*lint.Linter, []*lint.ConfigError, error) {
	maxFileSize, err := s.cfg.Lint.MaxFileSizeBytes()
	if err != nil {
		return nil, nil, err
	}

	lintMetrics, err := observability.NewLintMetrics(s.providers.Meter)
	if err != nil {
		return nil, nil, err
	}

	active, problems := lint.Configure(reg, settings)
	for _, problem := range problems {
		s.logger().Error("rule configuration rejected", "rule", problem.Rule, "error", problem.Err)
	}

	linter := lint.New(active,
		lint.WithLogger(s.logger()),
		lint.WithMetrics(lintMetrics),
		lint.WithTracer(s.providers.Tracer),
		lint.WithMaxFileSize(maxFileSize),
		lint.WithConcurrency(s.cfg.Lint.Concurrency),
	)

	return linter, problems, nil
}

// serveMetrics exposes the Prometheus scrape handler on addr. The returned
// function stops the listener.
func (s *session) serveMetrics(addr string) func(context.Context) error {
	handler := s.providers.MetricsHandler
	if addr == "" || handler == nil {
		return func(context.Context) error { return nil }
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: metricsReadHeaderTimeout,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger().Error("metrics server failed", "addr", addr, "error", err)
		}
	}()

	s.logger().Info("serving metrics", "addr", "http://"+addr+"/metrics")

	return server.Shutdown
}
