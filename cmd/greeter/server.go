package main

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/0xReLogic/Greeter/internal/config"
	"github.com/0xReLogic/Greeter/internal/environ"
	"github.com/0xReLogic/Greeter/internal/greeting"
	"github.com/0xReLogic/Greeter/internal/logging"
	"github.com/0xReLogic/Greeter/internal/server"
)

// options carries everything run needs from the process.
type options struct {
	configPath     string
	configRequired bool
	stdout         io.Writer
	env            environ.Source
}

// loadConfig reads the config file, then applies environment overrides
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath, opts.configRequired)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.ApplyEnv(opts.env); err != nil {
		return nil, fmt.Errorf("failed to apply environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildHandler wraps the route table with the request logging middleware
func buildHandler(cfg *config.Config) http.Handler {
	handler := greeting.NewHandler(greeting.Routes())

	if cfg.Logging.AccessLog {
		handler = logging.AccessLogMiddleware()(handler)
	}
	return logging.RequestContextMiddleware(cfg.Logging)(handler)
}

// logStartupInfo logs server startup information
func logStartupInfo(cfg *config.Config) {
	logger := logging.L()

	logger.Info().Str("addr", cfg.Addr()).Msg("greeter starting")
	logger.Info().
		Bool("access_log", cfg.Logging.AccessLog).
		Bool("request_id", cfg.Logging.RequestID.Enabled).
		Msg("request logging configured")
	if cfg.Server.TLS.Enabled {
		logger.Info().Str("cert_file", cfg.Server.TLS.CertFile).Msg("tls enabled")
	}
}

// printEnvironment always reports the configured key; the full listing
// before it is only written when dump is enabled
func printEnvironment(w io.Writer, src environ.Source, cfg config.EnvironmentConfig) error {
	opts := environ.DumpOptions{Key: cfg.Key, Absent: cfg.Absent}
	if cfg.Dump {
		return environ.Dump(w, src, opts)
	}
	return environ.Report(w, src, opts)
}

// run prints the environment, then serves until ctx is cancelled
func run(ctx context.Context, opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logging.Init(cfg.Logging)

	if err := printEnvironment(opts.stdout, opts.env, cfg.Environment); err != nil {
		return err
	}

	logStartupInfo(cfg)
	srv := server.New(cfg.Server, buildHandler(cfg))
	return server.Run(ctx, srv, cfg.Server)
}
