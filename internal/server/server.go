package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/0xReLogic/Greeter/internal/config"
	"github.com/0xReLogic/Greeter/internal/logging"
)

const (
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

func seconds(n int, fallback time.Duration) time.Duration {
	if n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}

// New creates and configures the HTTP server
func New(cfg config.ServerConfig, handler http.Handler) *http.Server {
	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:      handler,
		ReadTimeout:  seconds(cfg.Timeouts.Read, defaultReadTimeout),
		WriteTimeout: seconds(cfg.Timeouts.Write, defaultWriteTimeout),
		IdleTimeout:  seconds(cfg.Timeouts.Idle, defaultIdleTimeout),
	}

	if cfg.TLS.Enabled {
		srv.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return srv
}

// ValidateTLSFiles checks that the TLS certificate and key files exist
func ValidateTLSFiles(cfg config.TLSConfig) error {
	if !cfg.Enabled {
		return nil
	}

	if cfg.CertFile == "" || cfg.KeyFile == "" {
		return errors.New("tls enabled but certificate or key not configured")
	}
	if _, err := os.Stat(cfg.CertFile); err != nil {
		return fmt.Errorf("tls certificate file: %w", err)
	}
	if _, err := os.Stat(cfg.KeyFile); err != nil {
		return fmt.Errorf("tls key file: %w", err)
	}
	return nil
}

// Run binds srv.Addr and serves until ctx is cancelled. A bind failure is
// returned before any connection is accepted.
func Run(ctx context.Context, srv *http.Server, cfg config.ServerConfig) error {
	if err := ValidateTLSFiles(cfg.TLS); err != nil {
		return err
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	return Serve(ctx, ln, srv, cfg)
}

// Serve serves srv on ln until ctx is cancelled, then shuts down gracefully.
// It takes ownership of ln.
func Serve(ctx context.Context, ln net.Listener, srv *http.Server, cfg config.ServerConfig) error {
	logger := logging.L()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if cfg.TLS.Enabled {
			logger.Info().Str("addr", ln.Addr().String()).Str("min_tls_version", "1.2").Msg("listening for https")
			err = srv.ServeTLS(ln, cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			logger.Info().Str("addr", ln.Addr().String()).Msg("listening for http")
			err = srv.Serve(ln)
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return shutdownGracefully(srv, seconds(cfg.ShutdownTimeout, defaultShutdownTimeout))
	})

	return g.Wait()
}

// shutdownGracefully drains in-flight requests, closing outright on timeout
func shutdownGracefully(srv *http.Server, timeout time.Duration) error {
	logger := logging.L()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info().Dur("timeout", timeout).Msg("shutting down server gracefully")

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("error during server shutdown")
		if closeErr := srv.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("error closing server")
		}
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info().Msg("server shutdown complete")
	return nil
}
