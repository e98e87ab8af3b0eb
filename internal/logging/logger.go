package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/0xReLogic/Greeter/internal/config"
)

type ctxKey int

const (
	ctxLogger ctxKey = iota
	ctxRequestID
)

const defaultRequestHeader = "X-Request-ID"

// Until Init runs, greeter logs info and above as text on stderr. Stdout is
// reserved for the environment listing.
var (
	currentMu sync.RWMutex
	current   = newLogger(os.Stderr, zerolog.InfoLevel, false, false)
)

// Init replaces the process logger according to cfg, writing to stderr.
func Init(cfg config.LoggingConfig) {
	InitWriter(os.Stderr, cfg)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, cfg config.LoggingConfig) {
	json := strings.EqualFold(cfg.Format, "json")
	setLogger(newLogger(w, parseLevel(cfg.Level), json, cfg.IncludeCaller))
}

// parseLevel maps a config level onto zerolog; blank or unknown means info.
func parseLevel(value string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func newLogger(w io.Writer, level zerolog.Level, json, caller bool) zerolog.Logger {
	out := w
	if !json {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if caller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

func setLogger(l zerolog.Logger) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = l
}

// L returns the process logger.
func L() zerolog.Logger {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// WithContext returns the logger stored by RequestContextMiddleware, or the
// process logger tagged with the request id when only the id is known.
func WithContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return L()
	}
	if l, ok := ctx.Value(ctxLogger).(zerolog.Logger); ok {
		return l
	}
	if id := RequestIDFromContext(ctx); id != "" {
		return L().With().Str("request_id", id).Logger()
	}
	return L()
}

// RequestIDFromContext returns the request id, or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}

// RequestHeaderName is the header carrying the request id.
func RequestHeaderName(cfg config.LoggingConfig) string {
	if h := strings.TrimSpace(cfg.RequestID.Header); h != "" {
		return h
	}
	return defaultRequestHeader
}

func withRequest(ctx context.Context, l zerolog.Logger, id string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxLogger, l)
	if id != "" {
		ctx = context.WithValue(ctx, ctxRequestID, id)
	}
	return ctx
}
