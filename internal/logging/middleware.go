package logging

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/0xReLogic/Greeter/internal/config"
	"github.com/0xReLogic/Greeter/internal/utils"
)

// RequestContextMiddleware injects the request identifier and a request scoped
// logger into the request context.
func RequestContextMiddleware(cfg config.LoggingConfig) func(http.Handler) http.Handler {
	requestHeader := RequestHeaderName(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var requestID string
			if cfg.RequestID.Enabled {
				requestID = strings.TrimSpace(r.Header.Get(requestHeader))
				if requestID == "" {
					requestID = generateIdentifier("req")
					r.Header.Set(requestHeader, requestID)
				}
				w.Header().Set(requestHeader, requestID)
			}

			logger := WithContext(ctx)
			if requestID != "" {
				logger = logger.With().Str("request_id", requestID).Logger()
			}

			ctx = withRequest(ctx, logger, requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusRecorder records HTTP status and bytes written
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.wroteHeader {
		sr.status = code
		sr.wroteHeader = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.wroteHeader {
		sr.WriteHeader(http.StatusOK)
	}
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

func (sr *statusRecorder) Unwrap() http.ResponseWriter {
	return sr.ResponseWriter
}

// AccessLogMiddleware logs one event per completed request.
func AccessLogMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			// Default to 200 if WriteHeader was never called
			status := rec.status
			if !rec.wroteHeader {
				status = http.StatusOK
			}
			latencyMs := float64(time.Since(start)) / float64(time.Millisecond)
			logger := WithContext(r.Context())
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", rec.bytes).
				Float64("latency_ms", latencyMs).
				Str("remote_ip", utils.GetClientIP(r)).
				Msg("request")
		})
	}
}

func generateIdentifier(prefix string) string {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}
