package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"ulascansenturk/weather-app/internal/metrics"
)

// WithRequestLogging attaches a request scoped logger carrying a request id and
// writes one access log line per request.
func WithRequestLogging(next http.Handler, logger zerolog.Logger, rec *metrics.Recorder) http.Handler {
	h := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		rec.ObserveRequest(r.Method, status, duration)

		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request handled")
	})(next)
	h = hlog.RemoteAddrHandler("remote_addr")(h)
	h = hlog.RequestIDHandler("request_id", "X-Request-Id")(h)
	return hlog.NewHandler(logger)(h)
}
