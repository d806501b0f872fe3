package server

import (
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/hetulpatel/PitchDeck/internal/logging"
	"github.com/hetulpatel/PitchDeck/internal/metrics"
)

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		logging.Infof("[http] %s %s -> %d (%d bytes) in %s id=%s",
			r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(),
			time.Since(start).Round(time.Millisecond), middleware.GetReqID(r.Context()))
	})
}

// recoverJSON turns a handler panic into a 500 with the usual error body.
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logging.Errorf("[http] panic on %s %s id=%s: %v\n%s",
				r.Method, r.URL.Path, middleware.GetReqID(r.Context()), rec, debug.Stack())
			metrics.PitchRequests.WithLabelValues("error").Inc()
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
		}()
		next.ServeHTTP(w, r)
	})
}

// rateLimit rejects generate calls over the per-client budget. Limiter errors
// let the request through.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		client := clientIP(r)
		d, err := s.limiter.Allow(r.Context(), client)
		if err != nil {
			logging.Warnf("[ratelimit] %s: %v (allowing)", client, err)
		}
		if !d.Allowed {
			if !d.ResetAt.IsZero() {
				secs := int(time.Until(d.ResetAt).Seconds()) + 1
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
			}
			metrics.PitchRequests.WithLabelValues("rate_limited").Inc()
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded, try again later"})
			return
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
