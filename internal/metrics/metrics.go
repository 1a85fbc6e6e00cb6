// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corkboard_notes_created_total",
		Help: "Notes successfully persisted.",
	})

	QuotaRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corkboard_quota_rejections_total",
		Help: "Note creations rejected because the daily quota was used up.",
	})

	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "corkboard_auth_failures_total",
		Help: "Rejected login, registration and bearer-token checks.",
	}, []string{"reason"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "corkboard_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware records request latency keyed by the matched chi route pattern,
// so path parameters do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
