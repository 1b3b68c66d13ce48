package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	ApplicationsCreated prometheus.Counter
	StatusUpdates       prometheus.Counter
	DocumentsRendered   *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		ApplicationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "mortgage_intake_applications_created_total",
			Help: "Total number of applications stored",
		}),
		StatusUpdates: factory.NewCounter(prometheus.CounterOpts{
			Name: "mortgage_intake_status_updates_total",
			Help: "Total number of application status changes",
		}),
		DocumentsRendered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mortgage_intake_documents_rendered_total",
			Help: "Total number of application documents served, by format",
		}, []string{"format"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mortgage_intake_request_duration_seconds",
			Help:    "Latency of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "code"}),
	}
}

func (m *metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RequestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
