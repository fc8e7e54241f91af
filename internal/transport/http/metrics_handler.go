package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request metrics for the report API.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claimshape_http_requests_total",
		Help: "Total HTTP requests served, by path and status class.",
	}, []string{"path", "class"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "claimshape_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})
)

// MetricsHandler exposes health and prometheus metrics endpoints.
type MetricsHandler struct {
	startedAt time.Time
}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{startedAt: time.Now().UTC()}
}

// Routes sets up the metrics routes.
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", h.GetHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// GetHealth returns basic health status.
func (h *MetricsHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":     "ok",
		"started_at": h.startedAt.Format(time.RFC3339),
		"uptime":     time.Since(h.startedAt).String(),
	})
}

// CollectMetrics is a middleware recording request counts and latency.
func CollectMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		class := "2xx"
		switch {
		case ww.status >= 500:
			class = "5xx"
		case ww.status >= 400:
			class = "4xx"
		case ww.status >= 300:
			class = "3xx"
		}

		requestsTotal.WithLabelValues(r.URL.Path, class).Inc()
		requestDuration.WithLabelValues(r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
