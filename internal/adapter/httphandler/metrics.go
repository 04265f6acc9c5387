package httphandler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/niksmo/catalog-review/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_http_requests_total",
		Help: "HTTP requests by route and status code",
	}, []string{"route", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	viewProducts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_view_products",
		Help: "Number of products in the last served catalog view",
	})

	viewStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "catalog_view_status",
		Help: "1 for the status of the last served catalog view",
	}, []string{"status"})
)

func RegisterMetrics(mux *http.ServeMux) {
	mux.Handle("GET /metrics", promhttp.Handler())
}

// Instrument records request counts and latency by matched route.
func Instrument(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(route, strconv.Itoa(rec.code)).Inc()
		httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
	return http.HandlerFunc(hf)
}

func observeView(v domain.View) {
	viewProducts.Set(float64(len(v.Products)))
	for _, s := range []domain.Status{
		domain.StatusLoading, domain.StatusReady, domain.StatusError,
	} {
		value := 0.0
		if s == v.Status {
			value = 1
		}
		viewStatus.WithLabelValues(s.String()).Set(value)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}
