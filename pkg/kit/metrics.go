package kit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelService = "service"
	labelMethod  = "method"
	labelRoute   = "route"
	labelClass   = "class"

	subsystemHTTP = "http"
)

// latencyBuckets spans in-memory handlers (sub-millisecond) up to a slow
// storage round trip.
var latencyBuckets = []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

var sizeBuckets = prometheus.ExponentialBuckets(64, 4, 7)

type Metrics struct {
	Requests      *prometheus.CounterVec
	Latency       *prometheus.HistogramVec
	ResponseBytes *prometheus.HistogramVec
	InFlight      *prometheus.GaugeVec
}

// NewMetrics registers the HTTP metrics as <namespace>_http_* on reg.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemHTTP,
				Name:      "requests_total",
				Help:      "HTTP requests by route and status class (2xx, 4xx, ...).",
			},
			[]string{labelService, labelMethod, labelRoute, labelClass},
		),
		Latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystemHTTP,
				Name:      "request_duration_seconds",
				Help:      "HTTP handler latency by route.",
				Buckets:   latencyBuckets,
			},
			[]string{labelService, labelMethod, labelRoute},
		),
		ResponseBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystemHTTP,
				Name:      "response_size_bytes",
				Help:      "HTTP response body size by route.",
				Buckets:   sizeBuckets,
			},
			[]string{labelService, labelRoute},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystemHTTP,
				Name:      "requests_in_flight",
				Help:      "HTTP requests currently being served.",
			},
			[]string{labelService},
		),
	}

	reg.MustRegister(m.Requests, m.Latency, m.ResponseBytes, m.InFlight)
	return m
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// StatusClass folds a status code into "1xx".."5xx".
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "other"
	}
	return strconv.Itoa(code/100) + "xx"
}

// Middleware labels requests by routeLabel, which must keep cardinality bounded (use route patterns).
func (m *Metrics) Middleware(service string, routeLabel func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		inFlight := m.InFlight.WithLabelValues(service)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			inFlight.Inc()
			start := time.Now()
			next.ServeHTTP(sw, r)
			elapsed := time.Since(start)
			inFlight.Dec()

			route := routeLabel(r)
			m.Latency.WithLabelValues(service, r.Method, route).Observe(elapsed.Seconds())
			m.ResponseBytes.WithLabelValues(service, route).Observe(float64(sw.bytes))
			m.Requests.WithLabelValues(service, r.Method, route, StatusClass(sw.status)).Inc()
		})
	}
}
