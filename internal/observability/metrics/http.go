package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "loan"

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	predictionsTotal      *prometheus.CounterVec
	predictionErrorsTotal *prometheus.CounterVec
	approvalProbability   *prometheus.HistogramVec
	reportsTotal          *prometheus.CounterVec
	reportSizeBytes       *prometheus.HistogramVec
	modelInfo             *prometheus.GaugeVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	predictionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prediction",
			Name:      "total",
			Help:      "Completed predictions by frontend channel and verdict.",
		},
		[]string{"service", "channel", "verdict"},
	)
	predictionErrorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "prediction",
			Name:      "errors_total",
			Help:      "Failed predictions by frontend channel and error kind.",
		},
		[]string{"service", "channel", "kind"},
	)
	approvalProbability := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "prediction",
			Name:      "approval_probability",
			Help:      "Distribution of the model's approval probability.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 9),
		},
		[]string{"service", "channel"},
	)
	reportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "generated_total",
			Help:      "Generated PDF reports.",
		},
		[]string{"service"},
	)
	reportSizeBytes := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "size_bytes",
			Help:      "Size of generated PDF reports in bytes.",
			Buckets:   prometheus.ExponentialBuckets(1024, 2, 8),
		},
		[]string{"service"},
	)
	modelInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "info",
			Help:      "Loaded classifier; always 1.",
		},
		[]string{"service", "kind", "version"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		predictionsTotal,
		predictionErrorsTotal,
		approvalProbability,
		reportsTotal,
		reportSizeBytes,
		modelInfo,
	)

	return &HTTPServerMetrics{
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		predictionsTotal:      predictionsTotal,
		predictionErrorsTotal: predictionErrorsTotal,
		approvalProbability:   approvalProbability,
		reportsTotal:          reportsTotal,
		reportSizeBytes:       reportSizeBytes,
		modelInfo:             modelInfo,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// normalizePath collapses report IDs so label cardinality stays bounded.
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/reports/"):
		return "/v1/reports/{id}"
	case strings.HasPrefix(path, "/reports/"):
		return "/reports/{id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordPrediction(service, channel string, approved bool, approvalProbability float64) {
	verdict := "rejected"
	if approved {
		verdict = "approved"
	}
	m.predictionsTotal.WithLabelValues(service, channel, verdict).Inc()
	m.approvalProbability.WithLabelValues(service, channel).Observe(approvalProbability)
}

func (m *HTTPServerMetrics) RecordPredictionError(service, channel, kind string) {
	if kind == "" {
		kind = "unknown"
	}
	m.predictionErrorsTotal.WithLabelValues(service, channel, kind).Inc()
}

func (m *HTTPServerMetrics) RecordReport(service string, sizeBytes int64) {
	m.reportsTotal.WithLabelValues(service).Inc()
	m.reportSizeBytes.WithLabelValues(service).Observe(float64(sizeBytes))
}

func (m *HTTPServerMetrics) SetModelInfo(service, kind, version string) {
	if version == "" {
		version = "unknown"
	}
	m.modelInfo.WithLabelValues(service, kind, version).Set(1)
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
