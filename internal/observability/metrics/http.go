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

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	uploadsTotal     *prometheus.CounterVec
	rewritesTotal    *prometheus.CounterVec
	pdfExportsTotal  *prometheus.CounterVec
	templateOpsTotal *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cw",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cw",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cw",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	uploadsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cw",
			Subsystem: "contracts",
			Name:      "uploads_total",
			Help:      "Total contract upload attempts by outcome.",
		},
		[]string{"service", "status"},
	)
	rewritesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cw",
			Subsystem: "contracts",
			Name:      "clause_rewrites_total",
			Help:      "Total clause rewrite requests by outcome.",
		},
		[]string{"service", "status"},
	)
	pdfExportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cw",
			Subsystem: "contracts",
			Name:      "pdf_exports_total",
			Help:      "Total PDF report exports by outcome.",
		},
		[]string{"service", "status"},
	)
	templateOpsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cw",
			Subsystem: "templates",
			Name:      "operations_total",
			Help:      "Total template library operations by kind and outcome.",
		},
		[]string{"service", "operation", "status"},
	)

	registry.MustRegister(
		requestTotal, requestDuration, requestInFlight,
		uploadsTotal, rewritesTotal, pdfExportsTotal, templateOpsTotal,
	)

	return &HTTPServerMetrics{
		registry:         registry,
		requestTotal:     requestTotal,
		requestDuration:  requestDuration,
		requestInFlight:  requestInFlight,
		uploadsTotal:     uploadsTotal,
		rewritesTotal:    rewritesTotal,
		pdfExportsTotal:  pdfExportsTotal,
		templateOpsTotal: templateOpsTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
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

// normalizePath collapses per-contract paths so the label set stays bounded.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/v1/contracts/") {
		return path
	}
	rest := strings.TrimPrefix(path, "/v1/contracts/")
	switch {
	case strings.HasSuffix(rest, "/report.pdf"):
		return "/v1/contracts/{contract_id}/report.pdf"
	case strings.HasSuffix(rest, "/report"):
		return "/v1/contracts/{contract_id}/report"
	default:
		return "/v1/contracts/{contract_id}"
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (m *HTTPServerMetrics) RecordUpload(service string, err error) {
	m.uploadsTotal.WithLabelValues(service, outcome(err)).Inc()
}

func (m *HTTPServerMetrics) RecordRewrite(service string, err error) {
	m.rewritesTotal.WithLabelValues(service, outcome(err)).Inc()
}

func (m *HTTPServerMetrics) RecordPDFExport(service string, err error) {
	m.pdfExportsTotal.WithLabelValues(service, outcome(err)).Inc()
}

func (m *HTTPServerMetrics) RecordTemplateOp(service, operation string, err error) {
	if operation == "" {
		operation = "unknown"
	}
	m.templateOpsTotal.WithLabelValues(service, operation, outcome(err)).Inc()
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
