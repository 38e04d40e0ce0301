package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type WorkerMetrics struct {
	registry *prometheus.Registry

	analysisTotal      *prometheus.CounterVec
	analysisDuration   *prometheus.HistogramVec
	analysisInFlight   prometheus.Gauge
	queueLag           *prometheus.HistogramVec
	clauseVerdictTotal *prometheus.CounterVec
	llmCallsTotal      *prometheus.CounterVec
}

func NewWorkerMetrics(service string) *WorkerMetrics {
	registry := prometheus.NewRegistry()

	analysisTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cw",
			Subsystem: "worker",
			Name:      "contract_analysis_total",
			Help:      "Total analyzed contracts by status.",
		},
		[]string{"service", "status"},
	)
	analysisDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cw",
			Subsystem: "worker",
			Name:      "contract_analysis_duration_seconds",
			Help:      "Contract analysis duration in seconds by status.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200},
		},
		[]string{"service", "status"},
	)
	analysisInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "cw",
			Subsystem: "worker",
			Name:      "contract_analysis_in_flight",
			Help:      "Number of in-flight contract analyses.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "cw",
			Subsystem: "worker",
			Name:      "queue_lag_seconds",
			Help:      "Delay between contract upload and analysis start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	clauseVerdictTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cw",
			Subsystem: "worker",
			Name:      "clause_verdicts_total",
			Help:      "Total clause-level risk verdicts by level.",
		},
		[]string{"service", "risk_level"},
	)
	llmCallsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "cw",
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "Total LLM calls by operation and outcome.",
		},
		[]string{"service", "operation", "status"},
	)

	registry.MustRegister(
		analysisTotal, analysisDuration, analysisInFlight,
		queueLag, clauseVerdictTotal, llmCallsTotal,
	)

	return &WorkerMetrics{
		registry:           registry,
		analysisTotal:      analysisTotal,
		analysisDuration:   analysisDuration,
		analysisInFlight:   analysisInFlight,
		queueLag:           queueLag,
		clauseVerdictTotal: clauseVerdictTotal,
		llmCallsTotal:      llmCallsTotal,
	}
}

func (m *WorkerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *WorkerMetrics) StartAnalysis() {
	m.analysisInFlight.Inc()
}

func (m *WorkerMetrics) FinishAnalysis(service string, duration time.Duration, err error) {
	m.analysisInFlight.Dec()
	m.analysisTotal.WithLabelValues(service, outcome(err)).Inc()
	m.analysisDuration.WithLabelValues(service, outcome(err)).Observe(duration.Seconds())
}

func (m *WorkerMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *WorkerMetrics) RecordClauseVerdict(service, riskLevel string) {
	if riskLevel == "" {
		riskLevel = "Unclear"
	}
	m.clauseVerdictTotal.WithLabelValues(service, riskLevel).Inc()
}

func (m *WorkerMetrics) RecordLLMCall(service, operation string, err error) {
	if operation == "" {
		operation = "unknown"
	}
	m.llmCallsTotal.WithLabelValues(service, operation, outcome(err)).Inc()
}
