// Package metrics exposes Prometheus counters and histograms for
// classification runs. A CLI process is short-lived, so metrics are written
// as a node_exporter textfile snapshot rather than served.
package metrics

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alexanderramin/taxis/internal/classify"
	"github.com/alexanderramin/taxis/internal/llm"
	"github.com/alexanderramin/taxis/internal/service"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// Classification metrics
	ClassificationsTotal *prometheus.CounterVec

	// LLM metrics
	LLMCallsTotal     *prometheus.CounterVec
	LLMLatencySeconds *prometheus.HistogramVec
	LLMAttempts       *prometheus.HistogramVec

	// Use case metrics
	UseCasesTotal          *prometheus.CounterVec
	UseCaseDurationSeconds *prometheus.HistogramVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	return &Metrics{
		registry: registry,

		ClassificationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxis_classifications_total",
				Help: "Total number of classified rows by resulting code",
			},
			[]string{"code", "known"}, // known: false for verbatim answers outside the selection
		),

		LLMCallsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxis_llm_calls_total",
				Help: "Total number of completion calls by provider and outcome",
			},
			[]string{"provider", "task", "status"}, // status: ok, timeout, unavailable, empty_response, unknown
		),

		LLMLatencySeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taxis_llm_latency_seconds",
				Help:    "Completion call latency in seconds including retries",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),

		LLMAttempts: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taxis_llm_attempts",
				Help:    "Attempts needed per completion call",
				Buckets: []float64{1, 2, 3, 5},
			},
			[]string{"provider"},
		),

		UseCasesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxis_use_cases_total",
				Help: "Total number of use case executions by outcome",
			},
			[]string{"use_case", "status"}, // status: success, error
		),

		UseCaseDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taxis_use_case_duration_seconds",
				Help:    "Use case duration in seconds",
				Buckets: []float64{0.1, 1, 5, 30, 120, 600, 1800},
			},
			[]string{"use_case"},
		),
	}
}

// Record implements classify.Recorder.
func (m *Metrics) Record(_ string, r classify.Result) {
	m.ClassificationsTotal.WithLabelValues(r.Code, strconv.FormatBool(r.Known)).Inc()
}

// OnCallComplete implements llm.Observer.
func (m *Metrics) OnCallComplete(event llm.LLMCallEvent) {
	status := "ok"
	if !event.Success {
		status = statusLabel(event.ErrorCode)
	}
	provider := string(event.Provider)
	m.LLMCallsTotal.WithLabelValues(provider, string(event.Task), status).Inc()
	m.LLMLatencySeconds.WithLabelValues(provider).Observe(float64(event.LatencyMs) / 1000)
	if event.Attempts > 0 {
		m.LLMAttempts.WithLabelValues(provider).Observe(float64(event.Attempts))
	}
}

// ObserveUseCase implements service.UseCaseObserver.
func (m *Metrics) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	status := "success"
	if !event.Success {
		status = "error"
	}
	m.UseCasesTotal.WithLabelValues(event.Name, status).Inc()
	m.UseCaseDurationSeconds.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
}

// WriteTextfile writes the current values in the text exposition format,
// atomically replacing path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func statusLabel(code string) string {
	switch code {
	case "TIMEOUT":
		return "timeout"
	case "UNAVAILABLE":
		return "unavailable"
	case "EMPTY_RESPONSE":
		return "empty_response"
	default:
		return "unknown"
	}
}

var (
	_ classify.Recorder       = (*Metrics)(nil)
	_ llm.Observer            = (*Metrics)(nil)
	_ service.UseCaseObserver = (*Metrics)(nil)
)
