package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Client Metrics
	APIRequestsTotal   *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec

	// Controller Metrics
	ControllerOpsTotal    *prometheus.CounterVec
	SelectionsCleared     prometheus.Counter
	StaleResponsesDropped *prometheus.CounterVec
	SnapshotSize          prometheus.Gauge
	InvariantViolations   prometheus.Counter

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Business Metrics
	StatusTransitions *prometheus.CounterVec
}

// NewMetrics registers the instruments with the default registerer.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Client Metrics
		APIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduler_api_requests_total",
				Help: "Total number of requests issued to the scheduler API",
			},
			[]string{"operation", "status_code"},
		),
		APIRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scheduler_api_request_duration_seconds",
				Help:    "Duration of scheduler API requests in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
			},
			[]string{"operation"},
		),

		// Controller Metrics
		ControllerOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduler_controller_operations_total",
				Help: "Controller operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		SelectionsCleared: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "scheduler_controller_selections_cleared_total",
				Help: "Selections cleared because the record left the list snapshot",
			},
		),
		StaleResponsesDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduler_controller_stale_responses_total",
				Help: "Responses discarded because a newer request was issued",
			},
			[]string{"operation"},
		),
		SnapshotSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "scheduler_controller_snapshot_size",
				Help: "Number of messages in the current list snapshot",
			},
		),
		InvariantViolations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "scheduler_controller_invariant_violations_total",
				Help: "Records received from the backend that violate record invariants",
			},
		),

		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduler_devapi_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scheduler_devapi_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "scheduler_devapi_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),

		// Business Metrics
		StatusTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scheduler_devapi_status_transitions_total",
				Help: "Lifecycle transitions applied by the reference backend",
			},
			[]string{"from", "to"},
		),
	}
}

// --- Recording Methods ---
// All recorders accept a nil receiver so metrics stay optional.

func (m *Metrics) RecordAPIRequest(operation string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	m.APIRequestsTotal.WithLabelValues(operation, code).Inc()
	m.APIRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) RecordControllerOp(operation, outcome string) {
	if m == nil {
		return
	}
	m.ControllerOpsTotal.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) RecordSelectionCleared() {
	if m == nil {
		return
	}
	m.SelectionsCleared.Inc()
}

func (m *Metrics) RecordStaleResponse(operation string) {
	if m == nil {
		return
	}
	m.StaleResponsesDropped.WithLabelValues(operation).Inc()
}

func (m *Metrics) SetSnapshotSize(n int) {
	if m == nil {
		return
	}
	m.SnapshotSize.Set(float64(n))
}

func (m *Metrics) RecordInvariantViolation() {
	if m == nil {
		return
	}
	m.InvariantViolations.Inc()
}

func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, statusCode).Observe(duration.Seconds())
}

func (m *Metrics) RecordTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitions.WithLabelValues(from, to).Inc()
}
