package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	// HTTPErrorsTotal tracks HTTP errors by type
	HTTPErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total HTTP errors by error type",
		},
		[]string{"type"},
	)

	// AnalysisRequestsTotal tracks text analysis requests by endpoint and outcome
	AnalysisRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_requests_total",
			Help: "Total text analysis requests by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)
)

// Inference Metrics
var (
	// InferenceDuration tracks model inference latency in seconds
	InferenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inference_duration_seconds",
			Help:    "Model inference duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"model"},
	)

	// InferenceErrorsTotal tracks model inference failures by model
	InferenceErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inference_errors_total",
			Help: "Total model inference failures by model",
		},
		[]string{"model"},
	)

	// InferenceCircuitState tracks the inference circuit breaker state
	// (0=closed, 1=half-open, 2=open)
	InferenceCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "inference_circuit_state",
			Help: "Current inference circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// Broadcast Metrics
var (
	// ConnectedClients tracks the number of registered websocket clients
	ConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "broadcast_connected_clients",
			Help: "Number of registered websocket clients",
		},
	)

	// BroadcastsTotal tracks fan-out passes
	BroadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcasts_total",
			Help: "Total broadcast fan-out passes",
		},
	)

	// DeliveryFailuresTotal tracks per-connection delivery failures during fan-out
	DeliveryFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_delivery_failures_total",
			Help: "Total per-connection delivery failures during fan-out",
		},
	)

	// MalformedFramesTotal tracks unparseable inbound websocket frames
	MalformedFramesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_malformed_frames_total",
			Help: "Total unparseable inbound websocket frames (dropped)",
		},
	)

	// IdleDisconnects tracks connections closed by the idle timeout
	IdleDisconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_idle_disconnects_total",
			Help: "Total websocket connections closed by the idle timeout",
		},
	)

	// ConnectionsRejectedTotal tracks registrations rejected at capacity
	ConnectionsRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcast_connections_rejected_total",
			Help: "Total websocket registrations rejected at the connection cap",
		},
	)
)
