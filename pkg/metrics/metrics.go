package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	OrdersCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of order creation attempts (count)",
		},
		[]string{"status"},
	)

	OrderEventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_events_published_total",
			Help: "Total number of order events handed to the broker (count)",
		},
		[]string{"status"},
	)

	PublishRetryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "publish_retry_attempts_total",
			Help: "Total number of broker publish retries (count)",
		},
		[]string{"topic"},
	)

	OrderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "order_request_duration_ms",
			Help:    "Order service request duration in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"method", "status"},
	)

	GatewayRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of requests handled by the gateway (count)",
		},
		[]string{"route", "status"},
	)

	FilterRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filter_rejections_total",
			Help: "Total number of requests rejected inside a filter chain (count)",
		},
		[]string{"filter", "reason"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_failures_total",
			Help: "Total number of failures recorded by a circuit breaker (count)",
		},
		[]string{"name"},
	)
)

var (
	orderOnce   sync.Once
	gatewayOnce sync.Once
	breakerOnce sync.Once
)

func RegisterOrderMetrics() {
	orderOnce.Do(func() {
		prometheus.MustRegister(
			OrdersCreatedTotal,
			OrderEventsPublishedTotal,
			PublishRetryAttemptsTotal,
			OrderRequestDuration,
		)
	})
}

func RegisterGatewayMetrics() {
	gatewayOnce.Do(func() {
		prometheus.MustRegister(
			GatewayRequestsTotal,
			FilterRejectionsTotal,
		)
	})
}

func RegisterCircuitBreakerMetrics() {
	breakerOnce.Do(func() {
		prometheus.MustRegister(
			CircuitBreakerState,
			CircuitBreakerFailures,
		)
	})
}
