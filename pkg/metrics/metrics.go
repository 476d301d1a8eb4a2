package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CapturesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_captures_total",
			Help: "Total number of errors entering the capture pipeline (count)",
		},
		[]string{"status"},
	)

	SuppressedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_suppressed_total",
			Help: "Total number of reports suppressed before delivery (count)",
		},
		[]string{"reason"},
	)

	DeliveryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_delivery_attempts_total",
			Help: "Total number of delivery attempts to the collector (count)",
		},
		[]string{"status"},
	)

	DeliveryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "faultline_delivery_duration_ms",
			Help:    "Delivery attempt duration in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
		[]string{"status"},
	)

	DeliveryRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "faultline_delivery_retries_total",
			Help: "Total number of delivery retries after transient failures (count)",
		},
	)

	QueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "faultline_queue_depth",
			Help: "Number of payloads waiting in the delivery queue (count)",
		},
	)

	QueueDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "faultline_queue_dropped_total",
			Help: "Total number of payloads dropped because the delivery queue was full (count)",
		},
	)

	StoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "faultline_store_errors_total",
			Help: "Total number of dedup/rate-limit store failures (count)",
		},
		[]string{"operation"},
	)

	BreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "faultline_breaker_state",
			Help: "Circuit breaker state for the limiter store (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

var registered = make(map[string]bool)

func register(name string, collectors ...prometheus.Collector) {
	if registered[name] {
		return
	}
	registered[name] = true
	for _, c := range collectors {
		prometheus.MustRegister(c)
	}
}

func RegisterCaptureMetrics() {
	register("capture", CapturesTotal, SuppressedTotal)
}

func RegisterDeliveryMetrics() {
	register("delivery", DeliveryAttemptsTotal, DeliveryDuration, DeliveryRetriesTotal, QueueDepth, QueueDroppedTotal)
}

func RegisterLimiterMetrics() {
	register("limiter", StoreErrorsTotal, BreakerState)
}

func ObserveDeliveryDuration(d time.Duration, status string) {
	DeliveryDuration.WithLabelValues(status).Observe(float64(d.Milliseconds()))
}
