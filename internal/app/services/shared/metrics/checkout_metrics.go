package metrics

import (
	"checkout-service/internal/app/contracts"
	"checkout-service/internal/app/models"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "checkout"

type checkoutMetrics struct {
	transitions      *prometheus.CounterVec
	orderCreations   *prometheus.CounterVec
	paymentOutcomes  *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout collectors on registerer.
func NewCheckoutMetrics(registerer prometheus.Registerer) contracts.CheckoutMetrics {
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "step_transitions_total",
		Help:      "Checkout step transitions.",
	}, []string{"from", "to"})
	orderCreations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_creations_total",
		Help:      "Order creation attempts by result.",
	}, []string{"kind", "result"})
	paymentOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_outcomes_total",
		Help:      "Payment branch results by method.",
	}, []string{"method", "outcome"})
	upstreamLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_ms",
		Help:      "Upstream API latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"upstream", "operation"})
	upstreamRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Upstream API calls by status.",
	}, []string{"upstream", "operation", "status"})

	registerer.MustRegister(transitions, orderCreations, paymentOutcomes, upstreamLatency, upstreamRequests)

	return &checkoutMetrics{
		transitions:      transitions,
		orderCreations:   orderCreations,
		paymentOutcomes:  paymentOutcomes,
		upstreamLatency:  upstreamLatency,
		upstreamRequests: upstreamRequests,
	}
}

func (m *checkoutMetrics) ObserveTransition(from, to models.CheckoutStep) {
	m.transitions.WithLabelValues(from.String(), to.String()).Inc()
}

func (m *checkoutMetrics) ObserveOrderCreation(kind models.CheckoutKind, result string) {
	m.orderCreations.WithLabelValues(string(kind), result).Inc()
}

func (m *checkoutMetrics) ObservePaymentOutcome(method models.PaymentMethod, outcome string) {
	m.paymentOutcomes.WithLabelValues(string(method), outcome).Inc()
}

// ObserveUpstreamCall records one upstream call. A zero status means the call
// never produced a response.
func (m *checkoutMetrics) ObserveUpstreamCall(upstream, operation string, statusCode int, duration time.Duration) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	m.upstreamRequests.WithLabelValues(upstream, operation, status).Inc()
	m.upstreamLatency.WithLabelValues(upstream, operation).Observe(float64(duration.Milliseconds()))
}

func Handler() http.Handler {
	return promhttp.Handler()
}
