package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics counts mutations applied to session carts.
type CartMetrics struct {
	mutations *prometheus.CounterVec
}

// NewCartMetrics registers the cart collectors on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Cart mutations applied, by operation.",
	}, []string{"op"})
	reg.MustRegister(mutations)
	return &CartMetrics{mutations: mutations}
}

// IncMutation records one applied cart operation.
func (c *CartMetrics) IncMutation(op string) {
	if c == nil || c.mutations == nil {
		return
	}
	c.mutations.WithLabelValues(normalizeLabel(op)).Inc()
}

// OrderMetrics tracks order submissions and the backend calls behind them.
type OrderMetrics struct {
	submissions *prometheus.CounterVec
	upstream    *prometheus.HistogramVec
}

// NewOrderMetrics registers the order collectors on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_submissions_total",
		Help:      "Order submissions by kind and outcome.",
	}, []string{"kind", "outcome"})
	upstream := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_upstream_duration_seconds",
		Help:      "Latency of order create calls against the backend.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})
	reg.MustRegister(submissions, upstream)
	return &OrderMetrics{submissions: submissions, upstream: upstream}
}

// IncSubmission records the terminal outcome of one submission.
func (o *OrderMetrics) IncSubmission(kind, outcome string) {
	if o == nil || o.submissions == nil {
		return
	}
	o.submissions.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}

// ObserveUpstream records how long the backend took to answer.
func (o *OrderMetrics) ObserveUpstream(kind string, d time.Duration) {
	if o == nil || o.upstream == nil {
		return
	}
	o.upstream.WithLabelValues(normalizeLabel(kind)).Observe(d.Seconds())
}
