package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCartMetricsCountsByOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCartMetrics(reg)
	m.IncMutation("add")
	m.IncMutation("add")
	m.IncMutation("")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_cart_mutations_total", "op", "add"); err != nil || got != 2 {
		t.Fatalf("expected add=2, got %f (err=%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_cart_mutations_total", "op", "unknown"); err != nil || got != 1 {
		t.Fatalf("expected unknown=1, got %f (err=%v)", got, err)
	}
}

func TestOrderMetricsExportsOutcomesAndLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)
	m.IncSubmission("cart", "accepted")
	m.ObserveUpstream("cart", 120*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_order_submissions_total", "outcome", "accepted"); err != nil || got != 1 {
		t.Fatalf("expected accepted=1, got %f (err=%v)", got, err)
	}
	if got, err := fetchHistogramSum(mfs, "storefront_order_upstream_duration_seconds", "kind", "cart"); err != nil || got <= 0 {
		t.Fatalf("expected latency sum > 0, got %f (err=%v)", got, err)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewCartMetrics(nil).IncMutation("add")
	NewOrderMetrics(nil).IncSubmission("cart", "failed")
	var m *OrderMetrics
	m.ObserveUpstream("cart", time.Second)
}
