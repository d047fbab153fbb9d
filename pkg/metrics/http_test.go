package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCountsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRequestMetrics(reg)

	m.Observe("GET", "/products", "success", 10*time.Millisecond)
	m.Observe("GET", "/products", "success", 20*time.Millisecond)
	m.Observe("POST", "/inventory", "error", time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/products", "success")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "/inventory", "error")); got != 1 {
		t.Fatalf("expected 1 error, got %v", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewRequestMetrics(nil)
	// Must not panic.
	m.Observe("GET", "/alerts", "", time.Millisecond)

	var unset *RequestMetrics
	unset.Observe("GET", "/alerts", "success", time.Millisecond)
}
