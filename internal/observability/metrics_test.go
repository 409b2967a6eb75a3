package observability

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStoreMetrics_Observe(t *testing.T) {
	m := NewStoreMetrics(prometheus.NewRegistry())

	m.Observe("create", 12*time.Millisecond, nil)
	m.Observe("create", 3*time.Millisecond, errors.New("boom"))
	m.Observe("create", time.Millisecond, nil)

	if got := testutil.ToFloat64(m.Requests.WithLabelValues("create", "ok")); got != 2 {
		t.Errorf("expected 2 ok creates, got %v", got)
	}
	if got := testutil.ToFloat64(m.Requests.WithLabelValues("create", "error")); got != 1 {
		t.Errorf("expected 1 failed create, got %v", got)
	}
}

func TestStoreMetrics_NilSafe(t *testing.T) {
	var m *StoreMetrics
	m.Observe("list", time.Second, nil)
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	// Registering twice on fresh registries must not panic.
	NewStoreMetrics(prometheus.NewRegistry())
	NewStoreMetrics(prometheus.NewRegistry())
	NewAPIMetrics(prometheus.NewRegistry())
	NewAPIMetrics(prometheus.NewRegistry())
}
