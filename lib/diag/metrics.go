package diag

import (
	"fmt"
	"github.com/VictoriaMetrics/metrics"
	"io"
	"sync"
	"time"
)

// Metrics is a Sink exporting per-method call counters and durations in the
// Prometheus text format:
//
//	mcmock_calls_total{method="get"}
//	mcmock_call_duration_seconds{method="get"}
//	mcmock_assertion_failures_total
//
// Thread-safety: Metrics is safe for concurrent use.
type Metrics struct {
	set *metrics.Set

	mu     sync.Mutex
	starts map[string][]time.Time
}

// NewMetrics creates a metrics sink. A nil set creates a private one.
func NewMetrics(set *metrics.Set) *Metrics {
	if set == nil {
		set = metrics.NewSet()
	}
	return &Metrics{set: set, starts: make(map[string][]time.Time)}
}

func (m *Metrics) Start(method string, _ map[string]any) {
	m.set.GetOrCreateCounter(fmt.Sprintf(`mcmock_calls_total{method=%q}`, method)).Inc()

	m.mu.Lock()
	m.starts[method] = append(m.starts[method], time.Now())
	m.mu.Unlock()
}

func (m *Metrics) Stop(method string) {
	m.mu.Lock()
	starts := m.starts[method]
	if len(starts) == 0 {
		m.mu.Unlock()
		return
	}
	start := starts[len(starts)-1]
	m.starts[method] = starts[:len(starts)-1]
	m.mu.Unlock()

	m.set.GetOrCreateSummary(fmt.Sprintf(`mcmock_call_duration_seconds{method=%q}`, method)).UpdateDuration(start)
}

func (m *Metrics) Failure(string) {
	m.set.GetOrCreateCounter("mcmock_assertion_failures_total").Inc()
}

// Calls returns how often method was started.
func (m *Metrics) Calls(method string) uint64 {
	return m.set.GetOrCreateCounter(fmt.Sprintf(`mcmock_calls_total{method=%q}`, method)).Get()
}

// Failures returns the number of failed checks.
func (m *Metrics) Failures() uint64 {
	return m.set.GetOrCreateCounter("mcmock_assertion_failures_total").Get()
}

// WritePrometheus writes all metrics in the Prometheus text format.
func (m *Metrics) WritePrometheus(w io.Writer) {
	m.set.WritePrometheus(w)
}
