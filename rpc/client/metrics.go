package client

import (
	"fmt"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"github.com/rcrowley/go-metrics"
	"io"
	"sort"
	"time"
)

// Metrics collects the request timings of one client.
// Every command kind gets a timer, failures are counted per kind.
type Metrics struct {
	registry metrics.Registry
}

// NewMetrics creates an empty metrics registry
func NewMetrics() *Metrics {
	return &Metrics{registry: metrics.NewRegistry()}
}

func (m *Metrics) observe(kind common.CommandKind, start time.Time, err error) {
	metrics.GetOrRegisterTimer("requests."+kind.String(), m.registry).UpdateSince(start)
	if err != nil {
		metrics.GetOrRegisterCounter("transport_errors."+kind.String(), m.registry).Inc(1)
	}
}

func (m *Metrics) remoteError(kind common.CommandKind) {
	metrics.GetOrRegisterCounter("remote_errors."+kind.String(), m.registry).Inc(1)
}

// Requests returns the number of requests sent for the command kind
func (m *Metrics) Requests(kind common.CommandKind) int64 {
	timer, ok := m.registry.Get("requests." + kind.String()).(metrics.Timer)
	if !ok {
		return 0
	}
	return timer.Count()
}

// Write prints a summary of all timers and counters, sorted by name
func (m *Metrics) Write(w io.Writer) {
	names := make([]string, 0)
	m.registry.Each(func(name string, _ interface{}) {
		names = append(names, name)
	})
	sort.Strings(names)

	for _, name := range names {
		switch metric := m.registry.Get(name).(type) {
		case metrics.Timer:
			t := metric.Snapshot()
			_, _ = fmt.Fprintf(w, "%-28s count=%-6d mean=%-12s p99=%s\n",
				name, t.Count(), time.Duration(t.Mean()), time.Duration(t.Percentile(0.99)))
		case metrics.Counter:
			_, _ = fmt.Fprintf(w, "%-28s count=%d\n", name, metric.Count())
		}
	}
}
