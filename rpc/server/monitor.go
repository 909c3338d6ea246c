package server

import (
	"sync"
	"time"

	movingaverage "github.com/RobinUS2/golang-moving-average"
)

// Monitor keeps request stats of the server and logs them periodically.
type Monitor struct {
	sync.Mutex
	period    time.Duration
	handled   int
	failed    int
	reqDurAvg *movingaverage.MovingAverage
	stopCh    chan struct{}
}

// NewMonitor creates a monitor that reports every period, averaging the request
// duration over the last window requests
func NewMonitor(period time.Duration, window int) *Monitor {
	return &Monitor{
		period:    period,
		reqDurAvg: movingaverage.New(window),
	}
}

// RequestServed records a handled request
func (m *Monitor) RequestServed(dur time.Duration, failed bool) {
	m.Lock()
	defer m.Unlock()

	m.reqDurAvg.Add(float64(dur/time.Microsecond) / 1000.0)
	m.handled++
	if failed {
		m.failed++
	}
}

// Snapshot returns the counters of the current period and the average request duration in ms
func (m *Monitor) Snapshot() (handled, failed int, avgDurMs float64) {
	m.Lock()
	defer m.Unlock()

	return m.handled, m.failed, m.reqDurAvg.Avg()
}

// Start starts the Monitor worker.
func (m *Monitor) Start() {
	if m.stopCh != nil {
		return
	}

	m.stopCh = make(chan struct{})
	go m.worker(m.stopCh)
}

// Stop stops the Monitor worker.
func (m *Monitor) Stop() {
	if m.stopCh == nil {
		return
	}

	close(m.stopCh)
	m.stopCh = nil
}

// worker does the actual job.
func (m *Monitor) worker(stopCh chan struct{}) {
	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			// Stop the monitor
			return
		case <-ticker.C:
			// Print the report
			m.Lock()

			if m.handled > 0 {
				perSec := float64(m.handled) / m.period.Seconds()
				Logger.Infof("Monitor: %.2f requests/s, %d failed, avg request duration %.3f ms",
					perSec, m.failed, m.reqDurAvg.Avg())
			}
			m.handled = 0
			m.failed = 0

			m.Unlock()
		}
	}
}
