package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/policyqa/internal/core/ports/driving"
)

// DefaultMonitorWindow is how many recent request durations are retained
// for timing statistics. Counters are lifetime, timings are windowed.
const DefaultMonitorWindow = 100

// PerformanceMonitor records request durations and error counts. It is
// safe for concurrent use.
type PerformanceMonitor struct {
	mu        sync.Mutex
	durations []time.Duration
	next      int
	filled    bool
	total     int
	errors    int
	started   time.Time
}

// NewPerformanceMonitor creates a monitor retaining the default window
// of recent request timings.
func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{
		durations: make([]time.Duration, DefaultMonitorWindow),
		started:   time.Now(),
	}
}

// Record stores one request outcome.
func (m *PerformanceMonitor) Record(duration time.Duration, failed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total++
	if failed {
		m.errors++
	}

	m.durations[m.next] = duration
	m.next++
	if m.next == len(m.durations) {
		m.next = 0
		m.filled = true
	}
}

// Stats summarises the recorded requests.
func (m *PerformanceMonitor) Stats() driving.PerformanceStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := driving.PerformanceStats{
		TotalRequests: m.total,
		Uptime:        time.Since(m.started),
	}
	if m.total > 0 {
		stats.ErrorRate = float64(m.errors) / float64(m.total)
	}

	window := m.next
	if m.filled {
		window = len(m.durations)
	}
	if window == 0 {
		return stats
	}

	var sum time.Duration
	min, max := m.durations[0], m.durations[0]
	for i := 0; i < window; i++ {
		d := m.durations[i]
		sum += d
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}
	stats.AvgResponseTime = sum / time.Duration(window)
	stats.MinResponseTime = min
	stats.MaxResponseTime = max
	return stats
}
