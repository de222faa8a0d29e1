package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Counter is a monotonically increasing count
type Counter struct {
	val atomic.Int64
}

func (c *Counter) Inc()         { c.val.Add(1) }
func (c *Counter) Add(n int64)  { c.val.Add(n) }
func (c *Counter) Value() int64 { return c.val.Load() }

// LatencyTracker keeps the most recent samples for percentile queries
type LatencyTracker struct {
	mu      sync.Mutex
	samples []time.Duration
	maxKeep int
}

// NewLatencyTracker creates a tracker retaining up to maxKeep samples
func NewLatencyTracker(maxKeep int) *LatencyTracker {
	return &LatencyTracker{maxKeep: maxKeep}
}

// Record adds one sample, evicting the oldest beyond maxKeep
func (lt *LatencyTracker) Record(d time.Duration) {
	lt.mu.Lock()
	defer lt.mu.Unlock()
	lt.samples = append(lt.samples, d)
	if len(lt.samples) > lt.maxKeep {
		lt.samples = lt.samples[len(lt.samples)-lt.maxKeep:]
	}
}

func (lt *LatencyTracker) P50() time.Duration { return lt.Percentile(0.50) }
func (lt *LatencyTracker) P99() time.Duration { return lt.Percentile(0.99) }

// Percentile returns the nearest-rank sample at p in [0,1], 0 with no samples
func (lt *LatencyTracker) Percentile(p float64) time.Duration {
	lt.mu.Lock()
	sorted := make([]time.Duration, len(lt.samples))
	copy(sorted, lt.samples)
	lt.mu.Unlock()

	if len(sorted) == 0 {
		return 0
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

// Metrics are the service's in-process counters
type Metrics struct {
	AnalysesRun      Counter
	BatchesRun       Counter
	SimulationsRun   Counter
	SoftFallbacks    Counter
	AlternateLines   Counter
	ResultsPublished Counter
	PublishErrors    Counter
	RequestErrors    Counter
	AnalysisLatency  *LatencyTracker
	SimulateLatency  *LatencyTracker
}

// New creates an empty metrics registry
func New() *Metrics {
	return &Metrics{
		AnalysisLatency: NewLatencyTracker(1000),
		SimulateLatency: NewLatencyTracker(1000),
	}
}

// Snapshot is the JSON view of Metrics
type Snapshot struct {
	AnalysesRun       int64   `json:"analyses_run"`
	BatchesRun        int64   `json:"batches_run"`
	SimulationsRun    int64   `json:"simulations_run"`
	SoftFallbacks     int64   `json:"soft_fallbacks"`
	AlternateLines    int64   `json:"alternate_lines"`
	ResultsPublished  int64   `json:"results_published"`
	PublishErrors     int64   `json:"publish_errors"`
	RequestErrors     int64   `json:"request_errors"`
	AnalysisP50Millis float64 `json:"analysis_p50_ms"`
	AnalysisP99Millis float64 `json:"analysis_p99_ms"`
	SimulateP50Millis float64 `json:"simulate_p50_ms"`
	SimulateP99Millis float64 `json:"simulate_p99_ms"`
}

// Snapshot reads every counter and latency percentile
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		AnalysesRun:       m.AnalysesRun.Value(),
		BatchesRun:        m.BatchesRun.Value(),
		SimulationsRun:    m.SimulationsRun.Value(),
		SoftFallbacks:     m.SoftFallbacks.Value(),
		AlternateLines:    m.AlternateLines.Value(),
		ResultsPublished:  m.ResultsPublished.Value(),
		PublishErrors:     m.PublishErrors.Value(),
		RequestErrors:     m.RequestErrors.Value(),
		AnalysisP50Millis: millis(m.AnalysisLatency.P50()),
		AnalysisP99Millis: millis(m.AnalysisLatency.P99()),
		SimulateP50Millis: millis(m.SimulateLatency.P50()),
		SimulateP99Millis: millis(m.SimulateLatency.P99()),
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000
}
