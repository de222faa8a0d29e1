package metrics_test

import (
	"sync"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/edge-analyzer/internal/metrics"
)

func TestCounterConcurrent(t *testing.T) {
	var c metrics.Counter
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()
	c.Add(5)

	if c.Value() != 5005 {
		t.Errorf("Value() = %d, want 5005", c.Value())
	}
}

func TestLatencyPercentiles(t *testing.T) {
	lt := metrics.NewLatencyTracker(1000)

	if lt.P50() != 0 {
		t.Errorf("empty P50 = %v, want 0", lt.P50())
	}

	// Recorded out of order: 100ms, 99ms, ..., 1ms
	for i := 100; i >= 1; i-- {
		lt.Record(time.Duration(i) * time.Millisecond)
	}

	tests := []struct {
		p    float64
		want time.Duration
	}{
		{0, 1 * time.Millisecond},
		{0.50, 50 * time.Millisecond},
		{0.99, 99 * time.Millisecond},
		{1, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := lt.Percentile(tt.p); got != tt.want {
			t.Errorf("Percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestLatencyEviction(t *testing.T) {
	lt := metrics.NewLatencyTracker(10)

	for i := 1; i <= 20; i++ {
		lt.Record(time.Duration(i) * time.Millisecond)
	}

	// Only 11..20 remain
	if got := lt.Percentile(0); got != 11*time.Millisecond {
		t.Errorf("min retained = %v, want 11ms", got)
	}
}

func TestSnapshot(t *testing.T) {
	m := metrics.New()
	m.AnalysesRun.Add(3)
	m.SoftFallbacks.Inc()
	m.AnalysisLatency.Record(1500 * time.Microsecond)

	s := m.Snapshot()
	if s.AnalysesRun != 3 || s.SoftFallbacks != 1 {
		t.Errorf("counters = %d/%d, want 3/1", s.AnalysesRun, s.SoftFallbacks)
	}
	if s.AnalysisP50Millis != 1.5 {
		t.Errorf("AnalysisP50Millis = %v, want 1.5", s.AnalysisP50Millis)
	}
	if s.SimulateP99Millis != 0 {
		t.Errorf("SimulateP99Millis = %v, want 0", s.SimulateP99Millis)
	}
}
