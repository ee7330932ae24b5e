package latency

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

const DefaultMaxSamples = 10000

// Tracker accumulates per-request ingestion latencies. The sample buffer is
// bounded; once full, the oldest sample is dropped so the snapshot reflects
// recent traffic. Count keeps the lifetime total regardless of eviction.
type Tracker struct {
	mu         sync.Mutex
	samples    []float64 // microseconds
	maxSamples int
	count      int64
}

// Snapshot is a point-in-time summary of observed latencies. Percentile
// fields are nil until at least one sample exists, so "no data yet" is
// distinguishable from a real zero.
type Snapshot struct {
	Count  int64    `json:"count"`
	MinUs  *float64 `json:"min_us,omitempty"`
	MaxUs  *float64 `json:"max_us,omitempty"`
	MeanUs *float64 `json:"mean_us,omitempty"`
	P50Us  *float64 `json:"p50_us,omitempty"`
	P95Us  *float64 `json:"p95_us,omitempty"`
	P99Us  *float64 `json:"p99_us,omitempty"`
}

func NewTracker(maxSamples int) *Tracker {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	return &Tracker{
		samples:    make([]float64, 0, maxSamples),
		maxSamples: maxSamples,
	}
}

func (t *Tracker) Observe(d time.Duration) {
	us := float64(d.Nanoseconds()) / 1000.0

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.samples) >= t.maxSamples {
		t.samples = t.samples[1:]
	}
	t.samples = append(t.samples, us)
	t.count++
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	sorted := make([]float64, len(t.samples))
	copy(sorted, t.samples)
	count := t.count
	t.mu.Unlock()

	snap := Snapshot{Count: count}
	if len(sorted) == 0 {
		return snap
	}

	sort.Float64s(sorted)

	min := sorted[0]
	max := sorted[len(sorted)-1]
	mean := stat.Mean(sorted, nil)
	p50 := stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p95 := stat.Quantile(0.95, stat.Empirical, sorted, nil)
	p99 := stat.Quantile(0.99, stat.Empirical, sorted, nil)

	snap.MinUs = &min
	snap.MaxUs = &max
	snap.MeanUs = &mean
	snap.P50Us = &p50
	snap.P95Us = &p95
	snap.P99Us = &p99
	return snap
}
