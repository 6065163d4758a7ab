// Package stats keeps a rolling window of recent computations for the
// /api/stats endpoint.
package stats

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

type sample struct {
	at         time.Time
	durationMs float64
	outcome    string
}

// OK is the outcome recorded for a successful computation.
const OK = "ok"

// Snapshot aggregates the samples currently in the window.
type Snapshot struct {
	Count    int            `json:"count"`
	Outcomes map[string]int `json:"outcomes"`
	MinMs    float64        `json:"min_ms"`
	MaxMs    float64        `json:"max_ms"`
	AvgMs    float64        `json:"avg_ms"`
	P50Ms    float64        `json:"p50_ms"`
	P95Ms    float64        `json:"p95_ms"`
	P99Ms    float64        `json:"p99_ms"`
	WindowS  float64        `json:"window_seconds"`
}

// DefaultMaxSamples bounds a Window when NewWindow is given no limit.
const DefaultMaxSamples = 10000

// Window tracks computation latencies and outcomes over a rolling period.
// At most maxSamples of the newest computations are kept.
type Window struct {
	mu         sync.Mutex
	samples    []sample // ordered by at
	maxAge     time.Duration
	maxSamples int
	now        func() time.Time
}

func NewWindow(maxAge time.Duration, maxSamples int) *Window {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	return &Window{
		samples:    make([]sample, 0, min(maxSamples, 256)),
		maxAge:     maxAge,
		maxSamples: maxSamples,
		now:        time.Now,
	}
}

// Record adds one computation. outcome is OK or a failure kind.
func (w *Window) Record(d time.Duration, outcome string) {
	if d < 0 {
		d = 0
	}
	if outcome == "" {
		outcome = OK
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	// Read the clock under the lock so samples stay in time order.
	now := w.now()
	w.pruneLocked(now)
	if n := len(w.samples); n >= w.maxSamples {
		w.samples = w.samples[n-w.maxSamples+1:]
	}
	w.samples = append(w.samples, sample{
		at:         now,
		durationMs: float64(d) / float64(time.Millisecond),
		outcome:    outcome,
	})
}

func (w *Window) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pruneLocked(w.now())
	snap := Snapshot{Outcomes: map[string]int{}, WindowS: w.maxAge.Seconds()}
	if len(w.samples) == 0 {
		return snap
	}

	values := make([]float64, 0, len(w.samples))
	for _, s := range w.samples {
		values = append(values, s.durationMs)
		snap.Outcomes[s.outcome]++
	}
	sort.Float64s(values)

	snap.Count = len(values)
	snap.MinMs = values[0]
	snap.MaxMs = values[len(values)-1]
	snap.AvgMs = stat.Mean(values, nil)
	snap.P50Ms = percentile(values, 50)
	snap.P95Ms = percentile(values, 95)
	snap.P99Ms = percentile(values, 99)
	return snap
}

// pruneLocked drops the expired prefix. Appends past the slice capacity
// reallocate with only the live samples, so the backing array stays bounded.
func (w *Window) pruneLocked(now time.Time) {
	cutoff := now.Add(-w.maxAge)
	i := sort.Search(len(w.samples), func(i int) bool {
		return !w.samples[i].at.Before(cutoff)
	})
	w.samples = w.samples[i:]
}

// percentile interpolates linearly between closest ranks.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}
	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*weight
}
