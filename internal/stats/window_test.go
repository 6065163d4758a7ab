package stats

import (
	"testing"
	"time"
)

func TestWindowSnapshotPercentiles(t *testing.T) {
	w := NewWindow(time.Hour, 0)
	for _, ms := range []int{100, 200, 300, 400, 500} {
		w.Record(time.Duration(ms)*time.Millisecond, OK)
	}

	snap := w.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%f max=%f", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
	if snap.Outcomes[OK] != 5 {
		t.Fatalf("expected 5 ok outcomes, got %v", snap.Outcomes)
	}
}

func TestWindowCountsOutcomes(t *testing.T) {
	w := NewWindow(time.Hour, 0)
	w.Record(time.Millisecond, "")
	w.Record(time.Millisecond, "INVALID_INPUT")
	w.Record(time.Millisecond, "INVALID_INPUT")
	w.Record(time.Millisecond, "COMPUTATION_TIMEOUT")

	got := w.Snapshot().Outcomes
	if got[OK] != 1 || got["INVALID_INPUT"] != 2 || got["COMPUTATION_TIMEOUT"] != 1 {
		t.Fatalf("unexpected outcomes %v", got)
	}
}

func TestWindowPrunesExpiredSamples(t *testing.T) {
	now := time.Now()
	w := NewWindow(time.Minute, 0)
	w.now = func() time.Time { return now }
	w.Record(100*time.Millisecond, OK)

	now = now.Add(2 * time.Minute)
	snap := w.Snapshot()
	if snap.Count != 0 {
		t.Fatalf("expected count=0 after prune, got %d", snap.Count)
	}

	w.Record(200*time.Millisecond, OK)
	snap = w.Snapshot()
	if snap.Count != 1 || snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected a single 200ms sample, got %+v", snap)
	}
}

func TestWindowClampsNegativeDuration(t *testing.T) {
	w := NewWindow(0, 0)
	w.Record(-10*time.Millisecond, OK)
	snap := w.Snapshot()
	if snap.Count != 1 || snap.MaxMs != 0 {
		t.Fatalf("expected one clamped sample, got %+v", snap)
	}
	if snap.WindowS != time.Hour.Seconds() {
		t.Fatalf("expected default window of one hour, got %fs", snap.WindowS)
	}
}

func TestWindowKeepsUnexpiredSuffix(t *testing.T) {
	now := time.Now()
	w := NewWindow(time.Minute, 0)
	w.now = func() time.Time { return now }
	for i := 1; i <= 4; i++ {
		w.Record(time.Duration(i)*time.Millisecond, OK)
		now = now.Add(20 * time.Second)
	}

	// Samples were taken at 0s, 20s, 40s and 60s; at 80s only the first expired.
	snap := w.Snapshot()
	if snap.Count != 3 || snap.MinMs != 2 || snap.MaxMs != 4 {
		t.Fatalf("expected the 2ms to 4ms samples, got %+v", snap)
	}
}

func TestWindowDropsOldestPastCap(t *testing.T) {
	w := NewWindow(time.Hour, 3)
	for i := 1; i <= 1000; i++ {
		w.Record(time.Duration(i)*time.Millisecond, OK)
	}

	snap := w.Snapshot()
	if snap.Count != 3 || snap.MinMs != 998 || snap.MaxMs != 1000 {
		t.Fatalf("expected the newest 3 samples, got %+v", snap)
	}
	if len(w.samples) != 3 || cap(w.samples) > 16 {
		t.Fatalf("backing storage not bounded: len=%d cap=%d", len(w.samples), cap(w.samples))
	}
}

func TestNewWindowDefaultCap(t *testing.T) {
	w := NewWindow(time.Hour, -1)
	if w.maxSamples != DefaultMaxSamples {
		t.Fatalf("expected cap %d, got %d", DefaultMaxSamples, w.maxSamples)
	}
}
