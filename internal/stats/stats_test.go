package stats

import (
	"sync"
	"testing"
	"time"
)

func TestRecorderSnapshotPercentiles(t *testing.T) {
	r := NewRecorder(time.Hour)
	for _, ms := range []int64{500, 100, 300, 200, 400} {
		r.Record("/read-doc/*", time.Duration(ms)*time.Millisecond)
	}

	snap, ok := r.Snapshot()["/read-doc/*"]
	if !ok {
		t.Fatal("expected route in snapshot")
	}
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
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
}

func TestRecorderKeepsRoutesApart(t *testing.T) {
	r := NewRecorder(time.Hour)
	r.Record("/list-docs", 10*time.Millisecond)
	r.Record("/list-docs", 30*time.Millisecond)
	r.Record("/mockup/*", 5*time.Millisecond)

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(snap))
	}
	if snap["/list-docs"].Count != 2 || snap["/mockup/*"].Count != 1 {
		t.Fatalf("unexpected counts: %+v", snap)
	}
}

func TestRecorderPrunesExpiredSamples(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	r := NewRecorder(time.Minute)
	r.now = func() time.Time { return now }

	r.Record("/list-mmd", 100*time.Millisecond)
	now = now.Add(2 * time.Minute)

	if snap := r.Snapshot(); len(snap) != 0 {
		t.Fatalf("expected empty snapshot after expiry, got %+v", snap)
	}

	r.Record("/list-mmd", 200*time.Millisecond)
	snap := r.Snapshot()["/list-mmd"]
	if snap.Count != 1 || snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected a single fresh 200ms sample, got %+v", snap)
	}
}

func TestRecorderClampsNegativeDuration(t *testing.T) {
	r := NewRecorder(time.Hour)
	r.Record("/health", -10*time.Millisecond)

	snap := r.Snapshot()["/health"]
	if snap.Count != 1 {
		t.Fatalf("expected count=1, got %d", snap.Count)
	}
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestRecorderConcurrentUse(t *testing.T) {
	r := NewRecorder(time.Hour)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				r.Record("/list-docs", time.Duration(i*j)*time.Millisecond)
				_ = r.Snapshot()
			}
		}()
	}
	wg.Wait()

	if got := r.Snapshot()["/list-docs"].Count; got != 400 {
		t.Fatalf("expected 400 samples, got %d", got)
	}
}

func TestPercentileEdges(t *testing.T) {
	if got := percentile(nil, 50); got != 0 {
		t.Errorf("expected 0 for no samples, got %f", got)
	}
	one := []int64{42}
	for _, pct := range []float64{0, 50, 100} {
		if got := percentile(one, pct); got != 42 {
			t.Errorf("p%.0f of a single sample: expected 42, got %f", pct, got)
		}
	}
}
