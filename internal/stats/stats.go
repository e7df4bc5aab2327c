// Package stats keeps rolling request latency per route.
package stats

import (
	"slices"
	"sync"
	"time"
)

// Snapshot aggregates the samples currently inside a window.
type Snapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

type sample struct {
	at time.Time
	ms int64
}

// Recorder tracks request durations per route pattern, forgetting samples
// older than maxAge. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	maxAge time.Duration
	now    func() time.Time
	routes map[string][]sample
}

func NewRecorder(maxAge time.Duration) *Recorder {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Recorder{
		maxAge: maxAge,
		now:    time.Now,
		routes: make(map[string][]sample),
	}
}

// Record adds one request duration for route.
func (r *Recorder) Record(route string, d time.Duration) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.routes[route] = append(prune(r.routes[route], now.Add(-r.maxAge)), sample{at: now, ms: ms})
}

// Snapshot aggregates every route that still has samples in the window.
func (r *Recorder) Snapshot() map[string]Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.maxAge)
	out := make(map[string]Snapshot, len(r.routes))
	for route, samples := range r.routes {
		samples = prune(samples, cutoff)
		if len(samples) == 0 {
			delete(r.routes, route)
			continue
		}
		r.routes[route] = samples
		out[route] = aggregate(samples)
	}
	return out
}

// prune drops samples taken before cutoff, reusing the backing array.
func prune(samples []sample, cutoff time.Time) []sample {
	return slices.DeleteFunc(samples, func(s sample) bool { return s.at.Before(cutoff) })
}

func aggregate(samples []sample) Snapshot {
	values := make([]int64, len(samples))
	var sum int64
	for i, s := range samples {
		values[i] = s.ms
		sum += s.ms
	}
	slices.Sort(values)

	return Snapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

// percentile interpolates linearly between the two closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	idx := float64(len(sorted)-1) * pct / 100
	lo := int(idx)
	if lo+1 >= len(sorted) {
		return float64(sorted[lo])
	}
	frac := idx - float64(lo)
	return float64(sorted[lo]) + (float64(sorted[lo+1])-float64(sorted[lo]))*frac
}
