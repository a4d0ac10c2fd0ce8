package observability

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Upper bounds of the latency buckets; the last bucket is unbounded
var latencyBounds = [...]time.Duration{
	time.Millisecond,
	5 * time.Millisecond,
	10 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	500 * time.Millisecond,
	time.Second,
	5 * time.Second,
	10 * time.Second,
}

// PerformanceMonitor records per-route request counts, errors and latency
type PerformanceMonitor struct {
	enabled atomic.Bool
	routes  sync.Map // label -> *RouteMetrics

	// Thresholds used by Bottlenecks
	SlowThreshold      time.Duration
	ErrorRateThreshold float64
}

// RouteMetrics stores metrics for a single route label
type RouteMetrics struct {
	Name           string
	Count          atomic.Uint64
	Errors         atomic.Uint64
	TotalDuration  atomic.Uint64
	MinDuration    atomic.Uint64
	MaxDuration    atomic.Uint64
	latencyBuckets [len(latencyBounds) + 1]atomic.Uint64
}

// Snapshot is a point-in-time copy of RouteMetrics
type Snapshot struct {
	Name    string
	Count   uint64
	Errors  uint64
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Buckets []uint64
}

// Bottleneck represents a performance issue
type Bottleneck struct {
	Type     string
	Location string
	Severity int
	Impact   float64
	Details  string
}

// NewPerformanceMonitor creates an enabled monitor with default thresholds
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{
		SlowThreshold:      100 * time.Millisecond,
		ErrorRateThreshold: 0.05,
	}
	pm.enabled.Store(true)
	return pm
}

// SetEnabled turns recording on or off
func (pm *PerformanceMonitor) SetEnabled(enabled bool) {
	pm.enabled.Store(enabled)
}

// RecordRequest records one request against a route label
func (pm *PerformanceMonitor) RecordRequest(route string, duration time.Duration, isError bool) {
	if !pm.enabled.Load() {
		return
	}

	val, _ := pm.routes.LoadOrStore(route, &RouteMetrics{Name: route})
	m := val.(*RouteMetrics)

	m.Count.Add(1)
	if isError {
		m.Errors.Add(1)
	}

	d := uint64(duration.Nanoseconds())
	m.TotalDuration.Add(d)
	updateMin(&m.MinDuration, d)
	updateMax(&m.MaxDuration, d)

	m.latencyBuckets[bucketFor(duration)].Add(1)
}

func updateMin(v *atomic.Uint64, d uint64) {
	for {
		cur := v.Load()
		if cur != 0 && d >= cur {
			return
		}
		if v.CompareAndSwap(cur, d) {
			return
		}
	}
}

func updateMax(v *atomic.Uint64, d uint64) {
	for {
		cur := v.Load()
		if d <= cur {
			return
		}
		if v.CompareAndSwap(cur, d) {
			return
		}
	}
}

func bucketFor(d time.Duration) int {
	for i, bound := range latencyBounds {
		if d < bound {
			return i
		}
	}
	return len(latencyBounds)
}

// Snapshot returns the metrics recorded for route
func (pm *PerformanceMonitor) Snapshot(route string) (Snapshot, bool) {
	val, ok := pm.routes.Load(route)
	if !ok {
		return Snapshot{}, false
	}
	return val.(*RouteMetrics).snapshot(), true
}

// Snapshots returns the metrics of every route, sorted by label
func (pm *PerformanceMonitor) Snapshots() []Snapshot {
	var out []Snapshot
	pm.routes.Range(func(_, value any) bool {
		out = append(out, value.(*RouteMetrics).snapshot())
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *RouteMetrics) snapshot() Snapshot {
	s := Snapshot{
		Name:    m.Name,
		Count:   m.Count.Load(),
		Errors:  m.Errors.Load(),
		Min:     time.Duration(m.MinDuration.Load()),
		Max:     time.Duration(m.MaxDuration.Load()),
		Buckets: make([]uint64, len(m.latencyBuckets)),
	}
	if s.Count > 0 {
		s.Avg = time.Duration(m.TotalDuration.Load() / s.Count)
	}
	for i := range m.latencyBuckets {
		s.Buckets[i] = m.latencyBuckets[i].Load()
	}
	return s
}

// Bottlenecks reports routes whose average latency or error rate is above
// the monitor's thresholds
func (pm *PerformanceMonitor) Bottlenecks() []Bottleneck {
	bottlenecks := make([]Bottleneck, 0)

	for _, s := range pm.Snapshots() {
		if s.Count == 0 {
			continue
		}

		if s.Avg > pm.SlowThreshold {
			bottlenecks = append(bottlenecks, Bottleneck{
				Type:     "latency",
				Location: s.Name,
				Severity: 8,
				Impact:   100.0,
				Details:  fmt.Sprintf("High latency (%v avg)", s.Avg),
			})
		}

		rate := float64(s.Errors) / float64(s.Count)
		if s.Errors > 0 && rate > pm.ErrorRateThreshold {
			bottlenecks = append(bottlenecks, Bottleneck{
				Type:     "errors",
				Location: s.Name,
				Severity: 10,
				Impact:   rate * 100,
				Details:  fmt.Sprintf("%.1f%% error rate", rate*100),
			})
		}
	}

	return bottlenecks
}
