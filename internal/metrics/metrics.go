// Package metrics exposes Prometheus counters, gauges, and histograms for
// the signal bus, the Coordinator, and the frame tree. Registration is
// lazy, gated by IsEnabled, so a process (or test) that never calls
// InitRegistry pays nothing — every Record* call below becomes a cheap
// nil check, matching the teacher's metrics-optional pattern.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
	m        *metricsSet
)

type metricsSet struct {
	signalsEmitted    *prometheus.CounterVec
	signalsDropped    *prometheus.CounterVec
	coordinatorHoldMs prometheus.Histogram
	frameCount        prometheus.Gauge
	surfacesReady     prometheus.Counter
	surfacesDestroyed prometheus.Counter
}

// InitRegistry creates and returns a fresh Prometheus registry, registering
// all perceptia metrics against it. Call once at process startup before any
// Record* function is used; subsequent calls replace the active registry
// (tests rely on this to get an isolated registry per test).
func InitRegistry() *prometheus.Registry {
	mu.Lock()
	defer mu.Unlock()

	reg := prometheus.NewRegistry()
	registry = reg
	m = &metricsSet{
		signalsEmitted: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "perceptia_signals_emitted_total",
				Help: "Total number of signals emitted on the bus, by signal id.",
			},
			[]string{"signal"},
		),
		signalsDropped: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "perceptia_signals_dropped_total",
				Help: "Total number of signal deliveries dropped after a full receiver queue retried once.",
			},
			[]string{"signal"},
		),
		coordinatorHoldMs: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "perceptia_coordinator_lock_hold_milliseconds",
				Help:    "Duration the Coordinator's mutex is held per call.",
				Buckets: prometheus.DefBuckets,
			},
		),
		frameCount: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "perceptia_frame_count",
				Help: "Current number of live frames in the arena.",
			},
		),
		surfacesReady: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "perceptia_surfaces_ready_total",
				Help: "Total number of surfaces that reached SURFACE_READY.",
			},
		),
		surfacesDestroyed: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "perceptia_surfaces_destroyed_total",
				Help: "Total number of surfaces destroyed.",
			},
		),
	}
	return reg
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return m != nil
}

// GetRegistry returns the active registry, or nil if metrics are disabled.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}

func current() *metricsSet {
	mu.RLock()
	defer mu.RUnlock()
	return m
}

// RecordSignalEmitted increments the emitted counter for signal.
func RecordSignalEmitted(signal string) {
	if ms := current(); ms != nil {
		ms.signalsEmitted.WithLabelValues(signal).Inc()
	}
}

// RecordSignalDropped increments the dropped counter for signal.
func RecordSignalDropped(signal string) {
	if ms := current(); ms != nil {
		ms.signalsDropped.WithLabelValues(signal).Inc()
	}
}

// ObserveCoordinatorHold records how long a Coordinator call held its mutex.
func ObserveCoordinatorHold(d time.Duration) {
	if ms := current(); ms != nil {
		ms.coordinatorHoldMs.Observe(float64(d.Microseconds()) / 1000.0)
	}
}

// SetFrameCount sets the current live-frame gauge.
func SetFrameCount(n int) {
	if ms := current(); ms != nil {
		ms.frameCount.Set(float64(n))
	}
}

// RecordSurfaceReady increments the surfaces-ready counter.
func RecordSurfaceReady() {
	if ms := current(); ms != nil {
		ms.surfacesReady.Inc()
	}
}

// RecordSurfaceDestroyed increments the surfaces-destroyed counter.
func RecordSurfaceDestroyed() {
	if ms := current(); ms != nil {
		ms.surfacesDestroyed.Inc()
	}
}
