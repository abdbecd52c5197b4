// Package metrics exposes lifecycle hook timings and discovery results as
// Prometheus metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/toyz/lifecycle/pkg/lifecycle"
)

// Collector implements lifecycle.Observer on top of Prometheus collectors.
type Collector struct {
	hookDuration *prometheus.HistogramVec
	hookFailures *prometheus.CounterVec
	discovered   *prometheus.GaugeVec
	skipped      prometheus.Counter
}

var _ lifecycle.Observer = (*Collector)(nil)

// NewCollector creates the lifecycle metrics and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		hookDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lifecycle",
			Name:      "hook_duration_seconds",
			Help:      "Duration of participant lifecycle hooks.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"phase", "participant", "priority"}),
		hookFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lifecycle",
			Name:      "hook_failures_total",
			Help:      "Participant lifecycle hooks that returned an error.",
		}, []string{"phase", "participant"}),
		discovered: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lifecycle",
			Name:      "participants_discovered",
			Help:      "Participants collected by the last discovery, by strategy.",
		}, []string{"strategy"}),
		skipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lifecycle",
			Name:      "discovery_skipped_total",
			Help:      "Scan candidates skipped because they could not be instantiated.",
		}),
	}

	for _, collector := range []prometheus.Collector{c.hookDuration, c.hookFailures, c.discovered, c.skipped} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Discovered records the discovery outcome.
func (c *Collector) Discovered(strategy lifecycle.Strategy, count int, skipped []error) {
	c.discovered.WithLabelValues(string(strategy)).Set(float64(count))
	c.skipped.Add(float64(len(skipped)))
}

// HookStarted is a no-op; durations are recorded when the hook finishes.
func (c *Collector) HookStarted(lifecycle.Phase, string, int) {}

// HookFinished records the hook duration and any failure.
func (c *Collector) HookFinished(phase lifecycle.Phase, participant string, priority int, elapsed time.Duration, err error) {
	c.hookDuration.WithLabelValues(string(phase), participant, strconv.Itoa(priority)).Observe(elapsed.Seconds())
	if err != nil {
		c.hookFailures.WithLabelValues(string(phase), participant).Inc()
	}
}
