package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PollerMetrics captures collection-loop health signals.
type PollerMetrics struct {
	ticks         prometheus.Counter
	tickDuration  prometheus.Histogram
	gatedSkips    *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	storeFailures *prometheus.CounterVec
	samplesStored *prometheus.CounterVec
	published     *prometheus.CounterVec
}

var (
	pollerMetricsOnce sync.Once
	pollerMetrics     *PollerMetrics
)

// Poller returns the singleton poller metrics registry.
func Poller() *PollerMetrics {
	pollerMetricsOnce.Do(func() {
		pollerMetrics = newPollerMetrics(prometheus.DefaultRegisterer)
	})
	return pollerMetrics
}

func newPollerMetrics(reg prometheus.Registerer) *PollerMetrics {
	factory := promauto.With(reg)
	return &PollerMetrics{
		ticks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "pulseboard",
			Subsystem: "poller",
			Name:      "ticks_total",
			Help:      "Completed poll ticks.",
		}),
		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pulseboard",
			Subsystem: "poller",
			Name:      "tick_duration_seconds",
			Help:      "Wall time of a full poll tick.",
			Buckets:   prometheus.DefBuckets,
		}),
		gatedSkips: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulseboard",
			Subsystem: "poller",
			Name:      "gated_skips_total",
			Help:      "Metrics skipped because nobody tracks them.",
		}, []string{"metric"}),
		fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulseboard",
			Subsystem: "poller",
			Name:      "source_fetches_total",
			Help:      "Outbound telemetry source fetches.",
		}, []string{"metric"}),
		fetchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulseboard",
			Subsystem: "poller",
			Name:      "source_fetch_failures_total",
			Help:      "Failed or empty source fetches.",
		}, []string{"metric"}),
		storeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulseboard",
			Subsystem: "poller",
			Name:      "store_failures_total",
			Help:      "Sample appends rejected by storage.",
		}, []string{"metric"}),
		samplesStored: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulseboard",
			Subsystem: "poller",
			Name:      "samples_stored_total",
			Help:      "Samples appended to the store.",
		}, []string{"metric"}),
		published: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pulseboard",
			Subsystem: "poller",
			Name:      "events_published_total",
			Help:      "Live events handed to the broadcast hub.",
		}, []string{"metric"}),
	}
}

func (m *PollerMetrics) IncTick()                         { m.ticks.Inc() }
func (m *PollerMetrics) ObserveTick(d time.Duration)      { m.tickDuration.Observe(d.Seconds()) }
func (m *PollerMetrics) IncGatedSkip(metric string)       { m.gatedSkips.WithLabelValues(metric).Inc() }
func (m *PollerMetrics) IncFetch(metric string)           { m.fetches.WithLabelValues(metric).Inc() }
func (m *PollerMetrics) IncFetchFailure(metric string)    { m.fetchFailures.WithLabelValues(metric).Inc() }
func (m *PollerMetrics) IncStoreFailure(metric string)    { m.storeFailures.WithLabelValues(metric).Inc() }
func (m *PollerMetrics) IncSampleStored(metric string)    { m.samplesStored.WithLabelValues(metric).Inc() }
func (m *PollerMetrics) IncEventPublished(metric string)  { m.published.WithLabelValues(metric).Inc() }
