package migration

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "kontent_migrator"

// Collector is a prometheus.Collector with migration metrics.
type Collector struct {
	itemsTotal   *prometheus.CounterVec
	itemDuration prometheus.Histogram
	runsTotal    prometheus.Counter
	inFlight     prometheus.Gauge
}

// NewMetricsCollector returns a new Collector.
func NewMetricsCollector() *Collector {
	return &Collector{
		itemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "items_total",
				Help:      "The number of migrated items by outcome.",
			}, []string{"status"},
		),
		itemDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "item_duration_seconds",
				Help:      "The time taken to migrate one item, excluding pacing.",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),
		runsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "runs_total",
				Help:      "The number of started migration runs.",
			},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "runs_in_progress",
				Help:      "The number of migration runs currently executing.",
			},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.itemsTotal.Describe(ch)
	c.itemDuration.Describe(ch)
	c.runsTotal.Describe(ch)
	c.inFlight.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.itemsTotal.Collect(ch)
	c.itemDuration.Collect(ch)
	c.runsTotal.Collect(ch)
	c.inFlight.Collect(ch)
}

func (c *Collector) runStarted() {
	if c == nil {
		return
	}

	c.runsTotal.Inc()
	c.inFlight.Inc()
}

func (c *Collector) runFinished() {
	if c == nil {
		return
	}

	c.inFlight.Dec()
}

func (c *Collector) itemDone(status ItemStatus, seconds float64) {
	if c == nil {
		return
	}

	c.itemsTotal.WithLabelValues(status.String()).Inc()
	c.itemDuration.Observe(seconds)
}
