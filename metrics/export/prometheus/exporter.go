package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrEthical07/campusdesk"
	"github.com/MrEthical07/campusdesk/metrics/export/internaldefs"
)

// Source is what the collector reads on every scrape. [campusdesk.Desk] satisfies it.
type Source interface {
	MetricsSnapshot() campusdesk.MetricsSnapshot
	NoticesDropped() uint64
	SessionUpdatesDropped() uint64
}

type counterDesc struct {
	id   campusdesk.MetricID
	desc *prometheus.Desc
}

type histogramDesc struct {
	id   campusdesk.MetricID
	desc *prometheus.Desc
}

// Collector exposes a [Source] as constant metrics.
type Collector struct {
	source                Source
	counters              []counterDesc
	histograms            []histogramDesc
	noticesDropped        *prometheus.Desc
	sessionUpdatesDropped *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector reading source.
func NewCollector(source Source) *Collector {
	c := &Collector{
		source:     source,
		counters:   make([]counterDesc, 0, len(internaldefs.CounterDefs)),
		histograms: make([]histogramDesc, 0, len(internaldefs.HistogramDefs)),
		noticesDropped: prometheus.NewDesc(
			internaldefs.NoticesDroppedName, internaldefs.NoticesDroppedHelp, nil, nil),
		sessionUpdatesDropped: prometheus.NewDesc(
			internaldefs.SessionUpdatesDroppedName, internaldefs.SessionUpdatesDroppedHelp, nil, nil),
	}
	for _, def := range internaldefs.CounterDefs {
		c.counters = append(c.counters, counterDesc{
			id:   def.ID,
			desc: prometheus.NewDesc(def.Name, def.Help, nil, nil),
		})
	}
	for _, def := range internaldefs.HistogramDefs {
		c.histograms = append(c.histograms, histogramDesc{
			id:   def.ID,
			desc: prometheus.NewDesc(def.Name, def.Help, nil, nil),
		})
	}
	return c
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.counters {
		ch <- d.desc
	}
	for _, d := range c.histograms {
		ch <- d.desc
	}
	ch <- c.noticesDropped
	ch <- c.sessionUpdatesDropped
}

// Collect implements prometheus.Collector. Counters absent from the snapshot, as with
// metrics disabled, are skipped.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c == nil || c.source == nil {
		return
	}
	snapshot := c.source.MetricsSnapshot()

	for _, d := range c.counters {
		v, ok := snapshot.Counters[d.id]
		if !ok {
			continue
		}
		ch <- prometheus.MustNewConstMetric(d.desc, prometheus.CounterValue, float64(v))
	}

	for _, d := range c.histograms {
		raw, ok := snapshot.Histograms[d.id]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		buckets := make(map[float64]uint64, len(internaldefs.HistogramUpperBounds))
		for i, le := range internaldefs.HistogramUpperBounds {
			buckets[le] = cumulative[i]
		}
		count := cumulative[len(cumulative)-1]
		// The snapshot carries no sum.
		ch <- prometheus.MustNewConstHistogram(d.desc, count, 0, buckets)
	}

	ch <- prometheus.MustNewConstMetric(c.noticesDropped, prometheus.CounterValue, float64(c.source.NoticesDropped()))
	ch <- prometheus.MustNewConstMetric(c.sessionUpdatesDropped, prometheus.CounterValue, float64(c.source.SessionUpdatesDropped()))
}

// NewRegistry returns a private registry holding a [Collector] for source plus the Go
// and process collectors.
func NewRegistry(source Source) *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(NewCollector(source))
	return registry
}

// Handler serves the metrics of source in the Prometheus exposition format.
func Handler(source Source) http.Handler {
	return promhttp.HandlerFor(NewRegistry(source), promhttp.HandlerOpts{})
}
