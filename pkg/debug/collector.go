package debug

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nextcore/tessera/pkg/resolve"
)

// StatsCollector exports engine counters as Prometheus metrics.
type StatsCollector struct {
	stats *resolve.Stats

	resolutions        *prometheus.Desc
	reconciled         *prometheus.Desc
	renderCacheHits    *prometheus.Desc
	layoutCacheHits    *prometheus.Desc
	layoutIncompatible *prometheus.Desc
	layoutDiffReuses   *prometheus.Desc
	interruptions      *prometheus.Desc
	resumes            *prometheus.Desc
	measures           *prometheus.Desc
}

// NewStatsCollector wraps a stats instance.
func NewStatsCollector(stats *resolve.Stats) *StatsCollector {
	return &StatsCollector{
		stats: stats,
		resolutions: prometheus.NewDesc("tessera_resolutions_total",
			"Components resolved across all passes.", nil, nil),
		reconciled: prometheus.NewDesc("tessera_reconciled_subtrees_total",
			"Subtrees reused verbatim by reconciliation.", nil, nil),
		renderCacheHits: prometheus.NewDesc("tessera_render_cache_hits_total",
			"Speculative nodes consumed from the render-phase cache.", nil, nil),
		layoutCacheHits: prometheus.NewDesc("tessera_layout_cache_hits_total",
			"Measurements answered by a compatible cached result.", nil, nil),
		layoutIncompatible: prometheus.NewDesc("tessera_layout_cache_incompatible_total",
			"Cached results evicted for spec incompatibility.", nil, nil),
		layoutDiffReuses: prometheus.NewDesc("tessera_layout_diff_reuses_total",
			"Leaf measurements answered from the committed diff tree.", nil, nil),
		interruptions: prometheus.NewDesc("tessera_interruptions_total",
			"Passes parked by an interrupt request.", nil, nil),
		resumes: prometheus.NewDesc("tessera_resumes_total",
			"Partial trees resumed to completion.", nil, nil),
		measures: prometheus.NewDesc("tessera_measures_total",
			"Underlying measurement calls.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.resolutions
	ch <- c.reconciled
	ch <- c.renderCacheHits
	ch <- c.layoutCacheHits
	ch <- c.layoutIncompatible
	ch <- c.layoutDiffReuses
	ch <- c.interruptions
	ch <- c.resumes
	ch <- c.measures
}

// Collect implements prometheus.Collector.
func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.stats.Snapshot()
	counter := func(desc *prometheus.Desc, v int64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v))
	}
	counter(c.resolutions, snap.Resolutions)
	counter(c.reconciled, snap.ReconciledSubtrees)
	counter(c.renderCacheHits, snap.RenderCacheHits)
	counter(c.layoutCacheHits, snap.LayoutCacheHits)
	counter(c.layoutIncompatible, snap.LayoutCacheIncompatible)
	counter(c.layoutDiffReuses, snap.LayoutDiffReuses)
	counter(c.interruptions, snap.Interruptions)
	counter(c.resumes, snap.Resumes)
	counter(c.measures, snap.Measures)
}
