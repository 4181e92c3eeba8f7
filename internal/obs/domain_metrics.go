package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// ProposalsSavedTotal counts proposal create/update outcomes.
	ProposalsSavedTotal *prometheus.CounterVec
	// DraftAutosaveTotal counts draft autosave outcomes.
	DraftAutosaveTotal *prometheus.CounterVec
	// QuotesComputedTotal counts quote computations by source.
	QuotesComputedTotal *prometheus.CounterVec
	// QuoteCacheTotal counts quote cache lookups by result.
	QuoteCacheTotal *prometheus.CounterVec
	// QuoteBuildLatency records quote assembly latency in milliseconds.
	QuoteBuildLatency prometheus.Histogram
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		ProposalsSavedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_saved_total",
			Help:      "Count of proposal save outcomes.",
		}, []string{"operation", "result"})
		DraftAutosaveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "draft_autosave_total",
			Help:      "Count of draft autosave outcomes.",
		}, []string{"result"})
		QuotesComputedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_computed_total",
			Help:      "Count of quote computations by request source.",
		}, []string{"source", "result"})
		QuoteCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_cache_total",
			Help:      "Count of quote cache lookups by result.",
		}, []string{"result"})
		QuoteBuildLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_build_duration_ms",
			Help:      "Latency for assembling a full quotation in milliseconds.",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 500},
		})

		mustRegisterCollector(reg, ProposalsSavedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				ProposalsSavedTotal = v
			}
		})
		mustRegisterCollector(reg, DraftAutosaveTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				DraftAutosaveTotal = v
			}
		})
		mustRegisterCollector(reg, QuotesComputedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuotesComputedTotal = v
			}
		})
		mustRegisterCollector(reg, QuoteCacheTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteCacheTotal = v
			}
		})
		mustRegisterCollector(reg, QuoteBuildLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Histogram); ok {
				QuoteBuildLatency = v
			}
		})
	})
}
