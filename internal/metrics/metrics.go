package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline counters exposed on /metrics.
type Metrics struct {
	Runs           *prometheus.CounterVec
	AdmittedItems  prometheus.Counter
	NotifyFailures prometheus.Counter
	RunDuration    prometheus.Histogram
}

// New registers the collectors on reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vvnews",
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"status"}),
		AdmittedItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vvnews",
			Name:      "admitted_items_total",
			Help:      "Items that passed filtering and deduplication.",
		}),
		NotifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vvnews",
			Name:      "notify_failures_total",
			Help:      "Runs where every notification provider failed.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vvnews",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full pipeline run.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	reg.MustRegister(m.Runs, m.AdmittedItems, m.NotifyFailures, m.RunDuration)
	return m
}
