package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// promCollector counts each search in memory and publishes the totals to
// Prometheus once per search, when its tracker completes.
type promCollector struct {
	searches    *prometheus.CounterVec
	expansions  prometheus.Counter
	evaluations prometheus.Counter
	duration    prometheus.Histogram
}

// NewPrometheusCollector registers the search metrics with reg.
func NewPrometheusCollector(reg prometheus.Registerer) Collector {
	factory := promauto.With(reg)
	return &promCollector{
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "valves_searches_total",
			Help: "Completed searches by result",
		}, []string{"result"}),
		expansions: factory.NewCounter(prometheus.CounterOpts{
			Name: "valves_search_expansions_total",
			Help: "Recursive search calls across all searches",
		}),
		evaluations: factory.NewCounter(prometheus.CounterOpts{
			Name: "valves_search_evaluations_total",
			Help: "Candidate paths scored across all searches",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "valves_search_duration_seconds",
			Help:    "Wall time of a single search",
			Buckets: prometheus.ExponentialBuckets(0.0001, 10, 8),
		}),
	}
}

func (m *promCollector) Start(budget int) Tracker {
	return &promTracker{tracker: newTracker(budget), parent: m}
}

type promTracker struct {
	*tracker
	parent *promCollector
}

func (m *promTracker) Complete() SearchMetric {
	metric := m.tracker.Complete()

	result := "ok"
	if metric.Aborted {
		result = "aborted"
	}
	m.parent.searches.WithLabelValues(result).Inc()
	m.parent.expansions.Add(float64(metric.Expansions))
	m.parent.evaluations.Add(float64(metric.Evaluations))
	m.parent.duration.Observe(metric.Duration.Seconds())

	return metric
}
