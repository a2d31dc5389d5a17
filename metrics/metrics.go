// Package metrics exports query session activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/poiesic/actionbar/core"
	"github.com/poiesic/actionbar/interpret"
	"github.com/poiesic/actionbar/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "actionbar"

// Collector counts query session events. It implements session.Monitor
// and interpret.Observer.
type Collector struct {
	queries    prometheus.Counter
	resets     prometheus.Counter
	candidates *prometheus.CounterVec
	nouns      prometheus.Counter
	failures   *prometheus.CounterVec
	errors     prometheus.Counter
	latency    prometheus.Histogram
}

var (
	_ session.Monitor    = (*Collector)(nil)
	_ interpret.Observer = (*Collector)(nil)
)

// NewCollector creates a collector registering its metrics with reg.
// A nil reg leaves the metrics unregistered.
func NewCollector(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		queries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "queries_total",
			Help:      "Distinct non-empty queries interpreted",
		}),
		resets: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "resets_total",
			Help:      "Start-of-query resets, including empty queries",
		}),
		// Labels: status (accepted, stale)
		candidates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "candidates_total",
			Help:      "Scored actions offered to the aggregator by status",
		}, []string{"status"}),
		nouns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "noun_matches_total",
			Help:      "Noun matches from noun-first interpretation",
		}),
		// Labels: strategy (verb-first, noun-first)
		failures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "match",
			Name:      "failures_total",
			Help:      "Matcher calls that failed and were treated as no matches",
		}, []string{"strategy"}),
		errors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "errors_total",
			Help:      "Queries aborted by an internal consistency failure",
		}),
		latency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "query_duration_seconds",
			Help:      "Time from query start until its streams drained",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (c *Collector) QueryStarted(_ uint64, _ string) { c.queries.Inc() }
func (c *Collector) QueryReset(_ uint64)             { c.resets.Inc() }

func (c *Collector) CandidateAccepted(_ uint64, _ core.ScoredAction) {
	c.candidates.WithLabelValues("accepted").Inc()
}

func (c *Collector) StaleDropped(_ uint64) {
	c.candidates.WithLabelValues("stale").Inc()
}

func (c *Collector) NounMatched(_ uint64, _ core.NounMatch) { c.nouns.Inc() }

func (c *Collector) QueryFinished(_ uint64, _ int, elapsed time.Duration, err error) {
	c.latency.Observe(elapsed.Seconds())
	if err != nil {
		c.errors.Inc()
	}
}

func (c *Collector) MatcherFailed(strategy string, _ error) {
	c.failures.WithLabelValues(strategy).Inc()
}
