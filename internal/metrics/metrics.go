// Package metrics exports script job and image match counters for
// Prometheus and serves them over HTTP while a script runs.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Match outcomes
const (
	MatchFound   = "found"
	MatchMissing = "missing"
	MatchError   = "error"
)

var (
	initOnce sync.Once

	jobsTotalCounter      *prometheus.CounterVec
	jobDurationMetric     prometheus.Histogram
	matchesTotalCounter   *prometheus.CounterVec
	matchDurationMetric   prometheus.Histogram
	replayedEventsCounter prometheus.Counter
)

// Init registers metrics on the default Prometheus registry exactly once.
func Init() {
	initOnce.Do(func() {
		jobsTotalCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automaton_script_jobs_total",
				Help: "Total number of script jobs by terminal state.",
			},
			[]string{"state"},
		)

		jobDurationMetric = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "automaton_script_job_duration_seconds",
				Help:    "Wall time of script jobs in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		)

		matchesTotalCounter = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automaton_image_matches_total",
				Help: "Total number of template searches by outcome.",
			},
			[]string{"result"},
		)

		matchDurationMetric = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "automaton_image_match_duration_seconds",
				Help:    "Duration of template searches in seconds, waits included.",
				Buckets: prometheus.DefBuckets,
			},
		)

		replayedEventsCounter = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "automaton_replayed_events_total",
				Help: "Total number of input events applied by playback.",
			},
		)

		prometheus.MustRegister(
			jobsTotalCounter,
			jobDurationMetric,
			matchesTotalCounter,
			matchDurationMetric,
			replayedEventsCounter,
		)

		// Make every label visible at /metrics before the first increment
		for _, state := range []string{"completed", "failed", "cancelled", "killed"} {
			jobsTotalCounter.WithLabelValues(state)
		}
		for _, result := range []string{MatchFound, MatchMissing, MatchError} {
			matchesTotalCounter.WithLabelValues(result)
		}
	})
}

// ObserveJob records a job that reached a terminal state
func ObserveJob(state string, d time.Duration) {
	Init()
	jobsTotalCounter.WithLabelValues(state).Inc()
	jobDurationMetric.Observe(d.Seconds())
}

// ObserveMatch records one detect or wait call
func ObserveMatch(result string, d time.Duration) {
	Init()
	matchesTotalCounter.WithLabelValues(result).Inc()
	matchDurationMetric.Observe(d.Seconds())
}

// AddReplayedEvents counts events applied by playback
func AddReplayedEvents(n int) {
	Init()
	replayedEventsCounter.Add(float64(n))
}
