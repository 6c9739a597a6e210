package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// BetsSubmitted counts bets accepted into the dispatcher queue.
	BetsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dotabet_bets_submitted_total",
		Help: "Bets accepted into the settlement queue",
	})

	// BetsDropped counts bets turned away at submission time.
	BetsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dotabet_bets_dropped_total",
		Help: "Bets rejected because the queue was full",
	})

	// Outcomes counts terminal pipeline outcomes by kind and failure code.
	Outcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dotabet_outcomes_total",
		Help: "Terminal bet outcomes",
	}, []string{"kind", "code"})

	// QueueDepth tracks the number of bets waiting for a worker.
	QueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dotabet_queue_depth",
		Help: "Bets waiting in the dispatcher queue",
	})

	// InFlight tracks pipelines currently executing.
	InFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dotabet_pipelines_in_flight",
		Help: "Bet pipelines currently executing",
	})

	// PipelineDuration observes wall-clock time from dequeue to outcome.
	// Buckets span seconds to hours; a bet normally waits for a full match.
	PipelineDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dotabet_pipeline_duration_seconds",
		Help:    "Wall-clock pipeline execution time",
		Buckets: []float64{1, 10, 60, 300, 900, 1800, 3600, 7200, 14400},
	})

	// RecoveredBets counts in-play records refunded by the startup sweep.
	RecoveredBets = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dotabet_recovered_bets_total",
		Help: "In-play bets refunded during startup recovery",
	})
)

func init() {
	prometheus.MustRegister(
		BetsSubmitted,
		BetsDropped,
		Outcomes,
		QueueDepth,
		InFlight,
		PipelineDuration,
		RecoveredBets,
	)
}
