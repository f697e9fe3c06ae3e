// SPDX-License-Identifier: MIT

package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Schaudge/mothur/optifit"
)

// Namespace prefixes every metric name.
const Namespace = "optifit"

// Recorder collects per-stage convergence metrics.
type Recorder struct {
	reg *prometheus.Registry

	passes   *prometheus.CounterVec
	moves    *prometheus.CounterVec
	value    *prometheus.GaugeVec
	otus     *prometheus.GaugeVec
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
}

// NewRecorder registers the collectors on a fresh registry.
func NewRecorder() *Recorder {
	var (
		reg = prometheus.NewRegistry()
		f   = promauto.With(reg)
	)

	return &Recorder{
		reg: reg,
		passes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "passes_total",
			Help:      "Number of completed update passes.",
		}, []string{"stage"}),
		moves: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "moves_total",
			Help:      "Number of sequences relocated across all passes.",
		}, []string{"stage"}),
		value: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "metric_value",
			Help:      "Objective value after the latest pass.",
		}, []string{"stage"}),
		otus: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "otus",
			Help:      "Number of OTUs after the latest pass.",
		}, []string{"stage"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "pass_duration_seconds",
			Help:      "Wall time of a single update pass.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"stage"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "runs_total",
			Help:      "Finished clustering runs by outcome.",
		}, []string{"stage", "outcome"}),
	}
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Observe records one convergence step. Step 0 (the initialized state) only
// sets the gauges.
func (r *Recorder) Observe(stage string, st optifit.IterationStats) {
	r.value.WithLabelValues(stage).Set(st.Metric)
	r.otus.WithLabelValues(stage).Set(float64(st.NumBins))
	if st.Iter == 0 {
		return
	}
	r.passes.WithLabelValues(stage).Inc()
	r.moves.WithLabelValues(stage).Add(float64(st.Moves))
	r.duration.WithLabelValues(stage).Observe(st.Elapsed.Seconds())
}

// Finish counts a run as "converged", "capped" or "failed".
func (r *Recorder) Finish(stage string, res optifit.ConvergeResult, err error) {
	outcome := "converged"
	switch {
	case err != nil:
		outcome = "failed"
	case !res.Converged:
		outcome = "capped"
	}
	r.runs.WithLabelValues(stage, outcome).Inc()
}

// Hook returns an OnIteration callback recording under stage, chained
// before next when next is non-nil.
func (r *Recorder) Hook(stage string, next func(optifit.IterationStats) error) func(optifit.IterationStats) error {
	return func(st optifit.IterationStats) error {
		r.Observe(stage, st)
		if next == nil {
			return nil
		}

		return next(st)
	}
}

// WriteTextfile writes the registry to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
