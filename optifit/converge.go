// SPDX-License-Identifier: MIT

package optifit

import (
	"context"
	"math"
	"time"
)

// ConvergeResult summarizes a Converge run.
type ConvergeResult struct {
	Metric    float64
	Iters     int
	Converged bool
}

// Converge calls Update until the metric changes by at most o.Delta or
// o.MaxIters passes have run. The hook sees the initialized state as
// iteration 0, then every pass.
func Converge(ctx context.Context, s *State, o ConvergeOptions) (ConvergeResult, error) {
	if err := s.ready(phaseReady); err != nil {
		return ConvergeResult{}, err
	}

	var (
		res   = ConvergeResult{Metric: s.Value()}
		delta = math.Inf(1)
		start time.Time
		old   float64
		err   error
	)
	if err = s.observe(o, 0, 0, math.NaN(), res.Metric); err != nil {
		return res, err
	}
	for delta > o.Delta && res.Iters < o.MaxIters {
		start = time.Now()
		old = res.Metric
		if res.Metric, err = s.Update(ctx); err != nil {
			return res, err
		}
		delta = math.Abs(old - res.Metric)
		res.Iters++
		s.opts.logger.Debug("optifit: pass", "iter", res.Iters, "metric", res.Metric,
			"delta", delta, "moves", s.moves, "otus", s.NumBins())
		if err = s.observe(o, res.Iters, time.Since(start), delta, res.Metric); err != nil {
			return res, err
		}
	}
	res.Converged = delta <= o.Delta

	return res, nil
}

func (s *State) observe(o ConvergeOptions, iter int, elapsed time.Duration, delta, value float64) error {
	if o.OnIteration == nil {
		return nil
	}
	var moves int
	if iter > 0 {
		moves = s.moves
	}

	return o.OnIteration(IterationStats{
		Iter:    iter,
		Elapsed: elapsed,
		Metric:  value,
		Delta:   delta,
		NumBins: s.NumBins(),
		Moves:   moves,
		Stats:   s.Stats(),
	})
}
