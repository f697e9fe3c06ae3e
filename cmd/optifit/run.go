// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Schaudge/mothur/closeness"
	"github.com/Schaudge/mothur/internal/config"
	"github.com/Schaudge/mothur/metric"
	"github.com/Schaudge/mothur/optifit"
	"github.com/Schaudge/mothur/otuio"
	"github.com/Schaudge/mothur/telemetry"
)

var errNoColumn = errors.New("a column distance file is required (--column)")

// run carries everything a subcommand needs after flag resolution.
type run struct {
	cfg    config.Config
	kind   metric.Kind
	log    *slog.Logger
	runID  string
	rec    *telemetry.Recorder
	prefix string
	out    io.Writer
}

// newRun resolves the configuration of cmd and sets up logging and telemetry.
func (o *cliOptions) newRun(cmd *cobra.Command) (*run, error) {
	cfg, err := o.resolve(cmd)
	if err != nil {
		return nil, err
	}
	kind, err := cfg.MetricKind()
	if err != nil {
		return nil, err
	}
	log, id, err := o.logger(cmd, cfg)
	if err != nil {
		return nil, err
	}

	return &run{
		cfg:    cfg,
		kind:   kind,
		log:    log,
		runID:  id,
		rec:    telemetry.NewRecorder(),
		prefix: o.prefix(),
		out:    cmd.OutOrStdout(),
	}, nil
}

// replicate is one independent optimization with its own seed.
type replicate struct {
	seed  int64
	state *optifit.State
	res   optifit.ConvergeResult
	steps []optifit.IterationStats
	sub   *[]optifit.IterationStats // open-mode sub-clustering of unfitted queries
}

// initFunc seeds a fresh State for one replicate.
type initFunc func(ctx context.Context, s *optifit.State) error

// readColumn loads the distance file and returns its names and the close pairs.
func (r *run) readColumn(path string) (otuio.Column, error) {
	if path == "" {
		return otuio.Column{}, errNoColumn
	}
	rc, err := otuio.Open(path)
	if err != nil {
		return otuio.Column{}, err
	}
	defer rc.Close()

	col, err := otuio.ReadColumn(rc, r.cfg.Cutoff)
	if err != nil {
		return otuio.Column{}, fmt.Errorf("%s: %w", path, err)
	}
	r.log.Info("read distances", "file", path, "seqs", len(col.Names), "close_pairs", len(col.Dists))

	return col, nil
}

// optimize runs cfg.Replicates independent optimizations of o concurrently
// and returns the one with the highest metric; the lowest replicate wins ties.
func (r *run) optimize(ctx context.Context, o closeness.Oracle, stage string, init initFunc) (replicate, error) {
	var (
		n       = r.cfg.Replicates
		results = make([]replicate, n)
		g, gctx = errgroup.WithContext(ctx)
	)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < n; i++ {
		seed := r.cfg.Seed
		if i > 0 {
			seed = optifit.DeriveSeed(r.cfg.Seed, uint64(i))
		}
		g.Go(func() error {
			rep, err := r.runReplicate(gctx, o, stage, seed, init)
			if err != nil {
				return fmt.Errorf("replicate %d: %w", i, err)
			}
			results[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return replicate{}, err
	}

	best := 0
	for i := 1; i < n; i++ {
		if results[i].res.Metric > results[best].res.Metric {
			best = i
		}
	}
	if n > 1 {
		r.log.Info("selected best replicate", "replicate", best, "seed", results[best].seed,
			"metric", results[best].res.Metric)
	}

	return results[best], nil
}

func (r *run) runReplicate(ctx context.Context, o closeness.Oracle, stage string, seed int64, init initFunc) (replicate, error) {
	var (
		rep = replicate{seed: seed, sub: new([]optifit.IterationStats)}
		log = r.log.With("stage", stage, "seed", seed)
		sub = r.cfg.ConvergeOptions()
		unf = rep.sub
	)
	sub.OnIteration = r.rec.Hook("unfitted", func(st optifit.IterationStats) error {
		*unf = append(*unf, st)
		return nil
	})

	s, err := optifit.New(o, r.kind,
		optifit.WithSeed(seed),
		optifit.WithShuffle(r.cfg.Shuffle),
		optifit.WithLogger(log),
		optifit.WithSubClustering(sub),
	)
	if err != nil {
		return rep, err
	}
	if err = init(ctx, s); err != nil {
		return rep, err
	}

	co := r.cfg.ConvergeOptions()
	co.OnIteration = r.rec.Hook(stage, func(st optifit.IterationStats) error {
		rep.steps = append(rep.steps, st)
		log.Debug("iteration", "iter", st.Iter, "metric", st.Metric, "otus", st.NumBins, "moves", st.Moves)
		return nil
	})
	rep.res, err = optifit.Converge(ctx, s, co)
	r.rec.Finish(stage, rep.res, err)
	if err != nil {
		return rep, err
	}
	log.Info("converged", "iters", rep.res.Iters, "metric", rep.res.Metric, "converged", rep.res.Converged)
	rep.state = s

	return rep, nil
}

// writeSteps writes the iteration table of rep, followed by the rows of
// any sub-clustering of unfitted queries under label-unfitted.
func (r *run) writeSteps(path, label string, rep replicate) error {
	w, err := otuio.Create(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# run_id=%s seed=%d metric=%s\n", r.runID, rep.seed, r.kind)
	sw, err := otuio.NewStepWriter(w, label, config.FormatCutoff(r.cfg.Cutoff))
	if err != nil {
		w.Close()
		return err
	}
	for _, st := range rep.steps {
		if err = sw.Write(st); err != nil {
			w.Close()
			return err
		}
	}
	if rep.sub != nil && len(*rep.sub) > 0 {
		sw.SetLabel(label + "-unfitted")
		for _, st := range *rep.sub {
			if err = sw.Write(st); err != nil {
				w.Close()
				return err
			}
		}
	}
	if err = sw.Flush(); err != nil {
		w.Close()
		return err
	}

	return r.done(path, w.Close())
}

func (r *run) writeList(path string, l otuio.List) error {
	w, err := otuio.Create(path)
	if err != nil {
		return err
	}
	if err = otuio.WriteList(w, l); err != nil {
		w.Close()
		return err
	}

	return r.done(path, w.Close())
}

func (r *run) writeAccnos(path string, names []string) error {
	w, err := otuio.Create(path)
	if err != nil {
		return err
	}
	if err = otuio.WriteAccnos(w, names); err != nil {
		w.Close()
		return err
	}

	return r.done(path, w.Close())
}

// finish writes the metrics textfile when configured.
func (r *run) finish() error {
	if r.cfg.MetricsFile == "" {
		return nil
	}

	return r.done(r.cfg.MetricsFile, r.rec.WriteTextfile(r.cfg.MetricsFile))
}

func (r *run) done(path string, err error) error {
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintln(r.out, path)

	return nil
}

// outName is prefix.optifit_<metric>[.<extra>].<ext>.
func (r *run) outName(extra, ext string) string {
	name := r.prefix + ".optifit_" + r.kind.String()
	if extra != "" {
		name += "." + extra
	}

	return name + "." + ext
}
