// SPDX-License-Identifier: MIT

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Schaudge/mothur/closeness"
	"github.com/Schaudge/mothur/optifit"
	"github.com/Schaudge/mothur/otuio"
)

func newClusterCmd(o *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cluster",
		Short: "Cluster all sequences de novo",
		Long: `Start from singletons and greedily move sequences between OTUs until the
metric stops improving. Writes <prefix>.optifit_<metric>.list and .steps.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := o.newRun(cmd)
			if err != nil {
				return err
			}
			return r.cluster(cmd.Context(), o.column)
		},
	}
}

func (r *run) cluster(ctx context.Context, column string) error {
	col, err := r.readColumn(column)
	if err != nil {
		return err
	}
	m, err := closeness.New(col.Names, col.Dists, closeness.WithCutoff(r.cfg.Cutoff))
	if err != nil {
		return err
	}

	best, err := r.optimize(ctx, m, "cluster", func(ctx context.Context, s *optifit.State) error {
		_, err := s.Initialize(ctx, nil, nil, optifit.Open, false)
		return err
	})
	if err != nil {
		return err
	}

	groups, err := best.state.List()
	if err != nil {
		return err
	}
	label := r.cfg.RunLabel()
	r.log.Info("clustered", "otus", len(groups), "metric", best.res.Metric)

	if err = r.writeList(r.outName("", "list"), otuio.List{Label: label, OTUs: optifit.Label(groups)}); err != nil {
		return err
	}
	if err = r.writeSteps(r.outName("", "steps"), label, best); err != nil {
		return err
	}

	return r.finish()
}
