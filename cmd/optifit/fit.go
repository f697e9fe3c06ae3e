// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Schaudge/mothur/closeness"
	"github.com/Schaudge/mothur/optifit"
	"github.com/Schaudge/mothur/otuio"
)

type fitOptions struct {
	refList  string
	refLabel string
}

func newFitCmd(o *cliOptions) *cobra.Command {
	var f fitOptions

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit new sequences onto a reference clustering",
		Long: `Every sequence of the distance file that is absent from the reference list
is a query. Queries join reference OTUs when that improves the metric. With
--method open the remaining queries are clustered into new OTUs; with
--method closed they are written to <prefix>.optifit_<metric>.closed.scrap.accnos.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := o.newRun(cmd)
			if err != nil {
				return err
			}
			return r.fit(cmd.Context(), o.column, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.refList, "reflist", "", "list file holding the reference clustering")
	fl.StringVar(&f.refLabel, "reflabel", "", "row of the reference list to use (default: first)")
	fl.StringVar(&o.flags.Method, "method", o.flags.Method, "open or closed")
	fl.BoolVar(&o.flags.Denovo, "denovo", o.flags.Denovo, "let reference sequences move as well")
	fl.BoolVar(&o.flags.IncludeRefs, "printref", o.flags.IncludeRefs, "include reference sequences in the output list")
	_ = cmd.MarkFlagRequired("reflist")

	return cmd
}

func (r *run) fit(ctx context.Context, column string, f fitOptions) error {
	mode, err := r.cfg.Mode()
	if err != nil {
		return err
	}
	ref, err := readRefList(f.refList, f.refLabel)
	if err != nil {
		return err
	}
	var (
		bins   = ref.Groups()
		labels = ref.Labels()
		refs   []string
	)
	for _, bin := range bins {
		refs = append(refs, bin...)
	}

	col, err := r.readColumn(column)
	if err != nil {
		return err
	}
	// references without distances still belong to the universe, as singletons
	var (
		names = col.Names
		known = make(map[string]bool, len(names))
	)
	for _, n := range names {
		known[n] = true
	}
	for _, n := range refs {
		if !known[n] {
			known[n] = true
			names = append(names, n)
		}
	}
	m, err := closeness.New(names, col.Dists,
		closeness.WithCutoff(r.cfg.Cutoff),
		closeness.WithReferences(refs),
	)
	if err != nil {
		return err
	}
	r.log.Info("fitting", "ref_otus", len(bins), "refs", len(refs), "mode", mode.String(), "denovo", r.cfg.Denovo)

	best, err := r.optimize(ctx, m, "fit", func(ctx context.Context, s *optifit.State) error {
		_, err := s.Initialize(ctx, bins, labels, mode, r.cfg.Denovo)
		return err
	})
	if err != nil {
		return err
	}

	label := r.cfg.RunLabel()
	fitted, err := best.state.FittedList(ctx, label, r.cfg.IncludeRefs)
	if err != nil {
		return err
	}
	fs := best.state.FitStats()
	r.log.Info("fitted", "otus", len(fitted.OTUs), "unplaced", len(fitted.Unplaced),
		"metric", best.res.Metric, "fit_mcc", fs.Summary.MCC)

	method := mode.String()
	if err = r.writeList(r.outName(method, "list"), otuio.List{Label: label, OTUs: fitted.OTUs}); err != nil {
		return err
	}
	if err = r.writeSteps(r.outName(method, "steps"), label, best); err != nil {
		return err
	}
	if len(fitted.Unplaced) > 0 {
		if err = r.writeAccnos(r.outName(method, "scrap.accnos"), fitted.Unplaced); err != nil {
			return err
		}
	}

	return r.finish()
}

func readRefList(path, label string) (otuio.List, error) {
	rc, err := otuio.Open(path)
	if err != nil {
		return otuio.List{}, err
	}
	defer rc.Close()

	lists, err := otuio.ReadList(rc)
	if err != nil {
		return otuio.List{}, fmt.Errorf("%s: %w", path, err)
	}

	return lists.Find(label)
}
