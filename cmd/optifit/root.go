// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Schaudge/mothur/internal/config"
	"github.com/Schaudge/mothur/internal/logging"
)

// cliOptions are the flag targets shared by every subcommand.
type cliOptions struct {
	configFile string
	column     string
	output     string
	flags      config.Config
}

func newRootCmd() *cobra.Command {
	var o = &cliOptions{flags: config.Default()}

	root := &cobra.Command{
		Use:           "optifit",
		Short:         "Cluster sequences into OTUs by optimizing a pairwise quality metric",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configFile, "config", "", "YAML run configuration")
	pf.StringVar(&o.column, "column", "", "column distance file (name1 name2 distance), '-' for stdin")
	pf.StringVar(&o.output, "output", "", "output prefix (default: column file without extension)")
	pf.StringVar(&o.flags.Metric, "metric", o.flags.Metric, "objective: mcc, sens, spec, ppv, npv, fdr, accuracy, f1score")
	pf.Float64Var(&o.flags.Cutoff, "cutoff", o.flags.Cutoff, "distance at or below which two sequences are close")
	pf.Float64Var(&o.flags.Delta, "delta", o.flags.Delta, "stop once the metric changes by at most delta")
	pf.IntVar(&o.flags.MaxIters, "iters", o.flags.MaxIters, "maximum number of update passes")
	pf.Int64Var(&o.flags.Seed, "seed", o.flags.Seed, "random seed, 0 selects the default")
	pf.BoolVar(&o.flags.Shuffle, "shuffle", o.flags.Shuffle, "visit sequences in random order")
	pf.IntVar(&o.flags.Replicates, "replicates", o.flags.Replicates, "independent seeds to run; the best metric wins")
	pf.StringVar(&o.flags.Label, "label", o.flags.Label, "list label (default: the cutoff)")
	pf.StringVar(&o.flags.LogLevel, "log-level", o.flags.LogLevel, "debug, info, warn or error")
	pf.StringVar(&o.flags.LogFormat, "log-format", o.flags.LogFormat, "text or json")
	pf.StringVar(&o.flags.MetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")

	root.AddCommand(newClusterCmd(o), newFitCmd(o))

	return root
}

// flagFields maps a flag name onto the Config field it overrides.
var flagFields = map[string]func(dst *config.Config, src config.Config){
	"metric":       func(d *config.Config, s config.Config) { d.Metric = s.Metric },
	"cutoff":       func(d *config.Config, s config.Config) { d.Cutoff = s.Cutoff },
	"delta":        func(d *config.Config, s config.Config) { d.Delta = s.Delta },
	"iters":        func(d *config.Config, s config.Config) { d.MaxIters = s.MaxIters },
	"seed":         func(d *config.Config, s config.Config) { d.Seed = s.Seed },
	"shuffle":      func(d *config.Config, s config.Config) { d.Shuffle = s.Shuffle },
	"replicates":   func(d *config.Config, s config.Config) { d.Replicates = s.Replicates },
	"label":        func(d *config.Config, s config.Config) { d.Label = s.Label },
	"log-level":    func(d *config.Config, s config.Config) { d.LogLevel = s.LogLevel },
	"log-format":   func(d *config.Config, s config.Config) { d.LogFormat = s.LogFormat },
	"metrics-file": func(d *config.Config, s config.Config) { d.MetricsFile = s.MetricsFile },
	"method":       func(d *config.Config, s config.Config) { d.Method = s.Method },
	"denovo":       func(d *config.Config, s config.Config) { d.Denovo = s.Denovo },
	"printref":     func(d *config.Config, s config.Config) { d.IncludeRefs = s.IncludeRefs },
}

// resolve loads the config file and applies the flags that were set
// explicitly on top of it.
func (o *cliOptions) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return cfg, err
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if apply, ok := flagFields[f.Name]; ok {
			apply(&cfg, o.flags)
		}
	})

	return cfg, cfg.Validate()
}

func (o *cliOptions) logger(cmd *cobra.Command, cfg config.Config) (*slog.Logger, string, error) {
	l, err := logging.New(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, "", err
	}
	l, id := logging.ForRun(l, cmd.Name())

	return l, id, nil
}

// prefix is the output prefix: --output, or the column file path without
// its extensions.
func (o *cliOptions) prefix() string {
	if o.output != "" {
		return o.output
	}
	if o.column == "" || o.column == "-" {
		return "stdin"
	}
	p := strings.TrimSuffix(o.column, ".gz")

	return strings.TrimSuffix(p, filepath.Ext(p))
}
