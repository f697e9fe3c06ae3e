// SPDX-License-Identifier: MIT

// Package config holds the run configuration of the optifit command: YAML on
// disk, defaults matching the classic tool, and struct-tag validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Schaudge/mothur/metric"
	"github.com/Schaudge/mothur/optifit"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is one clustering run.
type Config struct {
	Metric      string  `yaml:"metric" validate:"required,metricname"`
	Cutoff      float64 `yaml:"cutoff" validate:"gte=0"`
	Delta       float64 `yaml:"delta" validate:"gte=0"`
	MaxIters    int     `yaml:"max_iters" validate:"gte=1"`
	Seed        int64   `yaml:"seed"`
	Shuffle     bool    `yaml:"shuffle"`
	Replicates  int     `yaml:"replicates" validate:"gte=1,lte=1024"`
	Method      string  `yaml:"method" validate:"oneof=open closed"`
	Denovo      bool    `yaml:"denovo"`
	IncludeRefs bool    `yaml:"include_refs"`
	Label       string  `yaml:"label" validate:"excludesall=0x2C"`
	LogLevel    string  `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string  `yaml:"log_format" validate:"oneof=text json"`
	MetricsFile string  `yaml:"metrics_file"`
}

// Default returns the settings of the classic tool: MCC, cutoff 0.03,
// delta 0.0001, 100 iterations, shuffled order, closed fitting.
func Default() Config {
	return Config{
		Metric:     metric.MCC.String(),
		Cutoff:     0.03,
		Delta:      optifit.DefaultDelta,
		MaxIters:   optifit.DefaultMaxIters,
		Shuffle:    true,
		Replicates: 1,
		Method:     optifit.Closed.String(),
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load overlays the YAML file at path onto Default. An empty path returns
// the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	fh, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: open: %w", err)
	}
	defer fh.Close()

	dec := yaml.NewDecoder(fh)
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("metricname", func(fl validator.FieldLevel) bool {
		_, err := metric.Parse(fl.Field().String())
		return err == nil
	})

	return v
}

// Validate checks every field against its tag.
func (c Config) Validate() error {
	c.Method = strings.ToLower(c.Method)
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// MetricKind resolves Metric.
func (c Config) MetricKind() (metric.Kind, error) { return metric.Parse(c.Metric) }

// Mode resolves Method.
func (c Config) Mode() (optifit.Mode, error) { return optifit.ParseMode(c.Method) }

// RunLabel is Label, or the cutoff when Label is empty.
func (c Config) RunLabel() string {
	if c.Label != "" {
		return c.Label
	}

	return FormatCutoff(c.Cutoff)
}

// FormatCutoff prints a cutoff the way list labels spell it.
func FormatCutoff(c float64) string {
	s := fmt.Sprintf("%.4f", c)
	s = strings.TrimRight(s, "0")

	return strings.TrimSuffix(s, ".")
}

// ConvergeOptions maps Delta and MaxIters.
func (c Config) ConvergeOptions() optifit.ConvergeOptions {
	return optifit.ConvergeOptions{Delta: c.Delta, MaxIters: c.MaxIters}
}
