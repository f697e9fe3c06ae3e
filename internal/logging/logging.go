// SPDX-License-Identifier: MIT

// Package logging builds the slog.Logger used by the optifit command.
//
// Output goes to stderr by default so that list files may be streamed to
// stdout. Every logger made by ForRun carries a run_id and the command name.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
)

// ErrUnknownFormat is returned by New for a format other than text or json.
var ErrUnknownFormat = errors.New("logging: unknown format")

// Config selects level, format and destination.
type Config struct {
	Level  string    // debug, info, warn or error; empty means info
	Format string    // text or json; empty means text
	Writer io.Writer // nil means os.Stderr
}

// ParseLevel maps a level name onto slog.Level, case-insensitively.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("logging: %w", err)
	}

	return l, nil
}

// New returns a logger for cfg.
func New(cfg Config) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}
}

// ForRun tags l with a fresh run id and the command name and returns the id.
func ForRun(l *slog.Logger, command string) (*slog.Logger, string) {
	id := uuid.NewString()

	return l.With("run_id", id, "command", command), id
}
