// Package logging builds the zap loggers used by the CLI.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New returns a JSON production logger, or a console development logger when
// development is set. level is a zap level name; empty means info. Output goes
// to stderr so it never mixes with exported data on stdout.
func New(level string, development bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}
