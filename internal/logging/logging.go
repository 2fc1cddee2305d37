// Package logging builds the hclog logger shared by all components.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// Name is the root logger name.
const Name = "brandstream"

// Options configures New.
type Options struct {
	// Level is one of trace, debug, info, warn, error or off.
	Level string
	// Verbose forces at least debug level.
	Verbose bool
	// Output receives log lines. Nil discards them.
	Output io.Writer
	// JSON selects JSON formatting.
	JSON bool
}

// New returns the root logger.
func New(opts Options) (hclog.Logger, error) {
	level := hclog.Info
	if opts.Level != "" {
		level = hclog.LevelFromString(opts.Level)
		if level == hclog.NoLevel {
			return nil, fmt.Errorf("unknown log level %q", opts.Level)
		}
	}
	if opts.Verbose && level > hclog.Debug {
		level = hclog.Debug
	}

	output := opts.Output
	if output == nil {
		output = io.Discard
		level = hclog.Off
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       Name,
		Output:     output,
		Level:      level,
		JSONFormat: opts.JSON,
		// Colour only makes sense on a terminal stream.
		Color: colorOption(output, opts.JSON),
	}), nil
}

// OpenFile opens path for appending log lines, creating its directory.
// The caller closes the returned file.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) // #nosec G304 - Log path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

func colorOption(w io.Writer, json bool) hclog.ColorOption {
	if json {
		return hclog.ColorOff
	}
	if f, ok := w.(*os.File); ok && (f == os.Stderr || f == os.Stdout) {
		return hclog.AutoColor
	}
	return hclog.ColorOff
}
