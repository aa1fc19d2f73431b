package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger creates a logger writing to stderr. level is one of
// debug, info, warn or error; jsonFormat switches to one JSON object per line.
func SetupLogger(level string, jsonFormat bool) (*log.Logger, error) {
	return NewLogger(os.Stderr, level, jsonFormat)
}

// NewLogger is SetupLogger with an explicit writer
func NewLogger(w io.Writer, level string, jsonFormat bool) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	}
	if jsonFormat {
		opts.Formatter = log.JSONFormatter
	}
	return log.NewWithOptions(w, opts), nil
}
