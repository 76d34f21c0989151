// Package logging configures the charmbracelet logger shared by every
// package. While the terminal UI owns the screen nothing may be written to
// stderr, so output goes to a file or is dropped.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Options selects the sink and verbosity.
type Options struct {
	// File receives log output when set. It is opened for append.
	File string
	// Debug lowers the level to debug.
	Debug bool
	// Console receives output when File is empty. Interactive mode leaves
	// it nil, which drops everything.
	Console io.Writer
}

// Setup builds a logger from opts and installs it as log.Default(). The
// returned closer releases the log file, if one was opened.
func Setup(opts Options) (*log.Logger, io.Closer, error) {
	var (
		w      io.Writer = io.Discard
		closer io.Closer = nopCloser{}
	)

	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	case opts.Console != nil:
		w = opts.Console
	}

	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "uncss",
		ReportTimestamp: opts.File != "",
		TimeFormat:      time.RFC3339,
	})
	log.SetDefault(logger)
	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
