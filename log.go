package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// setupLog keeps the terminal clean for the TUI: output is discarded
// unless MINIK_LOGFILE names a file to append to.
func setupLog() (func() error, error) {
	log.SetOutput(io.Discard)

	e, err := loadEnv()
	if err != nil {
		return nil, err
	}
	if e.LogFile == "" {
		return func() error { return nil }, nil
	}
	f, err := os.OpenFile(e.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetLevel(log.DebugLevel)
	return f.Close, nil
}

// logToStderr is used by commands that do not own the terminal. A log
// file, when set, still wins.
func logToStderr() {
	if os.Getenv("MINIK_LOGFILE") != "" {
		return
	}
	log.SetOutput(os.Stderr)
	log.SetReportTimestamp(true)
}
