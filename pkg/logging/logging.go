// Package logging builds the charmbracelet/log loggers used by glray.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Prefix is printed ahead of every message.
const Prefix = "glray"

// New returns a logger writing to w at the given level. Debug level also
// reports the caller.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportCaller:    level <= log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          Prefix,
	})
}

// ParseLevel accepts debug, info, warn, error and fatal, case-insensitively.
func ParseLevel(s string) (log.Level, error) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("parse log level %q: %w", s, err)
	}
	return lvl, nil
}
