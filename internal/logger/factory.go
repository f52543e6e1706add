package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// ParseFormatter maps "text", "json" and "logfmt" to a log.Formatter.
func ParseFormatter(name string) (log.Formatter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return log.TextFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	}
	return log.TextFormatter, fmt.Errorf("unknown log format %q", name)
}

// Setup replaces the default logger with a stderr logger at the given level
// and format. Unknown values fall back to warn level and text output.
func Setup(level, format string, debug bool) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}
	if debug {
		lvl = log.DebugLevel
	}
	formatter, ferr := ParseFormatter(format)

	log.SetDefault(NewWithConfig("", lvl, false, debug, formatter))
	if err != nil && level != "" {
		log.Warnf("Unknown log level %q, using %s", level, lvl)
	}
	if ferr != nil {
		log.Warn(ferr.Error())
	}
}

// Discard returns a logger that drops everything, for tests and quiet hosts.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
