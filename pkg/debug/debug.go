// Package debug provides conditional debug logging for phylomovies.
//
// Debug logging is enabled by setting the PM_DEBUG environment variable:
//
//	PM_DEBUG=1 phylomovies movie.json
//
// When enabled, messages are written to stderr with timestamps. When
// disabled (default), all debug functions are no-ops.
package debug

import (
	"log"
	"os"
	"time"
)

var (
	enabled bool
	logger  *log.Logger
)

func init() {
	if os.Getenv("PM_DEBUG") != "" {
		enabled = true
		logger = log.New(os.Stderr, "[PM_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled = e
	if e && logger == nil {
		logger = log.New(os.Stderr, "[PM_DEBUG] ", log.Ltime|log.Lmicroseconds)
	}
}

// Log writes a printf-style debug message if debug logging is enabled.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Printf(format, args...)
}

// Warn writes a warning-level message. Unlike Log it is always emitted,
// matching the "warning + defaults" contract of the MSA window computer.
func Warn(format string, args ...any) {
	if logger == nil {
		logger = log.New(os.Stderr, "[phylomovies] ", log.Ltime)
	}
	logger.Printf("warning: "+format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Printf("%s took %v", name, d)
}

// Trace logs function entry and exit with timing.
//
//	defer debug.Trace("constructRadialTree")()
func Trace(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Printf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Printf("<- %s (%v)", name, time.Since(start))
	}
}

// Dump logs a value with its type for inspecting frame state.
func Dump(name string, v any) {
	if !enabled {
		return
	}
	logger.Printf("%s: %T = %+v", name, v, v)
}
