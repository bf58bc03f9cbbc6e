// Package logger provides verbose logging for croissant-toml.
// Messages are written to stderr only when --verbose is set, so the
// converter's output streams stay clean for piping.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for verbose logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func logf(level, prefix, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "["+level+"] "+prefix+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf("DEBUG", "", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf("INFO", "", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf("WARN", "", format, args...)
}

// Scoped prefixes every line with an identifier, typically one conversion.
type Scoped struct {
	prefix string
}

// Scope returns a logger whose lines start with "id: ".
func Scope(id string) *Scoped {
	return &Scoped{prefix: id + ": "}
}

// Debug prints a scoped message if verbose mode is enabled.
func (s *Scoped) Debug(format string, args ...any) {
	logf("DEBUG", s.prefix, format, args...)
}

// Info prints a scoped message if verbose mode is enabled.
func (s *Scoped) Info(format string, args ...any) {
	logf("INFO", s.prefix, format, args...)
}

// Warn prints a scoped message if verbose mode is enabled.
func (s *Scoped) Warn(format string, args ...any) {
	logf("WARN", s.prefix, format, args...)
}
