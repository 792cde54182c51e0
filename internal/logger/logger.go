// Package logger provides verbose logging for the shipnote CLI.
// When verbose mode is enabled via the --verbose flag, each release step
// reports what it read, decided and wrote on stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	styled            = isTerminal(os.Stderr)
)

var (
	debugTag   = lipgloss.NewStyle().Faint(true)
	infoTag    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	warnTag    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	sectionTag = lipgloss.NewStyle().Bold(true)
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
// Defaults to os.Stderr. Styling is only applied when w is a terminal.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	styled = isTerminal(w)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(debugTag, "[DEBUG]", format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(infoTag, "[INFO]", format, args...)
}

// Warn prints a warning message if verbose mode is enabled.
func Warn(format string, args ...any) {
	logf(warnTag, "[WARN]", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n%s\n", render(sectionTag, "=== "+name+" ==="))
	}
}

// logf holds the write lock so concurrent callers never interleave writes.
func logf(style lipgloss.Style, tag, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, render(style, tag)+" "+format+"\n", args...)
	}
}

// render must be called with mu held.
func render(style lipgloss.Style, s string) string {
	if !styled {
		return s
	}
	return style.Render(s)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
