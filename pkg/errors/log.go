package errors

import (
	"fmt"
	"os"
	"strings"
)

// LogHandler is a Handler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

// HandleResolution logs a ResolutionError to stderr.
func (h *LogHandler) HandleResolution(err *ResolutionError) {
	if err == nil {
		return
	}
	if h.Verbose {
		fmt.Fprintf(os.Stderr, "[tessera error] %s at %s", err.Component,
			strings.Join(err.Hierarchy, " -> "))
		if err.Recovered != nil {
			fmt.Fprintf(os.Stderr, ": panic: %v\n", err.Recovered)
		} else {
			fmt.Fprintf(os.Stderr, ": %v\n", err.Err)
		}
		if err.StackTrace != "" {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
		}
	} else {
		fmt.Fprintf(os.Stderr, "[tessera error] %v\n", err)
	}
}

// HandleComparison logs a ComparisonError to stderr.
func (h *LogHandler) HandleComparison(err *ComparisonError) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "[tessera comparison] %v\n", err)
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
	}
}
