// Package errors provides structured error handling for the tessera engine.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindResolution indicates a failure while resolving a component.
	KindResolution
	// KindComparison indicates a failing update-comparison function.
	KindComparison
	// KindMeasure indicates a failure during measurement.
	KindMeasure
	// KindLifecycle indicates a pass-lifecycle violation.
	KindLifecycle
)

func (k ErrorKind) String() string {
	switch k {
	case KindResolution:
		return "resolution"
	case KindComparison:
		return "comparison"
	case KindMeasure:
		return "measure"
	case KindLifecycle:
		return "lifecycle"
	default:
		return "unknown"
	}
}

// ResolutionError reports a failure while resolving a single component.
// The subtree rooted at the failing component resolves to nothing; siblings
// and ancestors are unaffected.
type ResolutionError struct {
	// Component is the type name of the component that failed.
	Component string
	// Hierarchy is the component path from the root to the failure,
	// outermost first.
	Hierarchy []string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ResolutionError) Error() string {
	path := strings.Join(e.Hierarchy, " -> ")
	if e.Recovered != nil {
		return fmt.Sprintf("panic resolving %s (%s): %v", e.Component, path, e.Recovered)
	}
	return fmt.Sprintf("error resolving %s (%s): %v", e.Component, path, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// ComparisonError reports a failing update-comparison function. It is
// non-fatal: the engine falls back to "needs update".
type ComparisonError struct {
	// Component is the type name of the component whose comparator failed.
	Component string
	// Recovered is the panic value raised by the comparator.
	Recovered any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ComparisonError) Error() string {
	return fmt.Sprintf("panic in %s.ShouldUpdate, defaulting to update: %v", e.Component, e.Recovered)
}

// LifecycleError reports a pass-lifecycle violation: access after release,
// duplicate release, or a global-key collision. These indicate an engine or
// caller bug and are raised as panics, never tolerated or retried.
type LifecycleError struct {
	// Op is the operation that violated the lifecycle (e.g. "resolve.Context.TreeState").
	Op string
	// Reason describes the violation.
	Reason string
	// History is the pass's lifecycle event log, for postmortem diagnosis.
	History string
}

func (e *LifecycleError) Error() string {
	if e.History != "" {
		return fmt.Sprintf("%s: %s\nlifecycle history:\n%s", e.Op, e.Reason, e.History)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// Handler receives errors reported by the engine.
type Handler interface {
	// HandleResolution is called when resolving a component fails.
	HandleResolution(err *ResolutionError)
	// HandleComparison is called when an update comparator panics.
	HandleComparison(err *ComparisonError)
}
