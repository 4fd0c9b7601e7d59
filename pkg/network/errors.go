package network

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrFixedWithoutValue    = errors.New("cannot fix flow to an undefined value")
	ErrInvestmentWithBinary = errors.New("investment and binary modeling are mutually exclusive")
	ErrInvalidConfig        = errors.New("invalid configuration value")
	ErrNilEndpoint          = errors.New("flow endpoint is nil")
	ErrNilFlow              = errors.New("flow is nil")
)

// ConfigError provides structured error information for construction failures.
// All construction failures are raised at the point of construction, never
// deferred, so a malformed graph can never reach the model builder.
type ConfigError struct {
	Op     string // Operation that failed (e.g., "NewFlow", "NewSink")
	Entity string // Entity kind (e.g., "flow", "sink")
	Label  string // Node label (if applicable)
	Field  string // Configuration field (if applicable)
	Cause  error  // Underlying error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Label != "" {
		if e.Field != "" {
			return fmt.Sprintf("%s %s %q (field %s): %v", e.Op, e.Entity, e.Label, e.Field, e.Cause)
		}
		return fmt.Sprintf("%s %s %q: %v", e.Op, e.Entity, e.Label, e.Cause)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s %s (field %s): %v", e.Op, e.Entity, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *ConfigError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// Advisory codes
const (
	AdvisoryNominalValueCleared = "nominal_value_cleared"
)

// Advisory is a non-fatal notice emitted during construction. Advisories are
// surfaced to the caller but never alter control flow.
type Advisory struct {
	Code    string
	Message string
}

// String returns the advisory as a single human-readable line.
func (a Advisory) String() string {
	return fmt.Sprintf("%s: %s", a.Code, a.Message)
}
