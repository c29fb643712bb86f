// Package errors provides centralized error definitions and error handling utilities
// for groupspin. It defines the sentinel errors of the draw core, typed errors
// carrying context, and classification helpers used at the presentation boundary.
//
// # Error Kinds
//
// The draw core has exactly two failure kinds:
//   - ConfigurationError: invalid construction input or a request that would
//     break a ledger invariant (empty roster, non-positive group count,
//     duplicate assignment, out-of-range group index, unknown participant).
//     These always match ErrInvalidConfiguration.
//   - SchedulerError: the injected timer facility could not schedule a callback.
//     These always match ErrSchedulerUnavailable. The animator recovers by
//     completing the run immediately.
//
// ValidationError and NotFoundError cover user input outside the core
// (config files, roster files, CLI flags).
//
// # Usage
//
//	err := errors.NewConfigurationError("group count must be positive").
//		WithField("groups.count").WithValue(0)
//
//	if errors.Is(err, errors.ErrInvalidConfiguration) { ... }
//
//	var cfgErr *errors.ConfigurationError
//	if errors.As(err, &cfgErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Core sentinel errors
var (
	// ErrInvalidConfiguration indicates invalid construction input or a request
	// that would violate a ledger invariant.
	ErrInvalidConfiguration = New("invalid configuration")
	// ErrSchedulerUnavailable indicates the timer facility cannot schedule callbacks.
	ErrSchedulerUnavailable = New("scheduler unavailable")
)

// Ledger sentinel errors. Each is reported wrapped in a ConfigurationError.
var (
	// ErrDuplicateAssignment indicates a participant is already in a group.
	ErrDuplicateAssignment = New("participant already assigned")
	// ErrGroupOutOfRange indicates a group index outside [0, numGroups).
	ErrGroupOutOfRange = New("group index out of range")
	// ErrUnknownParticipant indicates a participant that is not in the roster.
	ErrUnknownParticipant = New("participant not in roster")
	// ErrEmptyRoster indicates a roster with no participants.
	ErrEmptyRoster = New("roster is empty")
)

// General sentinel errors
var (
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrNotFound indicates a missing file or resource.
	ErrNotFound = New("not found")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// SpinError is the base interface for all groupspin errors.
type SpinError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// contextPrefix renders "kind [k=v, ...]" for typed errors.
func contextPrefix(kind string, parts []string) string {
	if len(parts) == 0 {
		return kind
	}
	return fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
}

// -----------------------------------------------------------------------------
// Core Errors
// -----------------------------------------------------------------------------

// ConfigurationError reports invalid configuration or a broken ledger invariant.
//
// Example:
//
//	err := errors.NewConfigurationError("cannot assign participant").
//		WithCause(errors.ErrDuplicateAssignment).WithField("participant").WithValue("Alice")
//	fmt.Println(err) // "configuration error [field=participant, value=Alice]: cannot assign participant: participant already assigned"
type ConfigurationError struct {
	baseError
	Field string
	Value any
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(message string) *ConfigurationError {
	return &ConfigurationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithField adds the offending field or parameter name.
func (e *ConfigurationError) WithField(field string) *ConfigurationError {
	e.Field = field
	return e
}

// WithValue adds the offending value.
func (e *ConfigurationError) WithValue(value any) *ConfigurationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ConfigurationError) WithCause(cause error) *ConfigurationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ConfigurationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := contextPrefix("configuration error", parts)
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ConfigurationError) Is(target error) bool {
	if _, ok := target.(*ConfigurationError); ok {
		return true
	}
	if target == ErrInvalidConfiguration {
		return true
	}
	return e.baseError.Is(target)
}

// SchedulerError reports a timer facility that refused to schedule a callback.
type SchedulerError struct {
	baseError
	Operation string
}

// NewSchedulerError creates a new SchedulerError for the named operation.
func NewSchedulerError(operation string) *SchedulerError {
	return &SchedulerError{
		baseError: baseError{
			message:    operation,
			severity:   SeverityWarning,
			userFacing: false,
		},
		Operation: operation,
	}
}

// WithCause adds a cause to the error.
func (e *SchedulerError) WithCause(cause error) *SchedulerError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *SchedulerError) Error() string {
	base := fmt.Sprintf("scheduler error: %s", e.Operation)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *SchedulerError) Is(target error) bool {
	if _, ok := target.(*SchedulerError); ok {
		return true
	}
	if target == ErrSchedulerUnavailable {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("roster file", "team.yaml")
//	fmt.Println(err) // "roster file 'team.yaml' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if target == ErrNotFound {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid user input.
//
// Example:
//
//	err := errors.NewValidationError("roster entry cannot be blank").WithField("line 3")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := contextPrefix("validation error", parts)
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end users.
//
// Example:
//
//	if errors.IsUserFacing(err) {
//	    m.errorMessage = err.Error()
//	} else {
//	    m.errorMessage = "internal error"
//	    logger.Error("internal error", "error", err)
//	}
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var spinErr SpinError
	if As(err, &spinErr) {
		return spinErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement SpinError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var spinErr SpinError
	if As(err, &spinErr) {
		return spinErr.Severity()
	}
	return SeverityError
}

// IsConfiguration reports whether err is an invalid-configuration failure.
func IsConfiguration(err error) bool {
	return err != nil && Is(err, ErrInvalidConfiguration)
}

// IsSchedulerUnavailable reports whether err came from a timer facility that
// could not schedule.
func IsSchedulerUnavailable(err error) bool {
	return err != nil && Is(err, ErrSchedulerUnavailable)
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "failed to load roster")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
