package priorart

import (
	"errors"
	"fmt"
)

// Error type constants for classification and matching
const (
	// ErrorTypeOperationFailure indicates an external collaborator call
	// failed. Always recoverable at the stage level via a deterministic
	// fallback, except at query generation where the run ends without
	// useful output.
	ErrorTypeOperationFailure = "operation_failure"

	// ErrorTypeInvalidResume indicates a resume instruction that could not
	// be applied: unrecognized action tag, or a session that is not
	// awaiting input.
	ErrorTypeInvalidResume = "invalid_resume"

	// ErrorTypeNotFound indicates an unknown session identifier.
	ErrorTypeNotFound = "not_found"

	// ErrorTypeMissingPrecondition indicates a stage was entered without a
	// required upstream field. Stages degrade and continue rather than
	// crash on this.
	ErrorTypeMissingPrecondition = "missing_precondition"
)

// ErrSessionNotFound is returned by session stores when no entry exists for
// a session identifier.
var ErrSessionNotFound = errors.New("session not found")

// PipelineError represents a structured error with classification. It
// supports Go's error wrapping patterns with Unwrap().
type PipelineError struct {
	Type    string `json:"type"`
	Stage   Stage  `json:"stage,omitempty"`
	Cause   string `json:"cause"`
	Wrapped error  `json:"-"`
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s (%s): %s", e.Type, e.Stage, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Cause)
}

// Unwrap implements the error unwrapping interface for errors.Is and errors.As
func (e *PipelineError) Unwrap() error {
	return e.Wrapped
}

// NewOperationFailure wraps a failed external operation call with the stage
// that invoked it.
func NewOperationFailure(stage Stage, err error) *PipelineError {
	return &PipelineError{
		Type:    ErrorTypeOperationFailure,
		Stage:   stage,
		Cause:   err.Error(),
		Wrapped: err,
	}
}

// NewInvalidResumeError creates an error for a resume instruction that was
// rejected by the dispatcher.
func NewInvalidResumeError(cause string) *PipelineError {
	return &PipelineError{Type: ErrorTypeInvalidResume, Cause: cause}
}

// NewNotFoundError creates an error for an unknown session identifier.
func NewNotFoundError(sessionID string) *PipelineError {
	return &PipelineError{
		Type:    ErrorTypeNotFound,
		Cause:   fmt.Sprintf("session %q not found", sessionID),
		Wrapped: ErrSessionNotFound,
	}
}

// NewMissingPreconditionError creates an error for a stage entered without a
// required upstream field.
func NewMissingPreconditionError(stage Stage, field string) *PipelineError {
	return &PipelineError{
		Type:  ErrorTypeMissingPrecondition,
		Stage: stage,
		Cause: fmt.Sprintf("required field %q is not set", field),
	}
}

// IsInvalidResume reports whether err is a rejected resume instruction. An
// unknown session is also an invalid resume from the caller's perspective.
func IsInvalidResume(err error) bool {
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr.Type == ErrorTypeInvalidResume || perr.Type == ErrorTypeNotFound
	}
	return false
}

// IsNotFound reports whether err indicates an unknown session identifier.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrSessionNotFound) {
		return true
	}
	var perr *PipelineError
	if errors.As(err, &perr) {
		return perr.Type == ErrorTypeNotFound
	}
	return false
}
