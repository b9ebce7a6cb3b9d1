package operations

import (
	"errors"
	"fmt"
)

// ErrStop ends a run early without failing it. Steps return it (optionally
// wrapped) when there is nothing more to do.
var ErrStop = errors.New("run stopped")

// ErrorType represents the type of operation error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeExecution  ErrorType = "execution"
)

// OperationError ties a failure to the step that produced it
type OperationError struct {
	Type    ErrorType
	Step    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", e.Type, e.Step, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Step, e.Message)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// NewValidationError reports a step whose preconditions were not met
func NewValidationError(step string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeValidation,
		Step:    step,
		Message: "step validation failed",
		Cause:   cause,
	}
}

// NewExecutionError reports a step that failed while running
func NewExecutionError(step string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeExecution,
		Step:    step,
		Message: "step execution failed",
		Cause:   cause,
	}
}

// IsStop reports whether err asks the runner to stop cleanly
func IsStop(err error) bool {
	return errors.Is(err, ErrStop)
}
