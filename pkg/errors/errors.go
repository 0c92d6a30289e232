// Package errors provides the unified error type and factory functions for
// the viz-satellite service.  Every layer (domain, application,
// infrastructure, interfaces) uses AppError as the single carrier for
// structured error information, enabling consistent HTTP responses, logging,
// and metrics.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames
// above the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// FieldViolation describes a single violated constraint on a named request
// parameter.  Validation errors carry one FieldViolation per broken rule so
// that clients receive an itemized report rather than the first failure.
type FieldViolation struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Value      string `json:"value,omitempty"`
}

func (v FieldViolation) String() string {
	if v.Value != "" {
		return fmt.Sprintf("%s: %s (got %s)", v.Field, v.Constraint, v.Value)
	}
	return fmt.Sprintf("%s: %s", v.Field, v.Constraint)
}

// AppError is the single structured error type used throughout viz-satellite.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently
// across all layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeCacheError, "failed to store dataset")
//	return errors.Wrap(err, errors.ErrCodePipelineStage, "sampling failed").WithStage("sample")
//	return errors.Validation(violations)
type AppError struct {
	// Code is the typed error code that uniquely identifies the failure
	// category.
	Code ErrorCode

	// Message is the primary human-readable description of the error,
	// suitable for inclusion in API responses returned to callers.
	Message string

	// Detail carries supplementary context (parameter values, sizes, etc.)
	// that aids debugging without leaking internals to end users.
	Detail string

	// Stage names the pipeline stage that produced the error, when the
	// failure occurred inside the request pipeline ("cache", "categorize",
	// "sample", "serialize", ...).  Empty for non-pipeline errors.
	Stage string

	// Violations itemizes every broken parameter constraint for validation
	// errors.  Nil for all other error categories.
	Violations []FieldViolation

	// Cause is the underlying error, enabling errors.Is / errors.As
	// traversal of the full error chain.
	Cause error

	// Stack contains the formatted call-stack captured at the point of
	// error creation.  It is intentionally not included in Error() output;
	// the structured logger reads the field directly.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail> (stage=<stage>)"; detail and stage
// segments are omitted when empty.
func (e *AppError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", e.Code, e.Message)
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	if e.Stage != "" {
		fmt.Fprintf(&sb, " (stage=%s)", e.Stage)
	}
	if len(e.Violations) > 0 {
		parts := make([]string, len(e.Violations))
		for i, v := range e.Violations {
			parts[i] = v.String()
		}
		fmt.Fprintf(&sb, ": %s", strings.Join(parts, "; "))
	}
	return sb.String()
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// Safe to call on a nil pointer.
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithStage returns a shallow copy of the receiver with Stage set.
// Safe to call on a nil pointer.
func (e *AppError) WithStage(stage string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Stage = stage
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.  If err is nil,
// Wrap returns nil so it can be used inline.  When err is already an
// *AppError and code is CodeUnknown, the original code and stage are
// preserved so cross-layer propagation does not lose classification.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	stage := ""
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
			stage = ae.Stage
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Stage:   stage,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError in err's chain,
// or CodeUnknown when none is present.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// GetStage extracts the pipeline stage tag from the first *AppError in err's
// chain that carries one.  Returns "" when no stage is recorded.
func GetStage(err error) string {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Stage != "" {
			return ae.Stage
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return IsCode(err, ErrCodeValidation)
}

// IsMemoryPressure reports whether err is an unrelieved memory-pressure error.
func IsMemoryPressure(err error) bool {
	return IsCode(err, ErrCodeMemoryPressure)
}

// NotFound constructs an ErrCodeNotFound AppError.
func NotFound(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: message,
		Stack:   captureStack(1),
	}
}

// InvalidParam constructs an ErrCodeBadRequest AppError.
func InvalidParam(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Internal constructs an ErrCodeInternal AppError.  Use for unexpected
// server-side failures where no more specific code applies.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Validation constructs an ErrCodeValidation AppError carrying the full list
// of violated constraints.  Returns nil when violations is empty so callers
// can build the list unconditionally and return the result directly.
func Validation(violations []FieldViolation) *AppError {
	if len(violations) == 0 {
		return nil
	}
	return &AppError{
		Code:       ErrCodeValidation,
		Message:    "validation failed",
		Violations: violations,
		Stack:      captureStack(1),
	}
}

// Stage constructs an ErrCodePipelineStage AppError wrapping err and tagged
// with the failing stage name.  Returns nil when err is nil.
func Stage(err error, stage string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    ErrCodePipelineStage,
		Message: "pipeline stage failed",
		Stage:   stage,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// MemoryPressure constructs an ErrCodeMemoryPressure AppError.
func MemoryPressure(message string) *AppError {
	return &AppError{
		Code:    ErrCodeMemoryPressure,
		Message: message,
		Stack:   captureStack(1),
	}
}
