package errors

import (
	stderrors "errors"
	"fmt"
)

// FixkitError defines the base interface for all fixkit errors
type FixkitError interface {
	error
	ErrorCode() ErrorCode
	Member() string
	Context() map[string]interface{}
	Suggestions() []string
	Unwrap() error
}

// ErrorCode represents the type of error that occurred
type ErrorCode int

const (
	// Core error types
	UnknownErrorCode ErrorCode = iota

	// Preparation error types
	ConfigurationConflictCode
	MissingConstructorCode
	InaccessibleNestedTypeCode
	EnclosingInstanceMismatchCode
	UnexpectedFailureCode

	// Collaborator error types
	IntrospectionErrorCode
	RegistrationErrorCode
	AccessErrorCode
	ProxyErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case ConfigurationConflictCode:
		return "ConfigurationConflict"
	case MissingConstructorCode:
		return "MissingConstructor"
	case InaccessibleNestedTypeCode:
		return "InaccessibleNestedType"
	case EnclosingInstanceMismatchCode:
		return "EnclosingInstanceMismatch"
	case UnexpectedFailureCode:
		return "UnexpectedFailure"
	case IntrospectionErrorCode:
		return "IntrospectionError"
	case RegistrationErrorCode:
		return "RegistrationError"
	case AccessErrorCode:
		return "AccessError"
	case ProxyErrorCode:
		return "ProxyError"
	default:
		return "UnknownError"
	}
}

// BaseError provides a common implementation of the FixkitError interface
type BaseError struct {
	Code        ErrorCode              // type of error
	Message     string                 // error message
	MemberName  string                 // fixture member the error relates to, if any
	Cause       error                  // underlying error cause
	ContextData map[string]interface{} // additional context information
	Hints       []string               // helpful suggestions for fixing the fixture
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.MemberName == "" {
		return e.Message
	}
	return fmt.Sprintf("member '%s': %s", e.MemberName, e.Message)
}

// ErrorCode returns the error code
func (e *BaseError) ErrorCode() ErrorCode {
	return e.Code
}

// Member returns the name of the fixture member the error relates to
func (e *BaseError) Member() string {
	return e.MemberName
}

// Context returns the error context data
func (e *BaseError) Context() map[string]interface{} {
	if e.ContextData == nil {
		return make(map[string]interface{})
	}
	return e.ContextData
}

// Suggestions returns helpful suggestions for fixing the error
func (e *BaseError) Suggestions() []string {
	return e.Hints
}

// Unwrap returns the underlying error cause for error chain inspection
func (e *BaseError) Unwrap() error {
	return e.Cause
}

// WithMember attaches the offending member's name to the error
func (e *BaseError) WithMember(name string) *BaseError {
	e.MemberName = name
	return e
}

// WithCause adds an underlying error cause
func (e *BaseError) WithCause(cause error) *BaseError {
	e.Cause = cause
	return e
}

// WithContext adds context data to the error
func (e *BaseError) WithContext(key string, value interface{}) *BaseError {
	if e.ContextData == nil {
		e.ContextData = make(map[string]interface{})
	}
	e.ContextData[key] = value
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *BaseError) WithSuggestion(suggestion string) *BaseError {
	e.Hints = append(e.Hints, suggestion)
	return e
}

// WithSuggestions adds multiple helpful suggestions
func (e *BaseError) WithSuggestions(suggestions ...string) *BaseError {
	e.Hints = append(e.Hints, suggestions...)
	return e
}

// New creates a new BaseError with the specified code and message
func New(code ErrorCode, message string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Hints:   make([]string, 0),
	}
}

// Newf creates a new BaseError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new error that wraps another error
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Hints:   make([]string, 0),
	}
}

// Wrapf creates a new error that wraps another error with formatted message
func Wrapf(code ErrorCode, cause error, format string, args ...interface{}) *BaseError {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// AsBase extracts the first BaseError in err's chain, if any
func AsBase(err error) (*BaseError, bool) {
	var base *BaseError
	if stderrors.As(err, &base) {
		return base, true
	}
	return nil, false
}

// HasCode reports whether any error in err's chain carries the given code
func HasCode(err error, code ErrorCode) bool {
	if base, ok := AsBase(err); ok {
		return base.Code == code
	}
	return false
}
