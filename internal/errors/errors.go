package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// ArgumentInvalid indicates bad command-line arguments or configuration
	ArgumentInvalid ErrorCode = "ARGUMENT_INVALID"
	// PatternInvalid indicates an exclusion pattern that does not compile
	PatternInvalid ErrorCode = "PATTERN_INVALID"
	// ParseFailed indicates a source file is not syntactically valid
	ParseFailed ErrorCode = "PARSE_FAILED"
	// ParserUnavailable indicates the binary was built without the parser backend
	ParserUnavailable ErrorCode = "PARSER_UNAVAILABLE"
	// IOFailed indicates a file or directory could not be read, or output could not be written
	IOFailed ErrorCode = "IO_FAILED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// Error is a coded error carrying the path it concerns, if any.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Path    string    `json:"path,omitempty"`
	cause   error     // Underlying error (not exported to JSON)
}

// New creates a new Error
func New(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Newf creates a new Error with a formatted message and no cause
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Path != "" {
		msg += " (" + e.Path + ")"
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithPath records the file the error concerns
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// CodeOf returns the code of the first *Error in err's chain,
// or InternalError when there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return InternalError
}

// Is reports whether err's chain contains an *Error with the given code.
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	for err != nil {
		if e, ok := err.(*Error); ok && e.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Wrap converts err into an *Error with the given code unless it already is one.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return err
	}
	return New(code, message, err)
}
