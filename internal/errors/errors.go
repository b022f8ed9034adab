package errors

import (
	stderrors "errors"
	"fmt"
)

// Code identifies a per-connection failure mode
type Code string

const (
	// UnsupportedExtension indicates the file extension is not a known content type
	UnsupportedExtension Code = "UNSUPPORTED_EXTENSION"
	// IoError indicates a filesystem open or read failed
	IoError Code = "IO_ERROR"
	// MalformedRequest indicates the request line has no path token
	MalformedRequest Code = "MALFORMED_REQUEST"
	// EmptyRequest indicates no request line arrived before the blank line or EOF
	EmptyRequest Code = "EMPTY_REQUEST"
	// WriteFailure indicates the response could not be delivered
	WriteFailure Code = "WRITE_FAILURE"
	// MissingNotFoundPage indicates the configured 404 page could not be read
	MissingNotFoundPage Code = "MISSING_NOT_FOUND_PAGE"
)

// Sentinels for errors.Is comparisons. A ServeError matches the sentinel with the same code.
var (
	ErrUnsupportedExtension = &ServeError{Code: UnsupportedExtension, Message: "unsupported file extension"}
	ErrIo                   = &ServeError{Code: IoError, Message: "i/o failure"}
	ErrMalformedRequest     = &ServeError{Code: MalformedRequest, Message: "malformed request line"}
	ErrEmptyRequest         = &ServeError{Code: EmptyRequest, Message: "empty request"}
	ErrWriteFailure         = &ServeError{Code: WriteFailure, Message: "write failed"}
	ErrMissingNotFoundPage  = &ServeError{Code: MissingNotFoundPage, Message: "not-found page unreadable"}
)

// ServeError represents a failure while serving one connection
type ServeError struct {
	Code    Code
	Message string
	Path    string // file or request path involved, if any
	cause   error
}

// New creates a ServeError wrapping cause, which may be nil
func New(code Code, message, path string, cause error) *ServeError {
	return &ServeError{
		Code:    code,
		Message: message,
		Path:    path,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *ServeError) Error() string {
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
func (e *ServeError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a ServeError with the same code
func (e *ServeError) Is(target error) bool {
	t, ok := target.(*ServeError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first ServeError in err's chain, or "" if there is none
func CodeOf(err error) Code {
	var se *ServeError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ""
}
