// Package errors defines the stable error code system for verilib.
package errors

import (
	"errors"
	"fmt"
	"io"
)

// Code is a stable error code string.
type Code string

// Error codes. Stable public contract: scripts match on these strings.
const (
	EUsage          Code = "E_USAGE"
	ENotImplemented Code = "E_NOT_IMPLEMENTED"
	EInternal       Code = "E_INTERNAL"

	// Configuration and input errors
	EInvalidConfig       Code = "E_INVALID_CONFIG"       // verilib.yml unreadable or invalid
	ELanguageConflict    Code = "E_LANGUAGE_CONFLICT"    // config tries to redefine a builtin language
	EInvalidInput        Code = "E_INVALID_INPUT"        // verification input is not valid json / shape
	EInvalidPath         Code = "E_INVALID_PATH"         // path is empty, absolute or escapes the root
	EDuplicateFile       Code = "E_DUPLICATE_FILE"       // same path declared twice with different content
	EInvalidVerification Code = "E_INVALID_VERIFICATION" // verification entry has unknown type or missing fields

	// Result errors
	EInvalidResult Code = "E_INVALID_RESULT" // result json is not valid
	EEmptyMerge    Code = "E_EMPTY_MERGE"    // merge was asked to reduce zero results
	EVerifyFailed  Code = "E_VERIFY_FAILED"  // merged result is incomplete or has failures

	// Document errors
	EFrontMatter Code = "E_FRONT_MATTER" // front matter block is not valid yaml

	// Lookup errors
	ENotFound       Code = "E_NOT_FOUND"        // path argument matches no known file
	EPathAmbiguous  Code = "E_PATH_AMBIGUOUS"   // path argument matches more than one file
	EPersistFailed  Code = "E_PERSIST_FAILED"   // writing input/result/markdown failed
	EResultNotFound Code = "E_RESULT_NOT_FOUND" // result file does not exist
)

// VerilibError is the standard error type for verilib errors.
type VerilibError struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string // optional structured context
}

// Error returns the stable error format: "CODE: message".
func (e *VerilibError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *VerilibError) Unwrap() error {
	return e.Cause
}

// ExitCodeError wraps an error with an explicit process exit code.
type ExitCodeError struct {
	Err  error
	Code int
}

func (e *ExitCodeError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

func (e *ExitCodeError) ExitCode() int {
	return e.Code
}

// WithExitCode wraps err with a specific process exit code.
func WithExitCode(err error, code int) error {
	return &ExitCodeError{Err: err, Code: code}
}

// New creates a new VerilibError with the given code and message.
func New(code Code, msg string) error {
	return &VerilibError{Code: code, Msg: msg}
}

// NewWithDetails creates a new VerilibError with code, message, and details.
// Details map is copied (nil if empty).
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return &VerilibError{Code: code, Msg: msg, Details: copyDetails(details)}
}

// Wrap creates a new VerilibError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &VerilibError{Code: code, Msg: msg, Cause: err}
}

// WrapWithDetails creates a new VerilibError wrapping an underlying error with details.
// Details map is copied (nil if empty).
func WrapWithDetails(code Code, msg string, err error, details map[string]string) error {
	return &VerilibError{Code: code, Msg: msg, Cause: err, Details: copyDetails(details)}
}

// GetCode extracts the error code from an error, or empty string if not a VerilibError.
func GetCode(err error) Code {
	var ve *VerilibError
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

// AsVerilibError returns (*VerilibError, true) if err is or wraps a VerilibError.
func AsVerilibError(err error) (*VerilibError, bool) {
	var ve *VerilibError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// GetDetail returns a single detail value, or "" when absent.
func GetDetail(err error, key string) string {
	ve, ok := AsVerilibError(err)
	if !ok || ve.Details == nil {
		return ""
	}
	return ve.Details[key]
}

// copyDetails returns a copy of the details map, or nil if empty/nil.
func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}

// ExitCode returns the appropriate exit code for an error.
// Returns 0 if err is nil, 2 for E_USAGE, 1 for all other errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ec, ok := err.(interface{ ExitCode() int }); ok {
		return ec.ExitCode()
	}
	if GetCode(err) == EUsage {
		return 2
	}
	return 1
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var ve *VerilibError
	if errors.As(err, &ve) {
		_, _ = fmt.Fprintf(w, "error_code: %s\n", ve.Code)
		_, _ = fmt.Fprintln(w, ve.Msg)
	} else {
		_, _ = fmt.Fprintln(w, err.Error())
	}
}
