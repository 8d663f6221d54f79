// Package errdef tags gencode errors with a coarse category. The CLI maps
// categories to exit codes; everything else only reads the message.
package errdef

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeUnknown    Code = "unknown"
	CodeConfig     Code = "config"
	CodeManifest   Code = "manifest"
	CodeFilesystem Code = "filesystem"
	CodeGenerator  Code = "generator"
	CodeHistory    Code = "history"
)

const (
	ExitFailure = 1
	ExitUsage   = 2
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error renders as "code: message: cause", dropping empty parts.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	parts := make([]any, 0, 3)
	format := "%s"
	parts = append(parts, e.Code)
	if e.Message != "" {
		format += ": %s"
		parts = append(parts, e.Message)
	}
	if e.Err != nil {
		format += ": %v"
		parts = append(parts, e.Err)
	}
	return fmt.Sprintf(format, parts...)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Wrap returns nil for a nil err.
func Wrap(code Code, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: orUnknown(code), Message: msg, Err: err}
}

func New(code Code, format string, args ...any) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: orUnknown(code), Message: msg}
}

// CodeOf is the outermost code in the chain.
func CodeOf(err error) Code {
	var e *Error
	if stdErrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// Is reports whether any coded error in the chain carries code, so a
// filesystem failure wrapped by the generator still matches both.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !stdErrors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Err
	}
	return false
}

// ExitCode maps an error to the process exit status: bad input (config,
// manifests) is a usage error, anything else a plain failure.
func ExitCode(err error) int {
	switch CodeOf(err) {
	case CodeConfig, CodeManifest:
		return ExitUsage
	default:
		return ExitFailure
	}
}

func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func orUnknown(code Code) Code {
	if code == "" {
		return CodeUnknown
	}
	return code
}
