package parser

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat indicates the input is not a valid xlsx package.
// Every FormatError matches it with errors.Is.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// FormatError reports a malformed or unreadable part of the package.
type FormatError struct {
	Part string // package part being decoded, e.g. "xl/sharedStrings.xml"
	Msg  string
	Err  error
}

func (e *FormatError) Error() string {
	msg := e.Msg
	if e.Part != "" {
		msg = fmt.Sprintf("%s: %s", e.Part, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", ErrInvalidFormat, msg, e.Err)
	}
	return fmt.Sprintf("%v: %s", ErrInvalidFormat, msg)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// NewFormatError creates a new FormatError.
func NewFormatError(part, msg string, err error) *FormatError {
	return &FormatError{
		Part: part,
		Msg:  msg,
		Err:  err,
	}
}
