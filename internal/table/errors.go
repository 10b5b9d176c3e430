package table

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is matching.
var (
	// ErrInputFormat marks an input that cannot be parsed under its delimiter/header convention.
	ErrInputFormat = errors.New("input format error")
	// ErrSchemaMismatch marks an input that lacks an expected column.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// FormatError reports an input file that could not be parsed.
type FormatError struct {
	Path  string
	Line  int // 1-based; 0 when the error is not tied to a line
	Msg   string
	Cause error
}

// NewFormatError creates a format error for the given input.
func NewFormatError(path string, line int, msg string) *FormatError {
	return &FormatError{Path: path, Line: line, Msg: msg}
}

// WrapFormatError wraps an underlying read or parse error.
func WrapFormatError(path string, line int, msg string, cause error) *FormatError {
	return &FormatError{Path: path, Line: line, Msg: msg, Cause: cause}
}

func (e *FormatError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&sb, ":%d", e.Line)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Msg)
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

func (e *FormatError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrInputFormat.
func (e *FormatError) Is(target error) bool { return target == ErrInputFormat }

// SchemaError reports columns that a table was expected to carry.
type SchemaError struct {
	Table   string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("table %q is missing column(s): %s", e.Table, strings.Join(e.Missing, ", "))
}

// Is reports whether target is ErrSchemaMismatch.
func (e *SchemaError) Is(target error) bool { return target == ErrSchemaMismatch }
