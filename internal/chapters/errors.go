package chapters

import (
	"fmt"

	"chaptermux/internal/services"
)

// ParseError reports a timestamp that is not three colon-separated
// non-negative integers.
type ParseError struct {
	Value  string
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse timestamp %q: %s", e.Value, e.Reason)
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets callers match on services.ErrParse.
func (e *ParseError) Is(target error) bool { return target == services.ErrParse }

// FormatError reports a source record or row that lacks a required field.
type FormatError struct {
	Source string
	Line   int
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	msg := e.Reason
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Source != "" {
		msg = e.Source + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "chapter source: " + msg
}

func (e *FormatError) Unwrap() error { return e.Err }

// Is lets callers match on services.ErrFormat.
func (e *FormatError) Is(target error) bool { return target == services.ErrFormat }
