package services

import (
	"errors"
	"fmt"

	"chaptermux/internal/textutil"
)

var (
	ErrParse         = errors.New("parse error")
	ErrFormat        = errors.New("format error")
	ErrIO            = errors.New("io error")
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
)

// Exit codes returned by the CLI.
const (
	ExitFailure = 1
	ExitUsage   = 2
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps a run error to the process exit status. Validation and
// configuration problems are usage errors; everything else is a failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration):
		return ExitUsage
	default:
		return ExitFailure
	}
}

func buildDetail(stage, operation, message string) string {
	if detail := textutil.JoinTokens(": ", stage, operation, message); detail != "" {
		return detail
	}
	return "run failure"
}
