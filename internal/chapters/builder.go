package chapters

import (
	"errors"
	"fmt"
	"strings"
)

// Boundary is a fully stitched chapter ready for serialization.
type Boundary struct {
	StartMillis int64
	EndMillis   int64
	Title       string
}

// Policy selects how chapter ends are stitched from the following start.
type Policy string

const (
	// PolicyAuto picks contiguous for delimited sources and tabular for CSV.
	PolicyAuto Policy = "auto"
	// PolicyContiguous starts the first chapter at its own timestamp and ends
	// every chapter exactly where the next one starts.
	PolicyContiguous Policy = "contiguous"
	// PolicyTabular forces the first chapter to start at zero and ends every
	// chapter one millisecond before the next one starts. Order is not checked:
	// a second record at 00:00:00 gives the first chapter START=0 and END=-1.
	PolicyTabular Policy = "tabular"
)

// ParsePolicy validates a configured policy name. Empty means auto.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PolicyAuto:
		return PolicyAuto, nil
	case PolicyContiguous:
		return PolicyContiguous, nil
	case PolicyTabular:
		return PolicyTabular, nil
	default:
		return "", fmt.Errorf("unsupported stitching policy %q (want auto, contiguous or tabular)", value)
	}
}

// Resolve returns the concrete policy used for records read in format.
func (p Policy) Resolve(format Format) Policy {
	if p != "" && p != PolicyAuto {
		return p
	}
	if format == FormatTabular {
		return PolicyTabular
	}
	return PolicyContiguous
}

// Build converts records into stitched boundaries, one per record and in the
// same order. The last boundary always ends one millisecond after its start.
// An auto policy is treated as contiguous. Any timestamp that fails to parse
// aborts the build and no boundaries are returned.
func Build(records []Record, policy Policy) ([]Boundary, error) {
	if len(records) == 0 {
		return nil, &FormatError{Reason: "no chapter records"}
	}
	policy = policy.Resolve(FormatDelimited)

	starts := make([]int64, len(records))
	for i, rec := range records {
		millis, err := ParseTimestamp(rec.Timestamp)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Line = rec.Line
			}
			return nil, err
		}
		starts[i] = millis
	}
	if policy == PolicyTabular {
		starts[0] = 0
	}

	last := len(records) - 1
	boundaries := make([]Boundary, len(records))
	for i, rec := range records {
		end := starts[i] + 1
		if i < last {
			end = starts[i+1]
			if policy == PolicyTabular {
				end--
			}
		}
		boundaries[i] = Boundary{
			StartMillis: starts[i],
			EndMillis:   end,
			Title:       rec.Title,
		}
	}
	return boundaries, nil
}
