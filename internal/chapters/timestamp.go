package chapters

import (
	"fmt"
	"strconv"
	"strings"

	"chaptermux/internal/textutil"
)

// maxComponent keeps (h*3600 + m*60 + s) * 1000 inside int64.
const maxComponent = 1 << 40

// ParseTimestamp converts an HH:MM:SS string into a millisecond offset.
//
// Whitespace anywhere in the value is ignored. Minutes and seconds are not
// range-checked, so "00:90:00" is 5400000. Fractional seconds, signs and any
// component count other than three are rejected with a *ParseError.
func ParseTimestamp(value string) (int64, error) {
	compact := textutil.StripWhitespace(value)
	parts := strings.Split(compact, ":")
	if len(parts) != 3 {
		return 0, &ParseError{
			Value:  value,
			Reason: fmt.Sprintf("expected HH:MM:SS, got %d component(s)", len(parts)),
		}
	}

	var fields [3]int64
	for i, part := range parts {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			return 0, &ParseError{Value: value, Reason: fmt.Sprintf("component %q is not a non-negative integer", part)}
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return 0, &ParseError{Value: value, Reason: fmt.Sprintf("component %q", part), Err: err}
		}
		if n > maxComponent {
			return 0, &ParseError{Value: value, Reason: fmt.Sprintf("component %q out of range", part)}
		}
		fields[i] = n
	}

	seconds := fields[0]*3600 + fields[1]*60 + fields[2]
	return seconds * 1000, nil
}
