package textutil

import (
	"strings"
	"unicode"
)

// StripWhitespace removes every Unicode whitespace rune from value, including
// interior spaces: "Part  One\t" becomes "PartOne".
func StripWhitespace(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
}

// JoinTokens joins the non-empty, trimmed tokens with sep.
func JoinTokens(sep string, tokens ...string) string {
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if token = strings.TrimSpace(token); token != "" {
			kept = append(kept, token)
		}
	}
	return strings.Join(kept, sep)
}
