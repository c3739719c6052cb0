package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Undetermined is the ISO 639-2 code for an unknown language.
const Undetermined = "und"

func parse(code string) (language.Base, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return language.Base{}, fmt.Errorf("empty language code")
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return language.Base{}, fmt.Errorf("unrecognized language code %q: %w", code, err)
	}
	if base.String() == Undetermined {
		return language.Base{}, fmt.Errorf("unrecognized language code %q", code)
	}
	return base, nil
}

// ToISO3 converts a two or three letter language code to its three-letter
// form, e.g. "en" and "eng" both yield "eng".
func ToISO3(code string) (string, error) {
	base, err := parse(code)
	if err != nil {
		return "", err
	}
	return base.ISO3(), nil
}

// ToISO2 returns the shortest canonical code for a language, which is the
// ISO 639-1 code when one exists.
func ToISO2(code string) string {
	base, err := parse(code)
	if err != nil {
		return ""
	}
	return base.String()
}

// Valid reports whether code names a known language.
func Valid(code string) bool {
	_, err := parse(code)
	return err == nil
}

// DisplayName returns the English name for a language code. It returns
// "Unknown" for empty input and the uppercased code when unrecognized.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	base, err := parse(trimmed)
	if err != nil {
		return strings.ToUpper(trimmed)
	}
	if name := display.English.Languages().Name(base); name != "" {
		return name
	}
	return strings.ToUpper(trimmed)
}

// ExtractFromTags returns the lowercased language tag from stream metadata.
func ExtractFromTags(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	for _, key := range []string{"language", "LANGUAGE", "Language", "lang"} {
		if value, ok := tags[key]; ok {
			value = strings.TrimSpace(strings.ReplaceAll(value, "\u0000", ""))
			if value != "" {
				return strings.ToLower(value)
			}
		}
	}
	return ""
}
