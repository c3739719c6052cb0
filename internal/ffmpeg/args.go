package ffmpeg

import "strings"

// Args is an ordered ffmpeg argument list, excluding the binary name.
type Args []string

// Add appends raw arguments.
func (a *Args) Add(values ...string) *Args {
	*a = append(*a, values...)
	return a
}

// Flag appends an option followed by its value, e.g. Flag("-c", "copy").
func (a *Args) Flag(name, value string) *Args {
	return a.Add(name, value)
}

// Input appends "-i path".
func (a *Args) Input(path string) *Args {
	return a.Flag("-i", path)
}

// Map appends "-map spec".
func (a *Args) Map(spec string) *Args {
	return a.Flag("-map", spec)
}

// Slice returns a copy of the arguments suitable for exec.Command.
func (a Args) Slice() []string {
	return append([]string(nil), a...)
}

// String renders the arguments for display. Values containing whitespace or
// quotes are double-quoted; the result is never passed to a shell.
func (a Args) String() string {
	parts := make([]string, 0, len(a))
	for _, arg := range a {
		parts = append(parts, displayQuote(arg))
	}
	return strings.Join(parts, " ")
}

// CommandLine renders binary plus arguments for display.
func CommandLine(binary string, args Args) string {
	if len(args) == 0 {
		return displayQuote(binary)
	}
	return displayQuote(binary) + " " + args.String()
}

func displayQuote(value string) string {
	if value == "" {
		return `""`
	}
	if !strings.ContainsAny(value, " \t\n\"'\\") {
		return value
	}
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(value) + `"`
}
