// Package language normalizes the subtitle language setting.
//
// Codes are resolved through golang.org/x/text so that both ISO 639-1 and
// ISO 639-2 inputs map to the three-letter tag ffmpeg writes into the
// subtitle stream, and English display names are available for status output.
package language
