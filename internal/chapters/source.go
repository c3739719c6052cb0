package chapters

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"chaptermux/internal/services"
	"chaptermux/internal/textutil"
)

// Column names required by the CSV form.
const (
	ColumnTimestamp = "Timestamp"
	ColumnChapter   = "Chapter"
)

const (
	delimiter   = "|"
	utf8BOM     = "\ufeff"
	maxLineSize = 1 << 20
)

// Record is a single chapter start read from a source.
type Record struct {
	Timestamp string
	Title     string
	// Line is the 1-based source line, or 0 when unknown.
	Line int
}

// Format selects the ingestion strategy for a chapter source.
type Format string

const (
	FormatAuto      Format = "auto"
	FormatDelimited Format = "delimited"
	FormatTabular   Format = "csv"
)

// ParseFormat validates a configured format name. Empty means auto.
func ParseFormat(value string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(value))) {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatDelimited, "txt", "text":
		return FormatDelimited, nil
	case FormatTabular, "tabular":
		return FormatTabular, nil
	default:
		return "", fmt.Errorf("unsupported chapter format %q (want auto, delimited or csv)", value)
	}
}

// DetectFormat picks the ingestion strategy from the file extension.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatTabular
	}
	return FormatDelimited
}

// Resolve returns a concrete format for path, detecting it when f is auto.
func (f Format) Resolve(path string) Format {
	if f == "" || f == FormatAuto {
		return DetectFormat(path)
	}
	return f
}

// Source yields chapter records in source order.
type Source interface {
	Records() ([]Record, error)
}

// DelimitedSource reads "timestamp|title" lines. Whitespace-only lines are
// skipped; titles are trimmed but otherwise kept as written.
type DelimitedSource struct {
	Name   string
	Reader io.Reader
}

// Records implements Source.
func (s DelimitedSource) Records() ([]Record, error) {
	scanner := bufio.NewScanner(s.Reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []Record
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if lineNo == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if n := strings.Count(line, delimiter); n != 1 {
			return nil, &FormatError{
				Source: s.Name,
				Line:   lineNo,
				Reason: fmt.Sprintf("expected exactly one %q separator, found %d", delimiter, n),
			}
		}
		timestamp, title, _ := strings.Cut(line, delimiter)
		timestamp = strings.TrimSpace(timestamp)
		title = strings.TrimSpace(title)
		if timestamp == "" {
			return nil, &FormatError{Source: s.Name, Line: lineNo, Reason: "empty timestamp"}
		}
		if title == "" {
			return nil, &FormatError{Source: s.Name, Line: lineNo, Reason: "empty title"}
		}
		records = append(records, Record{Timestamp: timestamp, Title: title, Line: lineNo})
	}
	if err := scanner.Err(); err != nil {
		return nil, services.Wrap(services.ErrIO, "chapters", "read source", s.Name, err)
	}
	return records, nil
}

// TabularSource reads CSV rows with Timestamp and Chapter columns. Every
// whitespace character is removed from titles, so "Part One" becomes
// "PartOne".
type TabularSource struct {
	Name   string
	Reader io.Reader
}

// Records implements Source.
func (s TabularSource) Records() ([]Record, error) {
	reader := csv.NewReader(s.Reader)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &FormatError{Source: s.Name, Line: 1, Reason: "missing header row"}
	}
	if err != nil {
		return nil, csvFormatError(s.Name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	tsIdx, titleIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case ColumnTimestamp:
			if tsIdx < 0 {
				tsIdx = i
			}
		case ColumnChapter:
			if titleIdx < 0 {
				titleIdx = i
			}
		}
	}
	if tsIdx < 0 {
		return nil, &FormatError{Source: s.Name, Line: 1, Reason: fmt.Sprintf("missing %q column", ColumnTimestamp)}
	}
	if titleIdx < 0 {
		return nil, &FormatError{Source: s.Name, Line: 1, Reason: fmt.Sprintf("missing %q column", ColumnChapter)}
	}
	need := max(tsIdx, titleIdx)

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvFormatError(s.Name, err)
		}
		line, _ := reader.FieldPos(0)
		if len(row) <= need {
			column := ColumnChapter
			if len(row) <= tsIdx {
				column = ColumnTimestamp
			}
			return nil, &FormatError{Source: s.Name, Line: line, Reason: fmt.Sprintf("row has no %q value", column)}
		}
		records = append(records, Record{
			Timestamp: row[tsIdx],
			Title:     textutil.StripWhitespace(row[titleIdx]),
			Line:      line,
		})
	}
	return records, nil
}

func csvFormatError(name string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &FormatError{Source: name, Line: parseErr.Line, Reason: "malformed csv", Err: parseErr.Err}
	}
	return services.Wrap(services.ErrIO, "chapters", "read source", name, err)
}

// NewSource wraps r in the ingestion strategy for format. Auto is resolved
// against name.
func NewSource(name string, r io.Reader, format Format) Source {
	if format.Resolve(name) == FormatTabular {
		return TabularSource{Name: name, Reader: r}
	}
	return DelimitedSource{Name: name, Reader: r}
}

// ReadFile loads every record from the chapter file at path. It returns the
// concrete format that was used.
func ReadFile(path string, format Format) ([]Record, Format, error) {
	resolved := format.Resolve(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, resolved, services.Wrap(services.ErrIO, "chapters", "read source", path, err)
	}
	records, err := NewSource(path, bytes.NewReader(data), resolved).Records()
	if err != nil {
		return nil, resolved, err
	}
	return records, resolved, nil
}
