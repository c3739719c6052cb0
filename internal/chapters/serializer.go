package chapters

import (
	"bytes"
	"io"
	"os"
	"strconv"

	"chaptermux/internal/services"
)

const (
	chapterHeader = "[CHAPTER]\n"
	timebaseLine  = "TIMEBASE=1/1000\n"
)

// Render writes one ffmetadata chapter block per boundary with no separator
// between blocks.
func Render(w io.Writer, boundaries []Boundary) error {
	var buf bytes.Buffer
	for _, b := range boundaries {
		appendBlock(&buf, b)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func appendBlock(buf *bytes.Buffer, b Boundary) {
	buf.WriteString(chapterHeader)
	buf.WriteString(timebaseLine)
	buf.WriteString("START=")
	buf.WriteString(strconv.FormatInt(b.StartMillis, 10))
	buf.WriteByte('\n')
	buf.WriteString("END=")
	buf.WriteString(strconv.FormatInt(b.EndMillis, 10))
	buf.WriteByte('\n')
	buf.WriteString("title=")
	buf.WriteString(b.Title)
	buf.WriteByte('\n')
}

// AppendFile appends the rendered blocks to the metadata document at path,
// creating it when missing. Existing content is left untouched.
func AppendFile(path string, boundaries []Boundary) error {
	var buf bytes.Buffer
	if err := Render(&buf, boundaries); err != nil {
		return services.Wrap(services.ErrIO, "chapters", "render", path, err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return services.Wrap(services.ErrIO, "chapters", "open metadata document", path, err)
	}
	if _, err := file.Write(buf.Bytes()); err != nil {
		_ = file.Close()
		return services.Wrap(services.ErrIO, "chapters", "append metadata document", path, err)
	}
	if err := file.Close(); err != nil {
		return services.Wrap(services.ErrIO, "chapters", "close metadata document", path, err)
	}
	return nil
}
