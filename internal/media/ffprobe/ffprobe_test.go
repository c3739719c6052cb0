package ffprobe

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const sampleJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "disposition": {"attached_pic": 0}},
    {"index": 1, "codec_name": "aac", "codec_type": "audio"},
    {"index": 2, "codec_name": "mov_text", "codec_type": "subtitle", "tags": {"language": "eng"}},
    {"index": 3, "codec_name": "mjpeg", "codec_type": "video", "disposition": {"attached_pic": 1}}
  ],
  "chapters": [
    {"id": 0, "time_base": "1/1000", "start": 0, "start_time": "0.000000", "end": 90000, "end_time": "90.000000", "tags": {"title": "Intro"}},
    {"id": 1, "time_base": "1/1000", "start": 90000, "start_time": "90.000000", "end": 90001, "end_time": "90.001000", "tags": {"title": "Main"}}
  ],
  "format": {"filename": "movie.mp4", "nb_streams": 4, "duration": "123.4567", "size": "1000"}
}`

func TestParseDecodesStreamsAndChapters(t *testing.T) {
	result, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream excluding cover art, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 1 || result.SubtitleStreamCount() != 1 {
		t.Fatalf("unexpected stream counts: audio=%d subtitle=%d", result.AudioStreamCount(), result.SubtitleStreamCount())
	}
	if !result.HasAttachedPicture() {
		t.Fatal("expected attached picture")
	}
	if result.Streams[2].Language() != "eng" {
		t.Fatalf("unexpected subtitle language %q", result.Streams[2].Language())
	}
	if result.ChapterCount() != 2 {
		t.Fatalf("expected 2 chapters, got %d", result.ChapterCount())
	}
	if result.Chapters[1].Title() != "Main" || result.Chapters[1].StartSeconds() != 90 {
		t.Fatalf("unexpected chapter %+v", result.Chapters[1])
	}
	if result.DurationMillis() != 123457 {
		t.Fatalf("unexpected duration millis %d", result.DurationMillis())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size %d", result.SizeBytes())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{Format: Format{Duration: "bad", Size: "-1"}}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.DurationMillis() != 0 {
		t.Fatalf("expected duration millis 0, got %d", result.DurationMillis())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestInspectRunsBinary(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "payload.json")
	if err := os.WriteFile(payload, []byte(sampleJSON), 0o644); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	stub := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\ncat " + payload + "\n"
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}

	result, err := Inspect(context.Background(), stub, "movie.mp4")
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if result.ChapterCount() != 2 {
		t.Fatalf("expected 2 chapters, got %d", result.ChapterCount())
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "ffprobe", " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
