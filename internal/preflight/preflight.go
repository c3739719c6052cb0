package preflight

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"chaptermux/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Inputs names the files a single run reads.
type Inputs struct {
	VideoPath     string
	ChapterPath   string
	SubtitlePath  string
	ThumbnailPath string
}

// CheckInputs verifies the video and every provided attachment. The video
// directory must also be writable because the metadata document and the
// updated output are created next to the video.
func CheckInputs(in Inputs) []Result {
	results := []Result{CheckFileReadable("Video", in.VideoPath)}
	if strings.TrimSpace(in.VideoPath) != "" {
		results = append(results, CheckDirectoryAccess("Video directory", filepath.Dir(in.VideoPath)))
	}
	optional := []struct {
		name string
		path string
	}{
		{"Chapters", in.ChapterPath},
		{"Subtitles", in.SubtitlePath},
		{"Thumbnail", in.ThumbnailPath},
	}
	for _, item := range optional {
		if strings.TrimSpace(item.path) == "" {
			continue
		}
		results = append(results, CheckFileReadable(item.name, item.path))
	}
	return results
}

// RunAll executes the environment checks shown by the status command.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	for _, status := range CheckSystemDeps(ctx, cfg) {
		result := Result{Name: status.Name, Passed: status.Available || status.Optional}
		switch {
		case status.Available && status.Version != "":
			result.Detail = fmt.Sprintf("%s (version %s)", status.Path, status.Version)
		case status.Available:
			result.Detail = status.Path
		case status.Optional:
			result.Detail = status.Detail + " (optional)"
		default:
			result.Detail = status.Detail
		}
		results = append(results, result)
	}

	if cfg.Logging.Dir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Logging.Dir))
	}
	return results
}

// Failures returns the checks that did not pass.
func Failures(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Summary joins failed checks into a single line, e.g.
// "Chapters: /x/ch.txt (error: does not exist)".
func Summary(failed []Result) string {
	parts := make([]string, 0, len(failed))
	for _, r := range failed {
		parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}
	return strings.Join(parts, "; ")
}
