package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chaptermux/internal/services"
	"chaptermux/internal/testsupport"
)

const stubFFmpeg = `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffmpeg version 7.0.2 Copyright (c) 2000-2024"
  exit 0
fi
for last; do :; done
if [ "$1" = "-y" ]; then
  printf ';FFMETADATA1\n' > "$last"
else
  printf 'updated' > "$last"
fi
`

const stubFFprobeJSON = `{
  "streams": [
    {"index": 0, "codec_type": "video", "codec_name": "h264"},
    {"index": 1, "codec_type": "video", "codec_name": "mjpeg", "disposition": {"attached_pic": 1}}
  ],
  "chapters": [
    {"id": 0, "start_time": "0.000000", "tags": {"title": "Intro"}},
    {"id": 1, "start_time": "300.000000", "tags": {"title": "Main"}}
  ],
  "format": {"duration": "600.0", "size": "1024"}
}`

type cliEnv struct {
	dir        string
	configPath string
}

func setupCLIEnv(t *testing.T) *cliEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))

	binDir := filepath.Join(base, "bin")
	ffmpeg := filepath.Join(binDir, "ffmpeg")
	testsupport.WriteText(t, ffmpeg, stubFFmpeg)
	payload := testsupport.WriteText(t, filepath.Join(binDir, "probe.json"), stubFFprobeJSON)
	ffprobe := testsupport.WriteText(t, filepath.Join(binDir, "ffprobe"), "#!/bin/sh\ncat "+payload+"\n")
	for _, path := range []string{ffmpeg, ffprobe} {
		if err := os.Chmod(path, 0o755); err != nil {
			t.Fatalf("chmod %s: %v", path, err)
		}
	}

	configPath := testsupport.WriteText(t, filepath.Join(base, "chaptermux.toml"),
		"[ffmpeg]\nbinary = \""+ffmpeg+"\"\nffprobe_binary = \""+ffprobe+"\"\n\n[logging]\nlevel = \"error\"\n")

	dir := filepath.Join(base, "videos")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir videos: %v", err)
	}
	return &cliEnv{dir: dir, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

func TestChaptersCommandPrintsBlocks(t *testing.T) {
	env := setupCLIEnv(t)
	source := testsupport.WriteText(t, filepath.Join(env.dir, "chapters.txt"), "00:00:00|Intro\n00:01:30|Main\n")

	out, _, err := runCLI(t, []string{"chapters", source}, env.configPath)
	if err != nil {
		t.Fatalf("chapters: %v", err)
	}
	want := "[CHAPTER]\nTIMEBASE=1/1000\nSTART=0\nEND=90000\ntitle=Intro\n" +
		"[CHAPTER]\nTIMEBASE=1/1000\nSTART=90000\nEND=90001\ntitle=Main\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestChaptersCommandStitchingOverride(t *testing.T) {
	env := setupCLIEnv(t)
	source := testsupport.WriteText(t, filepath.Join(env.dir, "chapters.txt"), "00:00:10|Intro\n00:01:30|Main\n")

	out, _, err := runCLI(t, []string{"chapters", "--stitching", "tabular", source}, env.configPath)
	if err != nil {
		t.Fatalf("chapters: %v", err)
	}
	requireContains(t, out, "START=0\nEND=89999\ntitle=Intro\n")
}

func TestChaptersCommandTable(t *testing.T) {
	env := setupCLIEnv(t)
	source := testsupport.WriteText(t, filepath.Join(env.dir, "chapters.csv"), "Timestamp,Chapter\n00:00:00,Intro\n01:00:00,Finale\n")

	out, _, err := runCLI(t, []string{"chapters", "--table", source}, env.configPath)
	if err != nil {
		t.Fatalf("chapters --table: %v", err)
	}
	requireContains(t, out, "Finale")
	requireContains(t, out, "1:00:00.000")
	requireContains(t, out, "3599999")
	requireContains(t, out, "2 chapters")
}

func TestChaptersCommandAppend(t *testing.T) {
	env := setupCLIEnv(t)
	source := testsupport.WriteText(t, filepath.Join(env.dir, "chapters.txt"), "00:00:00|Intro\n")
	doc := testsupport.WriteText(t, filepath.Join(env.dir, "meta.txt"), ";FFMETADATA1\n")

	out, _, err := runCLI(t, []string{"chapters", "--append", doc, source}, env.configPath)
	if err != nil {
		t.Fatalf("chapters --append: %v", err)
	}
	requireContains(t, out, "Appended 1 chapters")
	data, err := os.ReadFile(doc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != ";FFMETADATA1\n[CHAPTER]\nTIMEBASE=1/1000\nSTART=0\nEND=1\ntitle=Intro\n" {
		t.Fatalf("unexpected document:\n%s", data)
	}
}

func TestChaptersCommandParseError(t *testing.T) {
	env := setupCLIEnv(t)
	source := testsupport.WriteText(t, filepath.Join(env.dir, "chapters.txt"), "00:00:00|Intro\n1:2|Broken\n")

	_, _, err := runCLI(t, []string{"chapters", source}, env.configPath)
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if services.ExitCode(err) != services.ExitFailure {
		t.Fatalf("unexpected exit code %d", services.ExitCode(err))
	}
}

func TestApplyCommandRunsWorkflow(t *testing.T) {
	env := setupCLIEnv(t)
	video := testsupport.WriteText(t, filepath.Join(env.dir, "my movie.mp4"), "original")
	chapters := testsupport.WriteText(t, filepath.Join(env.dir, "chapters.txt"), "00:00:00|Intro\n00:05:00|Main\n")

	out, _, err := runCLI(t, []string{"apply", "-v", video, "-c", chapters}, env.configPath)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	requireContains(t, out, "Command Used:")
	requireContains(t, out, `"`+video+`"`)
	requireContains(t, out, "Process complete")
	if strings.Contains(out, "Warning:") {
		t.Fatalf("expected verified output without warnings:\n%s", out)
	}

	if data, _ := os.ReadFile(video); string(data) != "updated" {
		t.Fatalf("expected updated video in place, got %q", data)
	}
	if data, _ := os.ReadFile(filepath.Join(env.dir, "my movie_original.mp4")); string(data) != "original" {
		t.Fatalf("expected original kept, got %q", data)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "."+filepath.Base(video)+".FFMETADATAFILE.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected metadata document removed, stat err = %v", err)
	}
}

func TestApplyCommandRemovePositional(t *testing.T) {
	env := setupCLIEnv(t)
	video := testsupport.WriteText(t, filepath.Join(env.dir, "clip.mp4"), "original")
	thumb := testsupport.WriteText(t, filepath.Join(env.dir, "thumb.jpg"), "jpg")

	out, _, err := runCLI(t, []string{"apply", "-v", video, "-t", thumb, "--keep-name=false", "remove"}, env.configPath)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	requireContains(t, out, "Original: removed")
	if _, err := os.Stat(video); !os.IsNotExist(err) {
		t.Fatalf("expected original removed, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "clip_updated-thumbnail.mp4")); err != nil {
		t.Fatalf("expected suffixed output: %v", err)
	}
}

func TestApplyCommandDryRun(t *testing.T) {
	env := setupCLIEnv(t)
	video := testsupport.WriteText(t, filepath.Join(env.dir, "clip.mp4"), "original")
	chapters := testsupport.WriteText(t, filepath.Join(env.dir, "chapters.txt"), "00:00:00|Intro\n")

	out, _, err := runCLI(t, []string{"apply", "--dry-run", "-v", video, "-c", chapters}, env.configPath)
	if err != nil {
		t.Fatalf("apply --dry-run: %v", err)
	}
	requireContains(t, out, "-f ffmetadata")
	requireContains(t, out, "title=Intro")
	requireContains(t, out, "Dry run: no files were changed")
	if data, _ := os.ReadFile(video); string(data) != "original" {
		t.Fatalf("expected video untouched, got %q", data)
	}
}

func TestApplyCommandBadChapterFile(t *testing.T) {
	env := setupCLIEnv(t)
	video := testsupport.WriteText(t, filepath.Join(env.dir, "clip.mp4"), "original")
	chapters := testsupport.WriteText(t, filepath.Join(env.dir, "chapters.txt"), "00:00:00|Intro\n5 minutes|Main\n")

	_, stderr, err := runCLI(t, []string{"apply", "-v", video, "-c", chapters}, env.configPath)
	if !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	requireContains(t, stderr, "Check "+chapters)
	if data, _ := os.ReadFile(video); string(data) != "original" {
		t.Fatalf("expected video untouched, got %q", data)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "."+filepath.Base(video)+".FFMETADATAFILE.txt")); !os.IsNotExist(err) {
		t.Fatalf("expected metadata document removed, stat err = %v", err)
	}
}

func TestApplyCommandMissingFFmpeg(t *testing.T) {
	env := setupCLIEnv(t)
	video := testsupport.WriteText(t, filepath.Join(env.dir, "clip.mp4"), "original")
	thumb := testsupport.WriteText(t, filepath.Join(env.dir, "thumb.jpg"), "jpg")
	t.Setenv("CHAPTERMUX_FFMPEG", filepath.Join(env.dir, "no-such-ffmpeg"))

	_, _, err := runCLI(t, []string{"apply", "-v", video, "-t", thumb}, env.configPath)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	requireContains(t, err.Error(), "FFmpeg")
	if data, _ := os.ReadFile(video); string(data) != "original" {
		t.Fatalf("expected video untouched, got %q", data)
	}
}

func TestApplyCommandUsageErrors(t *testing.T) {
	env := setupCLIEnv(t)
	video := testsupport.WriteText(t, filepath.Join(env.dir, "clip.mp4"), "original")

	tests := map[string][]string{
		"no attachments":   {"apply", "-v", video},
		"bad positional":   {"apply", "-v", video, "-t", video, "delete"},
		"bad stitching":    {"apply", "-v", video, "-t", video, "--stitching", "overlap"},
		"unknown flag":     {"apply", "--bogus"},
		"missing chapters": {"apply", "-v", video, "-c", filepath.Join(env.dir, "missing.txt")},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := runCLI(t, args, env.configPath)
			if err == nil {
				t.Fatal("expected error")
			}
			if services.ExitCode(err) != services.ExitUsage {
				t.Fatalf("expected usage exit code, got %d (%v)", services.ExitCode(err), err)
			}
		})
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLIEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "version 7.0.2")
	requireContains(t, out, "FFMETADATAFILE.txt")
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no colour codes in buffered output")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLIEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if services.ExitCode(err) != services.ExitUsage {
		t.Fatalf("expected usage error for existing config, got %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, target)
}

func TestInvalidConfigIsUsageError(t *testing.T) {
	env := setupCLIEnv(t)
	bad := testsupport.WriteText(t, filepath.Join(env.dir, "bad.toml"), "[chapters]\nstitching = \"overlap\"\n")

	_, _, err := runCLI(t, []string{"status"}, bad)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
