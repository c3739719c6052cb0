package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"chaptermux/internal/config"
)

func TestLoadDefaultConfigWhenFileAbsent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	want := filepath.Join(tempHome, ".config", "chaptermux", "config.toml")
	if resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected binaries: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
	if cfg.Metadata.FileName != "FFMETADATAFILE.txt" {
		t.Fatalf("unexpected metadata file name %q", cfg.Metadata.FileName)
	}
	if cfg.Chapters.Format != "auto" || cfg.Chapters.Stitching != "auto" {
		t.Fatalf("unexpected chapter defaults: %+v", cfg.Chapters)
	}
	if !cfg.Output.KeepOriginal || !cfg.Output.InPlace || !cfg.Output.Verify {
		t.Fatalf("unexpected output defaults: %+v", cfg.Output)
	}
	if cfg.Subtitles.Codec != "mov_text" {
		t.Fatalf("unexpected subtitle codec %q", cfg.Subtitles.Codec)
	}
}

func TestLoadFromFileNormalizesValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "chaptermux.toml")
	contents := `
[chapters]
format = " CSV "
stitching = "Tabular"

[subtitles]
language = "ENG"

[logging]
level = "DEBUG"
dir = "~/logs"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected explicit path to resolve, got %q exists=%v", resolved, exists)
	}
	if cfg.Chapters.Format != "csv" || cfg.Chapters.Stitching != "tabular" {
		t.Fatalf("expected normalized chapter settings, got %+v", cfg.Chapters)
	}
	if cfg.Subtitles.Language != "en" {
		t.Fatalf("expected canonical language code, got %q", cfg.Subtitles.Language)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased level, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Dir != filepath.Join(tempHome, "logs") {
		t.Fatalf("expected expanded log dir, got %q", cfg.Logging.Dir)
	}
	if cfg.Metadata.FileName != "FFMETADATAFILE.txt" {
		t.Fatalf("expected default metadata name preserved, got %q", cfg.Metadata.FileName)
	}
}

func TestLoadFindsProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("chaptermux.toml", []byte("[metadata]\nfile_name = \"meta.txt\"\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "chaptermux.toml" {
		t.Fatalf("expected project config, got %q exists=%v", resolved, exists)
	}
	if cfg.Metadata.FileName != "meta.txt" {
		t.Fatalf("unexpected metadata file name %q", cfg.Metadata.FileName)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[chapters]\nunknown = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestEnvironmentOverridesBinaries(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("CHAPTERMUX_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("expected env override, got %q", cfg.FFmpegBinary())
	}
}

func TestValidateRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"format", func(c *config.Config) { c.Chapters.Format = "xml" }, "chapters.format"},
		{"stitching", func(c *config.Config) { c.Chapters.Stitching = "overlap" }, "chapters.stitching"},
		{"metadata path", func(c *config.Config) { c.Metadata.FileName = "../meta.txt" }, "metadata.file_name"},
		{"suffix clash", func(c *config.Config) { c.Output.UpdatedSuffix = c.Output.OriginalSuffix }, "must differ"},
		{"suffix separator", func(c *config.Config) { c.Output.OriginalSuffix = "a/b" }, "path separators"},
		{"subtitle language", func(c *config.Config) { c.Subtitles.Language = "12" }, "subtitles.language"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleProducesValidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var parsed map[string]any
	if err := toml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample failed to load: %v", err)
	}
}

func TestExpandPathHandlesTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/videos")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "videos") {
		t.Fatalf("unexpected expansion %q", got)
	}
}
