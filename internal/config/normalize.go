package config

import (
	"fmt"
	"os"
	"strings"

	"chaptermux/internal/language"
)

func (c *Config) normalize() error {
	c.normalizeFFmpeg()
	c.normalizeMetadata()
	c.normalizeChapters()
	c.normalizeSubtitles()
	c.normalizeOutput()
	return c.normalizeLogging()
}

func (c *Config) normalizeFFmpeg() {
	if value, ok := os.LookupEnv(ffmpegBinaryEnvVar); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.Binary = value
	}
	if value, ok := os.LookupEnv(ffprobeBinaryEnvVar); ok && strings.TrimSpace(value) != "" {
		c.FFmpeg.FFprobeBinary = value
	}
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = defaultFFmpegBinary
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if c.FFmpeg.FFprobeBinary == "" {
		c.FFmpeg.FFprobeBinary = defaultFFprobeBinary
	}
}

func (c *Config) normalizeMetadata() {
	c.Metadata.FileName = strings.TrimSpace(c.Metadata.FileName)
	if c.Metadata.FileName == "" {
		c.Metadata.FileName = defaultMetadataFile
	}
}

func (c *Config) normalizeChapters() {
	c.Chapters.Format = strings.ToLower(strings.TrimSpace(c.Chapters.Format))
	if c.Chapters.Format == "" {
		c.Chapters.Format = defaultChapterFormat
	}
	c.Chapters.Stitching = strings.ToLower(strings.TrimSpace(c.Chapters.Stitching))
	if c.Chapters.Stitching == "" {
		c.Chapters.Stitching = defaultStitching
	}
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.Codec = strings.TrimSpace(c.Subtitles.Codec)
	if c.Subtitles.Codec == "" {
		c.Subtitles.Codec = defaultSubtitleCodec
	}
	c.Subtitles.Language = strings.ToLower(strings.TrimSpace(c.Subtitles.Language))
	if code := language.ToISO2(c.Subtitles.Language); code != "" {
		c.Subtitles.Language = code
	}
}

func (c *Config) normalizeOutput() {
	if strings.TrimSpace(c.Output.OriginalSuffix) == "" {
		c.Output.OriginalSuffix = defaultOriginalSuffix
	}
	if strings.TrimSpace(c.Output.UpdatedSuffix) == "" {
		c.Output.UpdatedSuffix = defaultUpdatedSuffix
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = ""
		return nil
	}
	dir, err := expandPath(c.Logging.Dir)
	if err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	c.Logging.Dir = dir
	return nil
}
