package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"chaptermux/internal/language"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMetadata(); err != nil {
		return err
	}
	if err := c.validateChapters(); err != nil {
		return err
	}
	if err := c.validateSubtitles(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMetadata() error {
	name := c.Metadata.FileName
	if name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("metadata.file_name must be a plain file name, got %q", name)
	}
	return nil
}

func (c *Config) validateChapters() error {
	if err := oneOf("chapters.format", c.Chapters.Format, "auto", "delimited", "csv"); err != nil {
		return err
	}
	return oneOf("chapters.stitching", c.Chapters.Stitching, "auto", "contiguous", "tabular")
}

func (c *Config) validateSubtitles() error {
	if c.Subtitles.Language != "" && !language.Valid(c.Subtitles.Language) {
		return fmt.Errorf("subtitles.language %q is not a known language code", c.Subtitles.Language)
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.OriginalSuffix == c.Output.UpdatedSuffix {
		return errors.New("output.original_suffix and output.updated_suffix must differ")
	}
	for key, value := range map[string]string{
		"output.original_suffix": c.Output.OriginalSuffix,
		"output.updated_suffix":  c.Output.UpdatedSuffix,
	} {
		if strings.ContainsAny(value, `/\`) {
			return fmt.Errorf("%s must not contain path separators", key)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if err := oneOf("logging.format", c.Logging.Format, "console", "json"); err != nil {
		return err
	}
	return oneOf("logging.level", c.Logging.Level, "debug", "info", "warn", "error")
}

func oneOf(key, value string, allowed ...string) error {
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", key, strings.Join(allowed, ", "), value)
}
