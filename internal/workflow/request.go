package workflow

import (
	"path/filepath"
	"strings"

	"chaptermux/internal/chapters"
	"chaptermux/internal/config"
	"chaptermux/internal/ffmpeg"
	"chaptermux/internal/services"
)

// Stage names stamped on the run context.
const (
	StageValidate = "validate"
	StageLock     = "lock"
	StageChapters = "chapters"
	StageApply    = "apply"
	StageVerify   = "verify"
	StageFinalize = "finalize"
	StageCleanup  = "cleanup"
)

// Request describes a single run.
type Request struct {
	VideoPath     string
	ChapterPath   string
	SubtitlePath  string
	ThumbnailPath string

	// KeepOriginal renames the source video instead of deleting it.
	KeepOriginal bool
	// InPlace moves the updated output back to VideoPath.
	InPlace bool
	// DryRun reports the planned commands and chapters without touching files.
	DryRun bool

	ChapterFormat chapters.Format
	Policy        chapters.Policy
}

// NewRequest returns a request seeded from the configuration defaults.
func NewRequest(cfg *config.Config) (Request, error) {
	format, err := chapters.ParseFormat(cfg.Chapters.Format)
	if err != nil {
		return Request{}, services.Wrap(services.ErrConfiguration, "config", "chapters.format", err.Error(), nil)
	}
	policy, err := chapters.ParsePolicy(cfg.Chapters.Stitching)
	if err != nil {
		return Request{}, services.Wrap(services.ErrConfiguration, "config", "chapters.stitching", err.Error(), nil)
	}
	return Request{
		KeepOriginal:  cfg.Output.KeepOriginal,
		InPlace:       cfg.Output.InPlace,
		ChapterFormat: format,
		Policy:        policy,
	}, nil
}

// HasWork reports whether at least one attachment is requested.
func (r Request) HasWork() bool {
	return r.ChapterPath != "" || r.SubtitlePath != "" || r.ThumbnailPath != ""
}

func (r Request) normalized() (Request, error) {
	out := r
	fields := []*string{&out.VideoPath, &out.ChapterPath, &out.SubtitlePath, &out.ThumbnailPath}
	for _, field := range fields {
		trimmed := strings.TrimSpace(*field)
		if trimmed == "" {
			*field = ""
			continue
		}
		abs, err := filepath.Abs(trimmed)
		if err != nil {
			return Request{}, services.Wrap(services.ErrValidation, StageValidate, "resolve path", trimmed, err)
		}
		*field = abs
	}
	return out, nil
}

// Result summarizes a run.
type Result struct {
	RunID      string
	DryRun     bool
	Operations []ffmpeg.Operation

	MetadataPath string
	OutputPath   string
	// FinalPath is where the updated video ends up.
	FinalPath string
	// OriginalPath is where the source video was moved, empty when deleted.
	OriginalPath string

	Format   chapters.Format
	Policy   chapters.Policy
	Chapters []chapters.Boundary
	// MetadataPreview holds the rendered chapter blocks for dry runs.
	MetadataPreview string

	Commands []string
	Warnings []string

	Verified       bool
	OutputChapters int
}
