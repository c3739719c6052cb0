package workflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"chaptermux/internal/chapters"
	"chaptermux/internal/config"
	"chaptermux/internal/ffmpeg"
	"chaptermux/internal/fileutil"
	"chaptermux/internal/language"
	"chaptermux/internal/logging"
	"chaptermux/internal/media/ffprobe"
	"chaptermux/internal/preflight"
	"chaptermux/internal/services"
)

// ProbeFunc inspects a media file.
type ProbeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

// Option customizes a Runner.
type Option func(*Runner)

// WithFFmpegClient replaces the ffmpeg client, typically with one whose
// command runner is faked.
func WithFFmpegClient(client *ffmpeg.Client) Option {
	return func(r *Runner) {
		if client != nil {
			r.ffmpeg = client
		}
	}
}

// WithProbe replaces the ffprobe inspection used for duration warnings and
// verification. A nil probe disables both.
func WithProbe(probe ProbeFunc) Option {
	return func(r *Runner) {
		r.probe = probe
	}
}

// WithRunIDGenerator overrides run ID generation.
func WithRunIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newRunID = fn
		}
	}
}

// Runner executes chaptermux runs.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	ffmpeg   *ffmpeg.Client
	probe    ProbeFunc
	newRunID func() string
	move     func(src, dst string) error
}

// NewRunner constructs a runner for the given configuration.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	r := &Runner{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		ffmpeg:   ffmpeg.NewClient(cfg.FFmpegBinary(), logger),
		probe:    ffprobe.Inspect,
		newRunID: uuid.NewString,
		move:     fileutil.Move,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// run carries per-run state between stages.
type run struct {
	req      Request
	result   *Result
	language string
	ops      []ffmpeg.Operation
}

// Run executes req. The metadata document is removed on every exit path.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	runID := r.newRunID()
	ctx = services.WithRunID(ctx, runID)
	result := Result{RunID: runID, DryRun: req.DryRun}

	state, err := r.validate(services.WithStage(ctx, StageValidate), req, &result)
	if err != nil {
		return result, err
	}

	logger := logging.WithContext(ctx, r.logger)
	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_started"),
		logging.String("video", state.req.VideoPath),
		logging.Strings("operations", operationNames(state.ops)),
		logging.Bool("dry_run", state.req.DryRun),
	)

	if state.req.DryRun {
		if err := r.plan(services.WithStage(ctx, StageChapters), state); err != nil {
			return result, err
		}
		logger.Info("dry run complete",
			logging.String(logging.FieldEventType, "dry_run_complete"),
			logging.Int("commands", len(result.Commands)),
		)
		return result, nil
	}

	lock, err := acquireLock(state.req.VideoPath)
	if err != nil {
		return result, err
	}
	defer func() {
		if err := lock.release(); err != nil {
			logger.Warn("failed to release video lock",
				logging.Error(err),
				logging.String(logging.FieldEventType, "lock_release_failed"),
				logging.String("lock_path", lock.path),
			)
		}
	}()

	if state.req.ChapterPath != "" {
		defer r.cleanup(services.WithStage(ctx, StageCleanup), result.MetadataPath)
		if err := r.addChapters(services.WithStage(ctx, StageChapters), state); err != nil {
			return result, err
		}
	}

	if err := r.apply(services.WithStage(ctx, StageApply), state); err != nil {
		return result, err
	}

	r.verify(services.WithStage(ctx, StageVerify), state)

	if err := r.finalize(services.WithStage(ctx, StageFinalize), state); err != nil {
		return result, err
	}

	logger.Info("run complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.String("output", result.FinalPath),
		logging.String("original", result.OriginalPath),
		logging.Int("chapters", len(result.Chapters)),
		logging.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

func (r *Runner) validate(ctx context.Context, req Request, result *Result) (*run, error) {
	if req.VideoPath == "" {
		return nil, services.Wrap(services.ErrValidation, StageValidate, "check inputs", "a video file must be provided", nil)
	}
	if !req.HasWork() {
		return nil, services.Wrap(services.ErrValidation, StageValidate, "check inputs",
			"at least one chapter, subtitle, or thumbnail file must be provided", nil)
	}
	req, err := req.normalized()
	if err != nil {
		return nil, err
	}

	failed := preflight.Failures(preflight.CheckInputs(preflight.Inputs{
		VideoPath:     req.VideoPath,
		ChapterPath:   req.ChapterPath,
		SubtitlePath:  req.SubtitlePath,
		ThumbnailPath: req.ThumbnailPath,
	}))
	if len(failed) > 0 {
		return nil, services.Wrap(services.ErrValidation, StageValidate, "check inputs", preflight.Summary(failed), nil)
	}

	state := &run{req: req, result: result}
	if req.SubtitlePath != "" && r.cfg.Subtitles.Language != "" {
		iso3, err := language.ToISO3(r.cfg.Subtitles.Language)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, StageValidate, "subtitles.language", "", err)
		}
		state.language = iso3
	}

	apply := r.applyRequest(state)
	state.ops = apply.Operations()
	result.Operations = state.ops
	result.OutputPath = apply.Output
	if req.ChapterPath != "" {
		result.MetadataPath = apply.Metadata
	}

	if fileutil.Exists(result.OutputPath) {
		return nil, services.Wrap(services.ErrValidation, StageValidate, "check output",
			fmt.Sprintf("output %s already exists", result.OutputPath), nil)
	}
	if req.KeepOriginal {
		target := fileutil.SuffixedPath(req.VideoPath, r.cfg.Output.OriginalSuffix)
		if fileutil.Exists(target) {
			return nil, services.Wrap(services.ErrValidation, StageValidate, "check output",
				fmt.Sprintf("original backup %s already exists", target), nil)
		}
	}
	return state, nil
}

func (r *Runner) applyRequest(state *run) ffmpeg.ApplyRequest {
	req := state.req
	apply := ffmpeg.ApplyRequest{
		Video:            req.VideoPath,
		Subtitle:         req.SubtitlePath,
		Thumbnail:        req.ThumbnailPath,
		SubtitleCodec:    r.cfg.Subtitles.Codec,
		SubtitleLanguage: state.language,
	}
	if req.ChapterPath != "" {
		apply.Metadata = metadataDocPath(req.VideoPath, r.cfg.Metadata.FileName)
	}
	apply.Output = ffmpeg.OutputPath(req.VideoPath, r.cfg.Output.UpdatedSuffix, apply.Operations())
	return apply
}

func (r *Runner) plan(ctx context.Context, state *run) error {
	result := state.result
	apply := r.applyRequest(state)
	if state.req.ChapterPath != "" {
		conv, err := r.converter(state.req).Load(ctx, state.req.ChapterPath)
		if err != nil {
			return err
		}
		r.recordConversion(result, conv)
		var buf bytes.Buffer
		if err := chapters.Render(&buf, conv.Boundaries); err != nil {
			return services.Wrap(services.ErrIO, StageChapters, "render preview", "", err)
		}
		result.MetadataPreview = buf.String()
		result.Commands = append(result.Commands,
			ffmpeg.CommandLine(r.ffmpeg.Binary(), ffmpeg.ExtractMetadataArgs(state.req.VideoPath, apply.Metadata)))
		r.warnPastDuration(ctx, state)
	}
	args, err := ffmpeg.BuildApplyArgs(apply)
	if err != nil {
		return services.Wrap(services.ErrValidation, StageApply, "build apply args", err.Error(), nil)
	}
	result.Commands = append(result.Commands, ffmpeg.CommandLine(r.ffmpeg.Binary(), args))
	return nil
}

func (r *Runner) converter(req Request) *chapters.Converter {
	return chapters.NewConverter(r.logger, req.ChapterFormat, req.Policy)
}

func (r *Runner) recordConversion(result *Result, conv chapters.Conversion) {
	result.Format = conv.Format
	result.Policy = conv.Policy
	result.Chapters = conv.Boundaries
}

func (r *Runner) addChapters(ctx context.Context, state *run) error {
	doc := state.result.MetadataPath
	if err := r.ffmpeg.ExtractMetadata(ctx, state.req.VideoPath, doc); err != nil {
		return err
	}
	state.result.Commands = append(state.result.Commands,
		ffmpeg.CommandLine(r.ffmpeg.Binary(), ffmpeg.ExtractMetadataArgs(state.req.VideoPath, doc)))

	conv, err := r.converter(state.req).Convert(ctx, state.req.ChapterPath, doc)
	if err != nil {
		return err
	}
	r.recordConversion(state.result, conv)
	r.warnPastDuration(ctx, state)
	return nil
}

// warnPastDuration is advisory; probe failures are logged and ignored.
func (r *Runner) warnPastDuration(ctx context.Context, state *run) {
	if !r.cfg.Chapters.WarnPastDuration || r.probe == nil || len(state.result.Chapters) == 0 {
		return
	}
	logger := logging.WithContext(ctx, r.logger)
	probe, err := r.probe(ctx, r.cfg.FFprobeBinary(), state.req.VideoPath)
	if err != nil {
		logger.Debug("duration probe skipped", logging.Error(err))
		return
	}
	duration := probe.DurationMillis()
	if duration <= 0 {
		return
	}
	for i, b := range state.result.Chapters {
		if b.StartMillis <= duration {
			continue
		}
		warning := fmt.Sprintf("chapter %d %q starts at %dms, after the video ends at %dms", i+1, b.Title, b.StartMillis, duration)
		state.result.Warnings = append(state.result.Warnings, warning)
		logging.WarnWithContext(logger, "chapter starts after end of video", "chapter_past_duration",
			logging.Int("chapter", i+1),
			logging.String("title", b.Title),
			logging.Int64("start_ms", b.StartMillis),
			logging.Int64("duration_ms", duration),
			logging.String(logging.FieldErrorHint, "check the chapter list against the video length"),
		)
	}
}

func (r *Runner) apply(ctx context.Context, state *run) error {
	apply := r.applyRequest(state)
	args, err := ffmpeg.BuildApplyArgs(apply)
	if err != nil {
		return services.Wrap(services.ErrValidation, StageApply, "build apply args", err.Error(), nil)
	}
	state.result.Commands = append(state.result.Commands, ffmpeg.CommandLine(r.ffmpeg.Binary(), args))

	logging.WithContext(ctx, r.logger).Info("applying attachments",
		logging.String(logging.FieldEventType, "apply_started"),
		logging.String("output", apply.Output),
		logging.Strings("operations", operationNames(state.ops)),
	)
	return r.ffmpeg.Apply(ctx, apply)
}

// verify probes the output and compares it with what was embedded. Problems
// are reported as warnings since the output already exists.
func (r *Runner) verify(ctx context.Context, state *run) {
	result := state.result
	if !r.cfg.Output.Verify || r.probe == nil {
		return
	}
	logger := logging.WithContext(ctx, r.logger)
	probe, err := r.probe(ctx, r.cfg.FFprobeBinary(), result.OutputPath)
	if err != nil {
		logging.WarnWithContext(logger, "output verification skipped", "verify_skipped",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "install ffprobe or set output.verify = false"),
		)
		return
	}

	var problems []string
	if probe.VideoStreamCount() == 0 {
		problems = append(problems, "output has no video stream")
	}
	if state.req.ChapterPath != "" {
		result.OutputChapters = probe.ChapterCount()
		problems = append(problems, chapterProblems(result.Chapters, probe.Chapters)...)
	}
	if state.req.SubtitlePath != "" {
		problems = append(problems, subtitleProblems(probe, state.language)...)
	}
	if state.req.ThumbnailPath != "" && !probe.HasAttachedPicture() {
		problems = append(problems, "output has no cover art stream")
	}

	for _, problem := range problems {
		result.Warnings = append(result.Warnings, problem)
		logging.WarnWithContext(logger, "output verification failed", "verify_mismatch",
			logging.String("problem", problem),
			logging.String("output", result.OutputPath),
			logging.String(logging.FieldImpact, "output may be missing embedded data"),
		)
	}
	if len(problems) > 0 {
		return
	}
	result.Verified = true
	logger.Debug("output verified",
		logging.Int("chapters", result.OutputChapters),
		logging.Int("video_streams", probe.VideoStreamCount()),
		logging.Int("audio_streams", probe.AudioStreamCount()),
		logging.Int("subtitle_streams", probe.SubtitleStreamCount()),
		logging.Int64("size_bytes", probe.SizeBytes()),
	)
}

// chapterProblems compares probed chapters with the converted boundaries.
// Starts may differ by a millisecond after the container rescales them.
func chapterProblems(want []chapters.Boundary, got []ffprobe.Chapter) []string {
	if len(got) != len(want) {
		return []string{fmt.Sprintf("output has %d chapters, expected %d", len(got), len(want))}
	}
	var problems []string
	for i, b := range want {
		if title := got[i].Title(); title != b.Title {
			problems = append(problems, fmt.Sprintf("chapter %d title is %q, expected %q", i+1, title, b.Title))
		}
		start := int64(math.Round(got[i].StartSeconds() * 1000))
		if diff := start - b.StartMillis; diff > 1 || diff < -1 {
			problems = append(problems, fmt.Sprintf("chapter %d starts at %dms, expected %dms", i+1, start, b.StartMillis))
		}
	}
	return problems
}

func subtitleProblems(probe ffprobe.Result, iso3 string) []string {
	if probe.SubtitleStreamCount() == 0 {
		return []string{"output has no subtitle stream"}
	}
	if iso3 == "" {
		return nil
	}
	var seen []string
	for _, stream := range probe.Streams {
		if stream.CodecType != "subtitle" {
			continue
		}
		tag := stream.Language()
		if code, err := language.ToISO3(tag); err == nil && code == iso3 {
			return nil
		}
		seen = append(seen, tag)
	}
	return []string{fmt.Sprintf("subtitle language is %q, expected %s", strings.Join(seen, ","), iso3)}
}

func (r *Runner) finalize(ctx context.Context, state *run) error {
	result := state.result
	video := state.req.VideoPath
	logger := logging.WithContext(ctx, r.logger)

	if state.req.KeepOriginal {
		target := fileutil.SuffixedPath(video, r.cfg.Output.OriginalSuffix)
		if err := r.move(video, target); err != nil {
			return services.Wrap(services.ErrIO, StageFinalize, "rename original", video, err)
		}
		result.OriginalPath = target
		logger.Info("original kept", logging.String("path", target))
	} else {
		if err := fileutil.RemoveIfExists(video); err != nil {
			return services.Wrap(services.ErrIO, StageFinalize, "remove original", video, err)
		}
		logger.Info("original removed", logging.String("path", video))
	}

	result.FinalPath = result.OutputPath
	if !state.req.InPlace {
		return nil
	}
	if err := r.move(result.OutputPath, video); err != nil {
		return r.restoreOriginal(logger, state, err)
	}
	result.FinalPath = video
	return nil
}

// restoreOriginal puts a renamed original back after the updated output could
// not take its place. The returned error names every file the user must find.
func (r *Runner) restoreOriginal(logger *slog.Logger, state *run, cause error) error {
	result := state.result
	video := state.req.VideoPath
	if result.OriginalPath == "" {
		return services.Wrap(services.ErrIO, StageFinalize, "replace original",
			fmt.Sprintf("original removed; updated video left at %s", result.OutputPath), cause)
	}
	if err := r.move(result.OriginalPath, video); err != nil {
		logger.Error("failed to restore original",
			logging.Error(err),
			logging.String(logging.FieldEventType, "restore_failed"),
			logging.String("original", result.OriginalPath),
			logging.String("output", result.OutputPath),
		)
		return services.Wrap(services.ErrIO, StageFinalize, "replace original",
			fmt.Sprintf("original left at %s; updated video left at %s", result.OriginalPath, result.OutputPath), cause)
	}
	logger.Warn("original restored after failed replace",
		logging.String(logging.FieldEventType, "original_restored"),
		logging.String("path", video),
		logging.String("output", result.OutputPath),
	)
	result.OriginalPath = ""
	return services.Wrap(services.ErrIO, StageFinalize, "replace original",
		fmt.Sprintf("original restored at %s; updated video left at %s", video, result.OutputPath), cause)
}

func (r *Runner) cleanup(ctx context.Context, doc string) {
	if doc == "" {
		return
	}
	if err := fileutil.RemoveIfExists(doc); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "failed to remove metadata document", "cleanup_failed",
			logging.Error(err),
			logging.String("path", doc),
		)
	}
}

func operationNames(ops []ffmpeg.Operation) []string {
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		names = append(names, string(op))
	}
	return names
}

// IsInputError reports whether err stems from the chapter list itself rather
// than the environment.
func IsInputError(err error) bool {
	return errors.Is(err, services.ErrParse) || errors.Is(err, services.ErrFormat)
}
