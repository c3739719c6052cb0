package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"chaptermux/internal/chapters"
	"chaptermux/internal/deps"
	"chaptermux/internal/services"
	"chaptermux/internal/workflow"
)

type applyOptions struct {
	video          string
	chapterFile    string
	subtitleFile   string
	thumbnailFile  string
	removeOriginal bool
	keepName       bool
	format         string
	stitching      string
	dryRun         bool
}

func newApplyCommand(ctx *commandContext) *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "apply -v VIDEO [-c CHAPTERS] [-s SUBTITLES] [-t THUMBNAIL] [remove]",
		Short: "Embed chapters, subtitles, and a thumbnail into a video",
		Long: `Embed chapters, subtitles, and a thumbnail into a video.

The chapter file is either a "HH:MM:SS|Title" list or a CSV with Timestamp
and Chapter columns. The original video is renamed to <name>_original.<ext>
unless "remove" or --remove-original is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if !strings.EqualFold(args[0], "remove") {
					return services.Wrap(services.ErrValidation, "cli", "apply",
						fmt.Sprintf("unexpected argument %q (only \"remove\" is accepted)", args[0]), nil)
				}
				opts.removeOriginal = true
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			req, err := workflow.NewRequest(cfg)
			if err != nil {
				return err
			}
			req.VideoPath = opts.video
			req.ChapterPath = opts.chapterFile
			req.SubtitlePath = opts.subtitleFile
			req.ThumbnailPath = opts.thumbnailFile
			req.DryRun = opts.dryRun
			if opts.removeOriginal {
				req.KeepOriginal = false
			}
			if cmd.Flags().Changed("keep-name") {
				req.InPlace = opts.keepName
			}
			if err := applyChapterOverrides(&req, opts.format, opts.stitching); err != nil {
				return err
			}

			if !req.DryRun {
				if missing := deps.MissingRequired(deps.CheckBinaries(deps.Requirements(cfg))); len(missing) > 0 {
					return services.Wrap(services.ErrExternalTool, "cli", "apply",
						"required tools not found: "+strings.Join(missing, ", "), nil)
				}
			}

			runner := workflow.NewRunner(cfg, logger)
			result, err := runner.Run(cmd.Context(), req)
			if err != nil {
				if workflow.IsInputError(err) {
					fmt.Fprintf(cmd.ErrOrStderr(), "Check %s: expected HH:MM:SS|Title lines or a CSV with Timestamp and Chapter columns\n", opts.chapterFile)
				}
				return err
			}
			printApplyResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.video, "video-file", "v", "", "Video file to update")
	flags.StringVarP(&opts.chapterFile, "chapter-file", "c", "", "Chapter list (HH:MM:SS|Title lines or CSV)")
	flags.StringVarP(&opts.subtitleFile, "subtitle-file", "s", "", "Subtitle file to embed")
	flags.StringVarP(&opts.thumbnailFile, "thumbnail-file", "t", "", "Image to embed as cover art")
	flags.BoolVar(&opts.removeOriginal, "remove-original", false, "Delete the original video instead of renaming it")
	flags.BoolVar(&opts.keepName, "keep-name", true, "Move the updated video back to the original file name")
	flags.StringVar(&opts.format, "format", "", "Chapter file format: auto, delimited, or csv")
	flags.StringVar(&opts.stitching, "stitching", "", "Chapter stitching: auto, contiguous, or tabular")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Print the ffmpeg commands and chapters without changing files")
	return cmd
}

// applyChapterOverrides replaces the configured chapter settings with flag
// values when present.
func applyChapterOverrides(req *workflow.Request, format, stitching string) error {
	if strings.TrimSpace(format) != "" {
		parsed, err := chapters.ParseFormat(format)
		if err != nil {
			return services.Wrap(services.ErrValidation, "cli", "--format", err.Error(), nil)
		}
		req.ChapterFormat = parsed
	}
	if strings.TrimSpace(stitching) != "" {
		parsed, err := chapters.ParsePolicy(stitching)
		if err != nil {
			return services.Wrap(services.ErrValidation, "cli", "--stitching", err.Error(), nil)
		}
		req.Policy = parsed
	}
	return nil
}

func printApplyResult(out io.Writer, result workflow.Result) {
	for _, command := range result.Commands {
		fmt.Fprintf(out, "Command Used: %s\n", command)
	}
	if result.DryRun {
		if result.MetadataPreview != "" {
			fmt.Fprintf(out, "\nChapter blocks (%s, %s stitching):\n%s", result.Format, result.Policy, result.MetadataPreview)
		}
		for _, warning := range result.Warnings {
			fmt.Fprintf(out, "Warning: %s\n", warning)
		}
		fmt.Fprintln(out, "Dry run: no files were changed")
		return
	}

	for _, warning := range result.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", warning)
	}
	if len(result.Chapters) > 0 {
		fmt.Fprintf(out, "Chapters: %d (%s stitching)\n", len(result.Chapters), result.Policy)
	}
	if result.OriginalPath != "" {
		fmt.Fprintf(out, "Original: %s\n", result.OriginalPath)
	} else {
		fmt.Fprintln(out, "Original: removed")
	}
	fmt.Fprintf(out, "Output: %s\n", result.FinalPath)
	fmt.Fprintln(out, "Process complete")
}
