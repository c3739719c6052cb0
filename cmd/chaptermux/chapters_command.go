package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"chaptermux/internal/chapters"
	"chaptermux/internal/services"
	"chaptermux/internal/workflow"
)

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	var appendPath string
	var asTable bool
	var format string
	var stitching string

	cmd := &cobra.Command{
		Use:   "chapters FILE",
		Short: "Convert a chapter list into ffmetadata chapter blocks",
		Long: `Convert a chapter list into ffmetadata chapter blocks.

By default the blocks are printed to stdout. With --append they are added to
the end of an existing ffmetadata document instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if err := applyChapterOverrides(&req, format, stitching); err != nil {
				return err
			}

			converter := chapters.NewConverter(logger, req.ChapterFormat, req.Policy)
			source := args[0]
			if _, err := os.Stat(source); err != nil {
				return services.Wrap(services.ErrValidation, "cli", "chapters", fmt.Sprintf("chapter file %s", source), err)
			}

			out := cmd.OutOrStdout()
			if strings.TrimSpace(appendPath) != "" {
				conv, err := converter.Convert(cmd.Context(), source, appendPath)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Appended %d chapters to %s (%s stitching)\n", len(conv.Boundaries), appendPath, conv.Policy)
				return nil
			}

			conv, err := converter.Load(cmd.Context(), source)
			if err != nil {
				return err
			}
			if asTable {
				fmt.Fprintln(out, renderChapterTable(conv))
				return nil
			}
			return chapters.Render(out, conv.Boundaries)
		},
	}

	cmd.Flags().StringVar(&appendPath, "append", "", "Append the blocks to this ffmetadata document")
	cmd.Flags().BoolVar(&asTable, "table", false, "Show the stitched chapters as a table")
	cmd.Flags().StringVar(&format, "format", "", "Chapter file format: auto, delimited, or csv")
	cmd.Flags().StringVar(&stitching, "stitching", "", "Chapter stitching: auto, contiguous, or tabular")
	return cmd
}

func renderChapterTable(conv chapters.Conversion) string {
	rows := make([][]string, 0, len(conv.Boundaries))
	for i, b := range conv.Boundaries {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			formatMillis(b.StartMillis),
			strconv.FormatInt(b.StartMillis, 10),
			strconv.FormatInt(b.EndMillis, 10),
			b.Title,
		})
	}
	return tableSpec{
		title:   fmt.Sprintf("%s input, %s stitching", conv.Format, conv.Policy),
		headers: []string{"#", "Timestamp", "Start (ms)", "End (ms)", "Title"},
		rows:    rows,
		aligns:  []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft},
		footer:  []string{"", "", "", "", fmt.Sprintf("%d chapters", len(rows))},
	}.render()
}

// formatMillis renders milliseconds as H:MM:SS.mmm.
func formatMillis(ms int64) string {
	hours := ms / 3_600_000
	ms %= 3_600_000
	minutes := ms / 60_000
	ms %= 60_000
	return fmt.Sprintf("%d:%02d:%02d.%03d", hours, minutes, ms/1000, ms%1000)
}
