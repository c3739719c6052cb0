package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"chaptermux/internal/language"
	"chaptermux/internal/preflight"
	"chaptermux/internal/services"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show tool availability and effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				} else if strings.HasSuffix(r.Detail, "(optional)") {
					kind = statusWarn
				}
				rows = append(rows, []string{r.Name, statusCell(kind, colorize), r.Detail})
			}

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, tableSpec{headers: []string{"Check", "State", "Detail"}, rows: rows}.render())

			configSource := ctx.configPath
			if !ctx.configSeen {
				configSource += " (not found, defaults in use)"
			}
			subtitleLanguage := "unset"
			if cfg.Subtitles.Language != "" {
				subtitleLanguage = fmt.Sprintf("%s (%s)", cfg.Subtitles.Language, language.DisplayName(cfg.Subtitles.Language))
			}
			settings := [][]string{
				{"Config", configSource},
				{"Metadata document", cfg.Metadata.FileName},
				{"Chapter format", cfg.Chapters.Format},
				{"Stitching", cfg.Chapters.Stitching},
				{"Subtitle codec", cfg.Subtitles.Codec},
				{"Subtitle language", subtitleLanguage},
				{"Keep original", yesNo(cfg.Output.KeepOriginal)},
				{"Keep name", yesNo(cfg.Output.InPlace)},
				{"Verify output", yesNo(cfg.Output.Verify)},
			}
			fmt.Fprintln(out)
			for _, line := range renderSectionHeader("Settings", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, tableSpec{headers: []string{"Setting", "Value"}, rows: settings}.render())

			if failed := preflight.Failures(results); len(failed) > 0 {
				return services.Wrap(services.ErrExternalTool, "status", "", preflight.Summary(failed), nil)
			}
			return nil
		},
	}
}
