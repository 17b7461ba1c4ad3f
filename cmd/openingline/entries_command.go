package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"openingline/internal/entries"
	"openingline/internal/textutil"
)

const entryLineWidth = 72

func newEntriesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var full bool

	cmd := &cobra.Command{
		Use:   "entries",
		Short: "List curated opening lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			sink, err := entries.NewSink(cfg.EntriesPath(), logger)
			if err != nil {
				return err
			}
			list, err := sink.List(ctx.runContext(cmd, "entries"))
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, list)
			}
			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintln(out, "No entries recorded yet. Run `openingline curate` to add one.")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for i, entry := range list {
				line := textutil.Ternary(full, entry.OpeningLine, truncate(entry.OpeningLine, entryLineWidth))
				rows = append(rows, []string{strconv.Itoa(i + 1), entry.Movie, strconv.Itoa(entry.Year), line})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Movie", "Year", "Opening line"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print entries as JSON")
	cmd.Flags().BoolVar(&full, "full", false, "Do not shorten long opening lines")
	return cmd
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if width <= 1 || len(runes) <= width {
		return value
	}
	return string(runes[:width-1]) + "…"
}
