package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"openingline/internal/candidates"
	"openingline/internal/entries"
)

type statusReport struct {
	MoviesFile  string           `json:"movies_file"`
	EntriesFile string           `json:"entries_file"`
	Entries     int              `json:"entries"`
	Backlog     candidates.Stats `json:"backlog"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the candidate backlog by release year",
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
			runCtx := ctx.runContext(cmd, "status")

			repo, err := candidates.Open(runCtx, cfg.MoviesPath(), candidates.WithLogger(logger))
			if err != nil {
				return err
			}
			sink, err := entries.NewSink(cfg.EntriesPath(), logger)
			if err != nil {
				return err
			}
			recorded, err := sink.List(runCtx)
			if err != nil {
				return err
			}

			report := statusReport{
				MoviesFile:  repo.Path(),
				EntriesFile: sink.Path(),
				Entries:     len(recorded),
				Backlog:     repo.Stats(),
			}
			if jsonOutput {
				return writeJSON(cmd, report)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderStatus(report, shouldColorize(cmd.OutOrStdout())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print status as JSON")
	return cmd
}

func renderStatus(report statusReport, colorize bool) string {
	var b strings.Builder
	for _, line := range renderSectionHeader("Datasets", colorize) {
		b.WriteString(line + "\n")
	}
	b.WriteString(renderStatusLine("Movies", statusInfo, report.MoviesFile, colorize) + "\n")
	b.WriteString(renderStatusLine("Entries", statusInfo, report.EntriesFile, colorize) + "\n")
	b.WriteString("\n")

	for _, line := range renderSectionHeader("Backlog", colorize) {
		b.WriteString(line + "\n")
	}
	stats := report.Backlog
	b.WriteString(renderStatusLine("Candidates", backlogKind(stats),
		fmt.Sprintf("%d total, %d processed, %d unprocessed", stats.Total, stats.Processed, stats.Unprocessed), colorize) + "\n")
	b.WriteString(renderStatusLine("Curated entries", statusInfo, strconv.Itoa(report.Entries), colorize) + "\n")

	if len(stats.Years) == 0 {
		b.WriteString("\nNo candidates yet. Run `openingline discover` to add some.\n")
		return b.String()
	}
	rows := make([][]string, 0, len(stats.Years))
	for _, ys := range stats.Years {
		rows = append(rows, []string{
			strconv.Itoa(ys.Year),
			strconv.Itoa(ys.Total),
			strconv.Itoa(ys.Processed),
			strconv.Itoa(ys.Unprocessed),
		})
	}
	b.WriteString("\n")
	b.WriteString(renderTable(
		[]string{"Year", "Total", "Processed", "Unprocessed"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
	b.WriteString("\n")
	return b.String()
}

func backlogKind(stats candidates.Stats) statusKind {
	switch {
	case stats.Total == 0:
		return statusWarn
	case stats.Unprocessed == 0:
		return statusOK
	default:
		return statusInfo
	}
}
