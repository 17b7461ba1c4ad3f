package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"openingline/internal/candidates"
	"openingline/internal/curation"
	"openingline/internal/entries"
	"openingline/internal/services"
	"openingline/internal/subtitles/opensubtitles"
)

func newCurateCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Pick an opening line for a random unprocessed movie",
		Long: "Choose a random unprocessed candidate, download its most popular English\n" +
			"subtitle, and select the opening line from the first cues. Picking the\n" +
			"skip option marks the movie processed without recording an entry.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runCtx := ctx.runContext(cmd, "curate")

			repo, err := candidates.Open(runCtx, cfg.MoviesPath(), candidates.WithLogger(logger))
			if err != nil {
				return err
			}
			sink, err := entries.NewSink(cfg.EntriesPath(), logger)
			if err != nil {
				return err
			}
			subs, err := opensubtitles.New(opensubtitles.Config{
				APIKey:    cfg.OpenSubtitles.APIKey,
				UserAgent: cfg.OpenSubtitles.UserAgent,
				BaseURL:   cfg.OpenSubtitles.BaseURL,
			})
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "curate", "opensubtitles client", err)
			}

			svc := curation.NewService(curation.SettingsFromConfig(cfg), repo, sink, subs, ctx.prompterFor(cmd), logger)
			result, err := svc.Run(runCtx)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			switch result.Outcome {
			case curation.OutcomeKept:
				fmt.Fprintf(out, "Recorded opening line for %s:\n  %q\n", result.Candidate, result.Entry.OpeningLine)
			case curation.OutcomeSkipped:
				fmt.Fprintf(out, "Skipped %s; marked as processed\n", result.Candidate)
			default:
				fmt.Fprintf(out, "Nothing selected for %s; it stays in the backlog\n", result.Candidate)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the curation result as JSON")
	return cmd
}
