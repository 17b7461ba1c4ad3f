package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"openingline/internal/candidates"
	"openingline/internal/discovery"
	"openingline/internal/discovery/tmdb"
	"openingline/internal/services"
)

func newDiscoverCommand(ctx *commandContext) *cobra.Command {
	var year int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Add movies released in a year to the candidate backlog",
		Long: "Query TMDB for popular movies released in a year and add the ones not\n" +
			"already in movies.json as unprocessed candidates. Without --year the\n" +
			"year is asked for interactively.",
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
			runCtx := ctx.runContext(cmd, "discover")

			client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "cli", "discover", "tmdb client", err)
			}
			repo, err := candidates.Open(runCtx, cfg.MoviesPath(), candidates.WithLogger(logger))
			if err != nil {
				return err
			}
			svc := discovery.NewService(cfg.TMDB, client, repo,
				discovery.WithPrompter(ctx.prompterFor(cmd)),
				discovery.WithLogger(logger),
			)

			if !cmd.Flags().Changed("year") {
				year, err = svc.AskYear(runCtx)
				if err != nil {
					return err
				}
			}
			summary, err := svc.Run(runCtx, year)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, summary)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d movies from %d page(s) for %d; added %d new candidate(s) to %s\n",
				summary.Fetched, summary.Pages, summary.Year, summary.Added, repo.Path())
			return nil
		},
	}

	cmd.Flags().IntVarP(&year, "year", "y", 0, "Release year to discover (prompted when omitted)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the run summary as JSON")
	return cmd
}
