package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/lexicon/internal/adapter/postgres"
	"github.com/heartmarshall/lexicon/internal/app"
	"github.com/heartmarshall/lexicon/internal/config"
	"github.com/heartmarshall/lexicon/internal/domain"
	"github.com/heartmarshall/lexicon/internal/service/search"
)

// lookupService is the part of search.Service the commands use.
type lookupService interface {
	Sources(lang string) []search.SourceView
	Search(ctx context.Context, key, query string, opts search.SearchOptions) search.Result
	FetchFull(ctx context.Context, sourceID, word, language string) (*domain.FullEntry, error)
}

// serviceFactory builds the service for one invocation. The returned func
// releases its resources.
type serviceFactory func(ctx context.Context, configPath string) (lookupService, func(), error)

func defaultServiceFactory(ctx context.Context, configPath string) (lookupService, func(), error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := app.NewLogger(cfg.Log)

	var pool *pgxpool.Pool
	if cfg.Database.Enabled() {
		pool, err = postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
	}

	svc := app.NewSearchService(ctx, cfg, logger, pool, nil)
	return svc, func() {
		if pool != nil {
			pool.Close()
		}
	}, nil
}

type rootOptions struct {
	configPath string
	jsonOut    bool
	lang       string
}

func newRootCommand(factory serviceFactory) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "lookup",
		Short:         "Search the configured dictionary sources",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config YAML (default: $CONFIG_PATH or ./config.yaml)")
	flags.BoolVar(&opts.jsonOut, "json", false, "print JSON instead of a table")
	flags.StringVar(&opts.lang, "lang", "", "ISO 639 language code")

	withService := func(run func(cmd *cobra.Command, svc lookupService, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			svc, release, err := factory(cmd.Context(), opts.configPath)
			if err != nil {
				return err
			}
			defer release()
			return run(cmd, svc, args)
		}
	}

	root.AddCommand(
		newSourcesCommand(opts, withService),
		newSearchCommand(opts, withService),
		newFullCommand(opts, withService),
		newVersionCommand(),
	)
	return root
}

type serviceRunner func(run func(cmd *cobra.Command, svc lookupService, args []string) error) func(*cobra.Command, []string) error

func newSourcesCommand(opts *rootOptions, withService serviceRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the sources accepting --lang",
		Args:  cobra.NoArgs,
		RunE: withService(func(cmd *cobra.Command, svc lookupService, _ []string) error {
			sources := svc.Sources(strings.ToLower(opts.lang))
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), sources)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tDEFAULT\tLANGUAGES")
			for _, s := range sources {
				langs := "all"
				if !s.SupportedLanguages.IsAll() {
					langs = strings.Join(s.SupportedLanguages, ",")
				}
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", s.ID, s.DisplayName, s.EnabledByDefault, langs)
			}
			return tw.Flush()
		}),
	}
}

func newSearchCommand(opts *rootOptions, withService serviceRunner) *cobra.Command {
	var sources []string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search every enabled source and print ranked results",
		Args:  cobra.MinimumNArgs(1),
		RunE: withService(func(cmd *cobra.Command, svc lookupService, args []string) error {
			searchOpts := search.SearchOptions{Language: strings.ToLower(opts.lang)}
			if cmd.Flags().Changed("sources") {
				searchOpts.Enabled = append([]string{}, sources...)
			}

			res := svc.Search(cmd.Context(), "", strings.Join(args, " "), searchOpts)
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), res.Ranked)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SOURCE\tWORD\tTRANSLATION")
			for _, r := range res.Ranked {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.SourceID, r.Word, oneLine(r.Translation))
			}
			return tw.Flush()
		}),
	}
	cmd.Flags().StringSliceVar(&sources, "sources", nil, "source ids to query (default: registry defaults)")
	return cmd
}

func newFullCommand(opts *rootOptions, withService serviceRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "full <source> <word>",
		Short: "Print the complete entry of a word from one source",
		Args:  cobra.MinimumNArgs(2),
		RunE: withService(func(cmd *cobra.Command, svc lookupService, args []string) error {
			entry, err := svc.FetchFull(cmd.Context(), args[0], strings.Join(args[1:], " "), strings.ToLower(opts.lang))
			if err != nil {
				return fmt.Errorf("full %s %q: %w", args[0], strings.Join(args[1:], " "), err)
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), entry)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", entry.Word, entry.Phonetic)
			for _, m := range entry.Meanings {
				fmt.Fprintf(out, "\n%s\n", m.PartOfSpeech)
				for i, d := range m.Definitions {
					fmt.Fprintf(out, "  %d. %s\n", i+1, oneLine(d.Definition))
					if d.Example != "" {
						fmt.Fprintf(out, "     e.g. %s\n", oneLine(d.Example))
					}
				}
			}
			return nil
		}),
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), app.BuildVersion())
			return err
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
