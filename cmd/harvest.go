package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Engineering-Geek/Scraper/internal/scrape"
)

const queryDateLayout = "2006-01-02"

// harvestFlags collects the per-invocation inputs shared by the links
// and harvest subcommands.
type harvestFlags struct {
	queries []string
	start   string
	end     string
	site    string
}

func (f *harvestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.queries, "query", "q", nil, "search query (repeatable)")
	cmd.Flags().StringVar(&f.start, "start", "", "window start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.end, "end", "", "window end date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.site, "site", "google_news", "search site: google_news or marketwatch")
	_ = cmd.MarkFlagRequired("query")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
}

func (f *harvestFlags) parse() ([]scrape.Query, error) {
	start, err := time.Parse(queryDateLayout, f.start)
	if err != nil {
		return nil, fmt.Errorf("parse start date: %w", err)
	}
	end, err := time.Parse(queryDateLayout, f.end)
	if err != nil {
		return nil, fmt.Errorf("parse end date: %w", err)
	}
	if end.Before(start) {
		return nil, errors.New("end date must not be before start date")
	}
	queries := make([]scrape.Query, 0, len(f.queries))
	for _, text := range f.queries {
		queries = append(queries, scrape.NewQuery(text, start, end))
	}
	return queries, nil
}

// newHarvestCmd creates the 'harvest' subcommand, which runs the full
// link discovery and article enrichment pipeline.
func newHarvestCmd() *cobra.Command {
	flags := &harvestFlags{}
	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Discover links and enrich the articles behind them",
		Long: `Harvests news links for each query across the configured date windows,
then downloads, parses, and summarizes every discovered article. Link
and article tables are written to the configured blob store.`,

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHarvest(cmd.Context(), flags, false)
		},
	}
	flags.register(cmd)
	return cmd
}

// newLinksCmd creates the 'links' subcommand, which stops after link
// discovery.
func newLinksCmd() *cobra.Command {
	flags := &harvestFlags{}
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Discover news links without downloading articles",

		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHarvest(cmd.Context(), flags, true)
		},
	}
	flags.register(cmd)
	return cmd
}

func runHarvest(ctx context.Context, flags *harvestFlags, linksOnly bool) error {
	queries, err := flags.parse()
	if err != nil {
		return err
	}

	pipe, err := buildPipeline(ctx, rt.cfg, flags.site, rt.logger)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}
	defer pipe.cleanup()

	var results []scrape.HarvestResult
	if linksOnly {
		results, err = pipe.harvester.RunLinks(ctx, queries)
	} else {
		results, err = pipe.harvester.Run(ctx, queries)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run harvest: %w", err)
	}

	for _, result := range results {
		rt.logger.Info("query finished",
			zap.String("query", result.Query.Text),
			zap.Int("link_rows", len(result.Links.Rows)),
			zap.Int("article_rows", len(result.Articles.Rows)),
		)
	}
	return nil
}
