// Package main provides the activityctl CLI entry point.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/feed"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/heatmap"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/search"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/statestore"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/topics"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command for the activityctl CLI.
func newRootCmd() *cobra.Command {
	var snapshotPath string

	rootCmd := &cobra.Command{
		Use:     "activityctl",
		Short:   "Inspect an activity stream snapshot",
		Long:    "Activityctl runs feed, search, topic and heatmap queries against a JSON snapshot of activity items.",
		Version: version,
	}

	rootCmd.SetVersionTemplate("activityctl version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "activities.json", "path to the activity snapshot JSON file")

	rootCmd.AddCommand(newFeedCmd(&snapshotPath))
	rootCmd.AddCommand(newSearchCmd(&snapshotPath))
	rootCmd.AddCommand(newTopicsCmd(&snapshotPath))
	rootCmd.AddCommand(newHeatmapCmd(&snapshotPath))
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

// loadSnapshot reads and sorts the activity items from a snapshot file.
func loadSnapshot(path string) ([]models.ActivityItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var items []models.ActivityItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}

	for i, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("snapshot item %d: %w", i, err)
		}
	}

	return feed.Aggregate(items, models.FeedQuery{})
}

// newFeedCmd creates the feed subcommand.
func newFeedCmd(snapshotPath *string) *cobra.Command {
	var sources []string
	var limit int
	var after, before string

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Print the aggregated feed, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadSnapshot(*snapshotPath)
			if err != nil {
				return err
			}

			var query models.FeedQuery
			query.Limit = limit
			for _, raw := range sources {
				source, err := models.ParseSource(raw)
				if err != nil {
					return err
				}
				query.Sources = append(query.Sources, source)
			}
			if after != "" {
				t, err := time.Parse("2006-01-02", after)
				if err != nil {
					return fmt.Errorf("invalid --after: %w", err)
				}
				query.After = &t
			}
			if before != "" {
				t, err := time.Parse("2006-01-02", before)
				if err != nil {
					return fmt.Errorf("invalid --before: %w", err)
				}
				query.Before = &t
			}

			filtered, err := feed.Aggregate(items, query)
			if err != nil {
				return err
			}

			for _, item := range filtered {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-22s %-10s %s\n",
					item.Timestamp.Format("2006-01-02 15:04"), item.Source, item.Verb, item.Title)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d items\n", len(filtered))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&sources, "sources", nil, "source types to include")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of items (0 = no limit)")
	cmd.Flags().StringVar(&after, "after", "", "only items on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&before, "before", "", "only items on or before this date (YYYY-MM-DD)")

	return cmd
}

// newSearchCmd creates the search subcommand.
func newSearchCmd(snapshotPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a weighted fuzzy search over the snapshot",
		Long:  `Search supports quoted phrases, tag: and source: filters, and -source exclusions, e.g. activityctl search 'tag:golang "worker pool" -code-commit'.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadSnapshot(*snapshotPath)
			if err != nil {
				return err
			}

			engine := search.NewEngine(items)
			results, err := engine.Search(args[0])
			if err != nil {
				return err
			}

			for _, result := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%6.2f  %-22s %s\n",
					result.Score, result.Item.Source, result.Item.Title)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d results\n", len(results))
			return nil
		},
	}
	return cmd
}

// newTopicsCmd creates the topics subcommand.
func newTopicsCmd(snapshotPath *string) *cobra.Command {
	var limit int
	var keywords bool

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Extract topics and their co-occurrences from the snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadSnapshot(*snapshotPath)
			if err != nil {
				return err
			}

			extractor := topics.NewExtractor(topics.Options{IncludeKeywords: keywords})
			topicList := extractor.Extract(items)
			if limit > 0 && limit < len(topicList) {
				topicList = topicList[:limit]
			}

			for _, topic := range topicList {
				related := ""
				if len(topic.RelatedTopics) > 0 {
					related = "  (" + strings.Join(topic.RelatedTopics, ", ") + ")"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%4d  %5.1f%%  %s%s\n",
					topic.Count, topic.Percentage, topic.Name, related)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of topics (0 = no limit)")
	cmd.Flags().BoolVar(&keywords, "keywords", false, "also mine title keywords, not just tags")

	return cmd
}

// newHeatmapCmd creates the heatmap subcommand.
func newHeatmapCmd(snapshotPath *string) *cobra.Command {
	var start, end, pngPath string

	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Summarize per-day activity counts and streaks",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := loadSnapshot(*snapshotPath)
			if err != nil {
				return err
			}

			endTime := time.Now()
			startTime := endTime.AddDate(0, 0, -90)
			if start != "" {
				if startTime, err = time.Parse("2006-01-02", start); err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
			}
			if end != "" {
				if endTime, err = time.Parse("2006-01-02", end); err != nil {
					return fmt.Errorf("invalid --end: %w", err)
				}
			}

			stats, err := heatmap.Build(items, startTime, endTime)
			if err != nil {
				return err
			}

			if pngPath != "" {
				out, err := os.Create(pngPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", pngPath, err)
				}
				defer out.Close()
				if err := heatmap.RenderPNG(stats, out); err != nil {
					return fmt.Errorf("rendering heatmap: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", pngPath)
				return nil
			}

			for _, day := range stats.Days {
				if day.Count == 0 {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %3d  %s\n",
					day.Date, day.Count, strings.Join(day.SourceNames(), ", "))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total %d, max/day %d, current streak %d, longest streak %d\n",
				stats.TotalActivities, stats.MaxCount, stats.CurrentStreak, stats.LongestStreak)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "range start (YYYY-MM-DD, default 90 days ago)")
	cmd.Flags().StringVar(&end, "end", "", "range end (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&pngPath, "png", "", "write a calendar-grid PNG to this path instead of text output")

	return cmd
}

// newExportCmd creates the export subcommand.
func newExportCmd() *cobra.Command {
	var statePath, format, outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a saved bookmarks document as JSON or CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(statePath)
			if err != nil {
				return fmt.Errorf("reading bookmarks: %w", err)
			}

			var doc statestore.BookmarksDoc
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("parsing bookmarks %s: %w", statePath, err)
			}

			var out []byte
			switch format {
			case "json":
				out, err = statestore.ExportBookmarksJSON(doc)
			case "csv":
				out, err = statestore.ExportBookmarksCSV(doc)
			default:
				return fmt.Errorf("invalid format %q: must be 'json' or 'csv'", format)
			}
			if err != nil {
				return err
			}

			if outPath == "" {
				fmt.Fprint(cmd.OutOrStdout(), string(out))
				return nil
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&statePath, "state", "bookmarks.json", "path to the bookmarks document")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or csv")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")

	return cmd
}
