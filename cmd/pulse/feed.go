package main

import (
	"github.com/spf13/cobra"

	"github.com/paperpulse/pulse/internal/feed"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Daily personalized paper feed",
	Args:  cobra.NoArgs,
	RunE:  runFeedList, // bare "pulse feed" lists
}

func init() {
	rootCmd.AddCommand(feedCmd)
}

// --- list ---

var (
	feedSavedOnly bool
	feedLimit     int
)

var feedListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the feed, most relevant first",
	Long: `Show the feed for the configured user, sorted by relevance. Saved
items are marked with '*' in human output.

Examples:
  pulse feed list --human
  pulse feed list --saved --limit 5`,
	Args: cobra.NoArgs,
	RunE: runFeedList,
}

func init() {
	feedListCmd.Flags().BoolVar(&feedSavedOnly, "saved", false, "Show only saved items")
	feedListCmd.Flags().IntVar(&feedLimit, "limit", 0, "Maximum items to show (0 = all)")
	// Same flags on the bare "pulse feed" form.
	feedCmd.Flags().BoolVar(&feedSavedOnly, "saved", false, "Show only saved items")
	feedCmd.Flags().IntVar(&feedLimit, "limit", 0, "Maximum items to show (0 = all)")
	feedCmd.AddCommand(feedListCmd)
}

func runFeedList(cmd *cobra.Command, args []string) error {
	items, err := newClient().Feed(cmd.Context(), "")
	if err != nil {
		exitAPIError(err)
	}

	if feedSavedOnly {
		items = feed.Saved(items)
	}
	feed.SortByRelevance(items)
	if feedLimit > 0 && len(items) > feedLimit {
		items = items[:feedLimit]
	}

	if humanOutput {
		if len(items) == 0 {
			outputHuman("Feed is empty.\n")
			return nil
		}
		outputHuman("%s", feed.Digest(items, 0))
		return nil
	}
	return outputJSON(map[string]any{"items": items})
}

// --- save / unsave ---

var feedSaveCmd = &cobra.Command{
	Use:   "save <feed-item-id>",
	Short: "Bookmark a feed item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setSaved(cmd, args[0], true)
	},
}

var feedUnsaveCmd = &cobra.Command{
	Use:   "unsave <feed-item-id>",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setSaved(cmd, args[0], false)
	},
}

func init() {
	feedCmd.AddCommand(feedSaveCmd)
	feedCmd.AddCommand(feedUnsaveCmd)
}

func setSaved(cmd *cobra.Command, id string, saved bool) error {
	result, err := newClient().SetSaved(cmd.Context(), id, saved)
	if err != nil {
		exitAPIError(err)
	}
	if humanOutput {
		if result.IsSaved {
			outputHuman("Saved.\n")
		} else {
			outputHuman("Removed.\n")
		}
		return nil
	}
	return outputJSON(result)
}
