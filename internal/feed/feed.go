// Package feed works with a user's daily paper feed: relevance
// ordering, saved/unsaved partitioning, and plain-text digest
// rendering for the CLI.
package feed

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paperpulse/pulse/internal/api"
)

// SortByRelevance orders items by descending relevance score, most
// relevant first. Ties keep the backend's order.
func SortByRelevance(items []api.FeedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Relevance > items[j].Relevance
	})
}

// Partition splits a feed into saved and unsaved items, preserving
// order within each part.
func Partition(items []api.FeedItem) (saved, unsaved []api.FeedItem) {
	for _, item := range items {
		if item.IsSaved {
			saved = append(saved, item)
		} else {
			unsaved = append(unsaved, item)
		}
	}
	return saved, unsaved
}

// Saved filters a feed down to bookmarked items.
func Saved(items []api.FeedItem) []api.FeedItem {
	saved, _ := Partition(items)
	return saved
}

// Digest renders a feed as a plain-text digest. Items without an
// embedded paper fall back to the paper id. Limit <= 0 means all.
func Digest(items []api.FeedItem, limit int) string {
	if len(items) == 0 {
		return "No papers in your feed yet.\n"
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	var b strings.Builder
	for i, item := range items {
		marker := " "
		if item.IsSaved {
			marker = "*"
		}
		title := item.PaperID
		if item.Paper != nil && item.Paper.Title != "" {
			title = item.Paper.Title
		}
		fmt.Fprintf(&b, "%2d. %s [%.2f] %s\n", i+1, marker, item.Relevance, title)
		if item.Paper != nil {
			if len(item.Paper.Authors) > 0 {
				fmt.Fprintf(&b, "      %s\n", formatAuthors(item.Paper.Authors, 3))
			}
			if item.Paper.PublishedDate != "" || item.Paper.Source != "" {
				fmt.Fprintf(&b, "      %s\n", strings.TrimSpace(item.Paper.PublishedDate+"  "+item.Paper.Source))
			}
		}
		fmt.Fprintf(&b, "      feed item: %s\n\n", item.ID)
	}
	return b.String()
}

// formatAuthors joins up to maxCount author names, appending "et al."
// past the cutoff.
func formatAuthors(authors []string, maxCount int) string {
	if len(authors) <= maxCount {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:maxCount], ", ") + ", et al."
}
