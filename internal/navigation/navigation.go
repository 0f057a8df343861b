// Package navigation orders the collections listing for display.
package navigation

import (
	"sort"

	"storyfeed/pkg/types"
)

// Sort returns a copy of subs ordered by subscriber count, descending.
// Collections with equal counts keep their listing order.
func Sort(subs []types.Subreddit) []types.Subreddit {
	out := make([]types.Subreddit, len(subs))
	copy(out, subs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Data.Subscribers > out[j].Data.Subscribers
	})
	return out
}

// Items sorts subs and marks the one whose url equals activeURL as selected.
func Items(subs []types.Subreddit, activeURL string) []types.NavigationItem {
	sorted := Sort(subs)
	items := make([]types.NavigationItem, len(sorted))
	for i, s := range sorted {
		items[i] = types.NavigationItem{
			Subreddit: s.Data,
			Selected:  activeURL != "" && s.Data.URL == activeURL,
		}
	}
	return items
}
