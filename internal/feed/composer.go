// Package feed assembles deal lists with per-deal engagement state for the
// list and detail views.
package feed

import (
	"sort"

	"github.com/knowbargain/kbargain/internal/domain"
)

// SortKey selects the ordering of a composed feed.
type SortKey string

const (
	// SortNewest keeps the server's order, which is newest first.
	SortNewest    SortKey = "newest"
	SortTop       SortKey = "top"
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortDiscussed SortKey = "discussed"
)

// CategoryAll passes every deal through the category filter.
const CategoryAll = "all"

// Compose merges deals with engagement state into a render-ready sequence,
// applying the category filter and sort key. Neither input is mutated; the
// sort is stable so equal keys keep the server's relative order. Deals with
// no engagement record get a clean state mirroring the deal's own score.
func Compose(deals []domain.Deal, engagement map[int64]domain.Engagement, category string, key SortKey) []domain.DealView {
	views := make([]domain.DealView, 0, len(deals))
	for _, d := range deals {
		if category != "" && category != CategoryAll && d.Category != category {
			continue
		}
		eng, ok := engagement[d.ID]
		if !ok {
			eng = domain.Engagement{
				Direction:      domain.VoteNone,
				DisplayedScore: d.Score,
				Phase:          domain.PhaseClean,
			}
		}
		views = append(views, domain.DealView{Deal: d, Engagement: eng})
	}

	switch key {
	case SortTop:
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].Engagement.DisplayedScore > views[j].Engagement.DisplayedScore
		})
	case SortPriceAsc:
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].Price < views[j].Price
		})
	case SortPriceDesc:
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].Price > views[j].Price
		})
	case SortDiscussed:
		sort.SliceStable(views, func(i, j int) bool {
			return views[i].CommentCount > views[j].CommentCount
		})
	default:
		// SortNewest: server order, nothing to do.
	}

	return views
}

// FilterStatus returns the subset of views whose deal has the given status,
// preserving order. Used by the saved-deals view's active/expired tabs.
func FilterStatus(views []domain.DealView, status domain.DealStatus) []domain.DealView {
	out := make([]domain.DealView, 0, len(views))
	for _, v := range views {
		if v.Status == status {
			out = append(out, v)
		}
	}
	return out
}
