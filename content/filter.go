package content

import "strings"

// FilterAll is the portfolio tag that selects every item.
const FilterAll = "all"

// Filter returns the portfolio items whose category matches tag, ignoring case and
// keeping their order. FilterAll or an empty tag returns items unchanged.
func Filter(items []PortfolioItem, tag string) []PortfolioItem {
	if tag == "" || strings.EqualFold(tag, FilterAll) {
		return items
	}
	out := make([]PortfolioItem, 0, len(items))
	for _, it := range items {
		if strings.EqualFold(it.Category, tag) {
			out = append(out, it)
		}
	}
	return out
}
