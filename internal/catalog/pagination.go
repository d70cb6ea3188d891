package catalog

import "github.com/mrlokans/atlas/internal/entities"

// PageSize is the number of cards added by each "show more".
const PageSize = 12

// Advance returns the visible count after loading one more page.
func Advance(visible int) int {
	return visible + PageSize
}

// Reset returns the visible count used after any filter change.
func Reset() int {
	return PageSize
}

// HasMore reports whether the "show more" affordance should be offered.
func HasMore(visible, filteredLen int) bool {
	return visible < filteredLen
}

// NormalizeVisible rounds v up to a positive multiple of PageSize.
func NormalizeVisible(v int) int {
	if v <= 0 {
		return PageSize
	}
	pages := (v + PageSize - 1) / PageSize
	return pages * PageSize
}

// Page is one rendering of the filtered catalog.
type Page struct {
	Countries []entities.Country `json:"countries"`
	Total     int                `json:"total"`
	Visible   int                `json:"visible"`
	HasMore   bool               `json:"has_more"`
}

// Paginate applies state to catalog and reports totals.
func Paginate(catalog []entities.Country, state FilterState) Page {
	filtered := Filter(catalog, state.Search, state.Region, state.Language)
	shown := filtered
	if state.Visible < len(shown) {
		shown = shown[:max(state.Visible, 0)]
	}
	return Page{
		Countries: shown,
		Total:     len(filtered),
		Visible:   state.Visible,
		HasMore:   HasMore(state.Visible, len(filtered)),
	}
}
