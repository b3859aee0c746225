package filter

import (
	"strings"

	"vibes/internal/query"
)

// State is the effective filter of one expense list view.
type State struct {
	Search     string
	CategoryID string
	Period     query.Period
	Page       int
}

// DefaultState shows all expenses, first page.
func DefaultState() State {
	return State{CategoryID: query.AllCategories, Period: query.PeriodAll, Page: 1}
}

// Filter returns the query filter of s, without the page.
func (s State) Filter() query.Filter {
	return query.Filter{Search: s.Search, CategoryID: s.CategoryID, Period: s.Period}
}

func normalizeCategory(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return query.AllCategories
	}
	return id
}

func normalizePage(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
