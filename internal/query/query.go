// Package query filters and orders listings for display.
package query

import (
	"slices"
	"strings"

	"github.com/erazemk/lostmate/internal/model"
)

// TypeAll matches listings of every type.
const TypeAll = "all"

// Filter selects listings. The zero value matches everything.
type Filter struct {
	// Type is "lost", "found", "all" or empty.
	Type string
	// Text is matched case-insensitively against title, category, location
	// and description. Surrounding whitespace is ignored.
	Text string
}

// Match reports whether item passes both the type and the text predicate.
func (f Filter) Match(item model.Item) bool {
	if f.Type != "" && f.Type != TypeAll && string(item.Type) != f.Type {
		return false
	}

	text := strings.ToLower(strings.TrimSpace(f.Text))
	if text == "" {
		return true
	}
	for _, field := range []string{item.Title, item.Category, item.Location, item.Description} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}

// Apply returns the matching items, most recent date first. Items with equal
// dates keep their relative order. The input is not modified.
func Apply(items []model.Item, f Filter) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			out = append(out, item)
		}
	}
	SortByDate(out)
	return out
}

// SortByDate orders items by date, newest first, in place. Dates are
// YYYY-MM-DD so they compare correctly as strings.
func SortByDate(items []model.Item) {
	slices.SortStableFunc(items, func(a, b model.Item) int {
		return strings.Compare(b.Date, a.Date)
	})
}

// Summary counts a user's listings by status.
type Summary struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Claimed int `json:"claimed"`
}

// Summarize counts items by status.
func Summarize(items []model.Item) Summary {
	s := Summary{Total: len(items)}
	for _, item := range items {
		switch item.Status {
		case model.ItemStatusActive:
			s.Active++
		case model.ItemStatusClaimed:
			s.Claimed++
		}
	}
	return s
}
