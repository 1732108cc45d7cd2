package domain

import (
	"slices"
	"strings"
)

// AllCategories is the selector value that disables category filtering.
const AllCategories = "Todas"

// Filter narrows a collection for display. The zero value matches everything.
type Filter struct {
	Category string
	Text     string
}

// Match reports whether t passes both the category and the text predicate.
func (f Filter) Match(t Tool) bool {
	if f.Category != "" && f.Category != AllCategories && t.CategoryOrDefault() != f.Category {
		return false
	}
	if f.Text == "" {
		return true
	}

	q := strings.ToLower(f.Text)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q) ||
		strings.Contains(strings.ToLower(t.OriginalText), q)
}

// Apply returns the matching records sorted by title. tools is left untouched.
func (f Filter) Apply(tools []Tool) []Tool {
	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	SortByTitle(out)
	return out
}

// SortByTitle sorts in place by lowercase title, keeping insertion order on ties.
func SortByTitle(tools []Tool) {
	slices.SortStableFunc(tools, func(a, b Tool) int {
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	})
}

// Categories lists the distinct categories in ascending order.
func Categories(tools []Tool) []string {
	seen := make(map[string]struct{}, len(tools))
	out := make([]string, 0, len(tools))
	for _, t := range tools {
		c := t.CategoryOrDefault()
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
