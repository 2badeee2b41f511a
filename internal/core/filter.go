package core

import "strings"

// Filter narrows a snapshot before it is bucketed or aggregated. The zero
// value keeps everything.
type Filter struct {
	// Category keeps only records with exactly this label when set.
	Category *Category
	// Search keeps records whose title or category contains it, ignoring case.
	// Blank after trimming means no search.
	Search string
}

// IsActive reports whether the filter removes anything at all.
func (f Filter) IsActive() bool {
	return f.Category != nil || strings.TrimSpace(f.Search) != ""
}

// Toggle selects c, or clears the category when c is already selected.
func (f Filter) Toggle(c Category) Filter {
	if f.Category != nil && *f.Category == c {
		f.Category = nil
		return f
	}
	f.Category = &c
	return f
}

// Apply runs the category step and then the search step. The input slice is
// not modified.
func (f Filter) Apply(records []Expense) []Expense {
	out := make([]Expense, 0, len(records))
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	for _, r := range records {
		if f.Category != nil && r.Category != *f.Category {
			continue
		}
		if needle != "" && !matches(r, needle) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matches(r Expense, needle string) bool {
	return strings.Contains(strings.ToLower(r.Title), needle) ||
		strings.Contains(strings.ToLower(string(r.Category)), needle)
}
