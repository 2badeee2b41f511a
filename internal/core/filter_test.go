package core

import "testing"

func TestFilterApply(t *testing.T) {
	food := CategoryFood
	transport := CategoryTransport
	records := []Expense{
		expense("1", "Coffee run", CategoryFood, "4", refNow),
		expense("2", "Coffee run", CategoryTransport, "4", refNow),
		expense("3", "Bus ticket", CategoryTransport, "2", refNow),
		expense("4", "Cinema", CategoryEntertainment, "12", refNow),
	}

	tests := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"no filter", Filter{}, "1234"},
		{"blank search", Filter{Search: "   "}, "1234"},
		{"category only", Filter{Category: &transport}, "23"},
		{"search title ignoring case", Filter{Search: "COFFEE"}, "12"},
		{"search matches category", Filter{Search: "entertain"}, "4"},
		{"search is trimmed", Filter{Search: "  bus "}, "3"},
		{"category then search", Filter{Category: &food, Search: "coffee"}, "1"},
		{"nothing matches", Filter{Category: &food, Search: "bus"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(tt.filter.Apply(records)); got != tt.want {
				t.Errorf("Apply() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilterOrderDoesNotMatter(t *testing.T) {
	food := CategoryFood
	records := []Expense{
		expense("1", "Coffee run", CategoryFood, "4", refNow),
		expense("2", "Coffee run", CategoryTransport, "4", refNow),
		expense("3", "Pasta", CategoryFood, "9", refNow),
	}
	categoryFirst := Filter{Search: "coffee"}.Apply(Filter{Category: &food}.Apply(records))
	searchFirst := Filter{Category: &food}.Apply(Filter{Search: "coffee"}.Apply(records))
	if ids(categoryFirst) != ids(searchFirst) || ids(categoryFirst) != "1" {
		t.Fatalf("category-then-search %q differs from search-then-category %q", ids(categoryFirst), ids(searchFirst))
	}
}

func TestFilterToggle(t *testing.T) {
	f := Filter{}.Toggle(CategoryFood)
	if f.Category == nil || *f.Category != CategoryFood || !f.IsActive() {
		t.Fatalf("toggle should select Food")
	}
	f = f.Toggle(CategoryShopping)
	if *f.Category != CategoryShopping {
		t.Fatalf("toggle should switch to Shopping")
	}
	f = f.Toggle(CategoryShopping)
	if f.Category != nil || f.IsActive() {
		t.Fatalf("second toggle should clear the category")
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	records := []Expense{
		expense("1", "a", CategoryFood, "1", refNow),
		expense("2", "b", CategoryOther, "1", refNow),
	}
	other := CategoryOther
	_ = Filter{Category: &other}.Apply(records)
	if ids(records) != "12" {
		t.Fatalf("input modified: %s", ids(records))
	}
}
