package catalog

import (
	"cmp"
	"slices"
)

// Sort orders items in place by course code (absent sorts as ""), then by
// title. Both keys compare byte-wise ascending; ties keep their input order.
func Sort(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		if c := cmp.Compare(a.Code(), b.Code()); c != 0 {
			return c
		}
		return cmp.Compare(a.Title, b.Title)
	})
}

// Duplicate is an id shared by more than one item.
type Duplicate struct {
	ID    string
	Repos []string
}

// DuplicateIDs reports ids that occur more than once, in first-seen order.
// Repos lists the owning repository of every occurrence.
func DuplicateIDs(items []Item) []Duplicate {
	repos := make(map[string][]string)
	var order []string
	for _, it := range items {
		if _, seen := repos[it.ID]; !seen {
			order = append(order, it.ID)
		}
		repos[it.ID] = append(repos[it.ID], it.RepoName)
	}

	var dups []Duplicate
	for _, id := range order {
		if len(repos[id]) > 1 {
			dups = append(dups, Duplicate{ID: id, Repos: repos[id]})
		}
	}
	return dups
}
