package index

import (
	"slices"
	"strings"
)

// Merge combines the per-page indexes of a multi-page map. Categories of
// the same name are concatenated, their items sorted with c, and repeated
// labels blanked. Street categories come first. The input is not
// modified.
func Merge(pages [][]Category, c *Collator) []Category {
	var streets, others []Category
	for _, page := range pages {
		for _, cat := range page {
			if cat.IsStreet {
				streets = append(streets, cat)
			} else {
				others = append(others, cat)
			}
		}
	}
	return append(mergeGroup(streets, c), mergeGroup(others, c)...)
}

func mergeGroup(cats []Category, c *Collator) []Category {
	if len(cats) == 0 {
		return nil
	}
	sorted := slices.Clone(cats)
	slices.SortStableFunc(sorted, func(a, b Category) int {
		return strings.Compare(a.Name, b.Name)
	})

	var out []Category
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j].Name == sorted[i].Name {
			j++
		}
		var items []Item
		for _, cat := range sorted[i:j] {
			items = append(items, cat.Items...)
		}
		SortItems(items, c)
		BlankDuplicates(items)
		out = append(out, Category{
			Name:     sorted[i].Name,
			Items:    items,
			IsStreet: sorted[i].IsStreet,
		})
		i = j
	}
	return out
}

// SortItems sorts items by label with c, keeping equal labels in input
// order.
func SortItems(items []Item, c *Collator) {
	slices.SortStableFunc(items, func(a, b Item) int {
		return c.Compare(a.Label, b.Label)
	})
}

// BlankDuplicates clears labels equal to the last non-blank label, so a
// street spanning several pages is printed once with all its locations.
func BlankDuplicates(items []Item) {
	prev := ""
	for i := range items {
		if items[i].Label == prev {
			items[i].Label = ""
			continue
		}
		prev = items[i].Label
	}
}

// Count returns the number of items across cats.
func Count(cats []Category) int {
	n := 0
	for _, c := range cats {
		n += len(c.Items)
	}
	return n
}
