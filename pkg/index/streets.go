package index

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NumberCategory groups streets whose name starts with a digit.
const NumberCategory = "0-9"

// Initial returns the street category of label: "0-9" when its first
// letter or digit is a digit, otherwise that letter upper-cased without
// accents. Labels with neither return "".
func Initial(label string) string {
	for _, r := range label {
		switch {
		case unicode.IsDigit(r):
			return NumberCategory
		case unicode.IsLetter(r):
			return strings.ToUpper(Unaccent(string(r)))
		}
	}
	return ""
}

// Unaccent strips combining marks, so "É" becomes "E".
func Unaccent(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// GroupStreets sorts street items with c and splits them into one
// category per initial. Items without an initial are dropped.
func GroupStreets(items []Item, c *Collator) []Category {
	sorted := make([]Item, 0, len(items))
	for _, it := range items {
		if Initial(it.Label) != "" {
			sorted = append(sorted, it)
		}
	}
	SortItems(sorted, c)

	var out []Category
	for _, it := range sorted {
		letter := Initial(it.Label)
		if n := len(out); n > 0 && out[n-1].Name == letter {
			out[n-1].Items = append(out[n-1].Items, it)
			continue
		}
		out = append(out, Category{Name: letter, Items: []Item{it}, IsStreet: true})
	}
	return out
}
