package index

import (
	"context"
	"fmt"
	"slices"

	"github.com/ctessum/geom"
	"golang.org/x/text/language"

	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/grid"
)

// UnknownLocation is printed for items without a resolvable position.
const UnknownLocation = "???"

// Category is a titled group of index items.
type Category struct {
	Name     string `json:"name"`
	Items    []Item `json:"items"`
	IsStreet bool   `json:"is_street,omitempty"`
}

// Labels returns the item labels in order.
func (c Category) Labels() []string {
	out := make([]string, len(c.Items))
	for i, it := range c.Items {
		out[i] = it.Label
	}
	return out
}

// Item is one index entry. Endpoints are the extremities of the feature;
// a point feature has both set to the same position.
type Item struct {
	Label     string     `json:"label"`
	Endpoint1 *geo.Point `json:"endpoint1,omitempty"`
	Endpoint2 *geo.Point `json:"endpoint2,omitempty"`

	// Page is the map page holding the item, 0 when the map is a single
	// page.
	Page int `json:"page,omitempty"`

	// Location is the grid reference, set by ApplyGrid.
	Location string `json:"location,omitempty"`
}

// NewItem returns an item spanning a and b.
func NewItem(label string, a, b geo.Point, page int) Item {
	return Item{Label: label, Endpoint1: &a, Endpoint2: &b, Page: page}
}

// ResolveLocation computes the grid reference of the item. The two
// endpoint cells collapse to one reference when equal and otherwise form
// a range, reversed under rtl. A page number, when set, is prepended (or
// appended under rtl).
func (it Item) ResolveLocation(l grid.Locator, rtl bool) (string, error) {
	var refs [2]string
	for i, ep := range [2]*geo.Point{it.Endpoint1, it.Endpoint2} {
		if ep == nil {
			continue
		}
		ref, err := l.LocationOf(ep.Lat, ep.Lon)
		if err != nil {
			return "", fmt.Errorf("locate %q: %w", it.Label, err)
		}
		refs[i] = ref
	}
	if refs[0] == "" {
		refs[0] = refs[1]
	}
	if refs[1] == "" {
		refs[1] = refs[0]
	}

	var loc string
	switch {
	case refs[0] == "":
		loc = UnknownLocation
	case refs[0] == refs[1]:
		loc = refs[0]
	default:
		lo, hi := refs[0], refs[1]
		if NaturalLess(hi, lo) {
			lo, hi = hi, lo
		}
		if rtl {
			loc = hi + "-" + lo
		} else {
			loc = lo + "-" + hi
		}
	}

	if it.Page != 0 {
		if rtl {
			return fmt.Sprintf("%s, %d", loc, it.Page), nil
		}
		return fmt.Sprintf("%d, %s", it.Page, loc), nil
	}
	return loc, nil
}

// ApplyGrid resolves the location of every item, then collapses items of
// non-street categories that share both label and location.
func ApplyGrid(cats []Category, l grid.Locator, rtl bool) error {
	for ci := range cats {
		for ii := range cats[ci].Items {
			loc, err := cats[ci].Items[ii].ResolveLocation(l, rtl)
			if err != nil {
				return err
			}
			cats[ci].Items[ii].Location = loc
		}
		if !cats[ci].IsStreet {
			cats[ci].Items = groupIdentical(cats[ci].Items)
		}
	}
	return nil
}

// groupIdentical sorts items by label then location and keeps the first
// of each run of identical pairs.
func groupIdentical(items []Item) []Item {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		if c := NaturalCompare(a.Label, b.Label); c != 0 {
			return c
		}
		return NaturalCompare(a.Location, b.Location)
	})
	return slices.CompactFunc(sorted, func(a, b Item) bool {
		return a.Label == b.Label && a.Location == b.Location
	})
}

// Request scopes one indexing pass.
type Request struct {
	// BBox is the page window, or the whole map for single-page plans.
	BBox geo.BoundingBox
	// Area restricts features to the area of interest. Nil means BBox.
	Area geom.MultiPolygon
	// Page is stamped on every produced item, 0 for single-page maps.
	Page     int
	Language language.Tag
}

// Indexer builds the categories of one kind of index.
type Indexer interface {
	Kind() Kind
	Build(ctx context.Context, req Request) ([]Category, error)
}
