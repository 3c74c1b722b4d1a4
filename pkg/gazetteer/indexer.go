package gazetteer

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/index"
)

// Indexer builds the index of one kind from a Source.
type Indexer struct {
	kind   index.Kind
	src    Source
	logger *log.Logger
}

var _ index.Indexer = (*Indexer)(nil)

// NewIndexer returns an indexer of kind over src. Point-of-interest
// indexes are not drawn from a gazetteer; use LoadPOI. A nil logger
// discards messages.
func NewIndexer(kind index.Kind, src Source, logger *log.Logger) (*Indexer, error) {
	if kind == index.KindPoi {
		return nil, errors.New(errors.ErrCodeUnsupported, "%s index is read from a POI file", kind)
	}
	if kind.String() == "Unknown" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown index kind %d", int(kind))
	}
	if src == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s index needs a feature source", kind)
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Indexer{kind: kind, src: src, logger: logger}, nil
}

// Kind returns the index kind.
func (ix *Indexer) Kind() index.Kind { return ix.kind }

// Build lists the categories of the features in req.BBox, restricted to
// req.Area when set. Items carry req.Page and no location yet.
func (ix *Indexer) Build(ctx context.Context, req index.Request) ([]index.Category, error) {
	features, err := ix.src.Features(ctx, req.BBox)
	if err != nil {
		return nil, fmt.Errorf("%s index: %w", ix.kind, err)
	}
	if len(req.Area) > 0 {
		filter := geo.NewFilter(req.Area, nil)
		features = slices.DeleteFunc(features, func(f Feature) bool {
			return !filter.Visible(f.BoundingBox())
		})
	}
	coll := index.NewCollator(req.Language, true)

	var cats []index.Category
	switch ix.kind {
	case index.KindStreet:
		cats = ix.streets(features, req.Page, coll)
		cats = append(cats, categorize(features, classifyAmenity, MaxStreetCategoryItems, req.Page, coll)...)
		cats = append(cats, categorize(features, classifyVillage, MaxVillages, req.Page, coll)...)
	case index.KindHealth:
		cats = categorize(features, classifyHealth, MaxCategoryItems, req.Page, coll)
	case index.KindTree:
		cats = categorize(features, classifyTree, MaxCategoryItems, req.Page, coll)
	case index.KindTown:
		cats = categorize(features, classifyTown, MaxCategoryItems, req.Page, coll)
	case index.KindGeneral:
		cats = categorize(features, classifyGeneral, MaxCategoryItems, req.Page, coll)
	case index.KindNotes:
		cats = notes(features, req.Page)
	case index.KindAdmin:
		cats, err = ix.admin(ctx, features, req.Page, coll)
		if err != nil {
			return nil, err
		}
	}

	ix.logger.Debug("built index", "kind", ix.kind, "features", len(features),
		"categories", len(cats), "items", index.Count(cats), "page", req.Page)
	return cats, nil
}

func (ix *Indexer) streets(features []Feature, page int, coll *index.Collator) []index.Category {
	var named []Feature
	for _, f := range features {
		if _, _, ok := classifyStreet(f); ok {
			named = append(named, f)
		}
	}
	named = mergeByName(named)
	if len(named) > MaxStreets {
		ix.logger.Warn("too many streets, street index dropped", "streets", len(named), "max", MaxStreets)
		return nil
	}
	items := make([]index.Item, 0, len(named))
	for _, f := range named {
		a, b := f.Endpoints()
		items = append(items, index.NewItem(f.Name, a, b, page))
	}
	return index.GroupStreets(items, coll)
}

// categorize groups the features accepted by classify. Categories are
// sorted by name and dropped when they hold more than limit items.
func categorize(features []Feature, classify classifier, limit, page int, coll *index.Collator) []index.Category {
	byName := map[string][]index.Item{}
	for _, f := range features {
		cat, label, ok := classify(f)
		if !ok || cat == "" {
			continue
		}
		a, b := f.Endpoints()
		byName[cat] = append(byName[cat], index.NewItem(label, a, b, page))
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)

	var out []index.Category
	for _, name := range names {
		items := byName[name]
		if len(items) > limit {
			continue
		}
		index.SortItems(items, coll)
		out = append(out, index.Category{Name: name, Items: items})
	}
	return out
}

func notes(features []Feature, page int) []index.Category {
	var items []index.Item
	for _, f := range features {
		text := f.Tag("note")
		if text == "" {
			continue
		}
		a, b := f.Endpoints()
		items = append(items, index.NewItem(noteLabel(len(items)+1, text), a, b, page))
	}
	if len(items) == 0 {
		return nil
	}
	return []index.Category{{Name: NotesCategory, Items: items}}
}

// admin lists level 6 boundaries, labeled with their license plate code
// and the names of the enclosing level 5 and 4 areas.
func (ix *Indexer) admin(ctx context.Context, features []Feature, page int, coll *index.Collator) ([]index.Category, error) {
	var items []index.Item
	for _, f := range features {
		if !isAdmin(f, "6") {
			continue
		}
		bbox := f.BoundingBox()
		around, err := ix.src.Features(ctx, bbox)
		if err != nil {
			return nil, fmt.Errorf("%s index: %w", ix.kind, err)
		}

		var sb strings.Builder
		sb.WriteString(f.Tag("license_plate_code"))
		sb.WriteByte('\t')
		sb.WriteString(strings.TrimSpace(f.Name))
		for _, level := range []string{"5", "4"} {
			for _, p := range around {
				if isAdmin(p, level) && covers(p.BoundingBox(), bbox) {
					sb.WriteString(", ")
					sb.WriteString(strings.TrimSpace(p.Name))
					break
				}
			}
		}
		a, b := f.Endpoints()
		items = append(items, index.NewItem(sb.String(), a, b, page))
	}
	if len(items) == 0 || len(items) > MaxCategoryItems {
		return nil, nil
	}
	index.SortItems(items, coll)
	return []index.Category{{Name: AdminCategory, Items: items}}, nil
}

func covers(outer, inner geo.BoundingBox) bool {
	return outer.Contains(geo.Point{Lat: inner.Top, Lon: inner.Left}) &&
		outer.Contains(geo.Point{Lat: inner.Bottom, Lon: inner.Right})
}
