package gazetteer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
)

// Source yields the features intersecting a bounding box.
type Source interface {
	Features(ctx context.Context, bbox geo.BoundingBox) ([]Feature, error)
	Close() error
}

// Memory is a Source over features held in memory, indexed in an
// R-tree.
type Memory struct {
	features []Feature
	tree     *rtree.Rtree
}

var _ Source = (*Memory)(nil)

// entry is the R-tree record of one feature.
type entry struct {
	geom.Geom
	idx int
}

// NewMemory indexes features. Features without geometry are skipped.
func NewMemory(features []Feature) *Memory {
	m := &Memory{tree: rtree.NewTree(25, 50)}
	for _, f := range features {
		if f.Geometry == nil {
			continue
		}
		m.tree.Insert(entry{Geom: f.Geometry, idx: len(m.features)})
		m.features = append(m.features, f)
	}
	return m
}

// Len returns the number of indexed features.
func (m *Memory) Len() int { return len(m.features) }

// Features returns the features whose extent intersects bbox, in
// insertion order.
func (m *Memory) Features(ctx context.Context, bbox geo.BoundingBox) ([]Feature, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCanceled, err, "query features")
	}
	hits := m.tree.SearchIntersect(bbox.Bounds())
	idx := make([]bool, len(m.features))
	for _, h := range hits {
		if e, ok := h.(entry); ok {
			idx[e.idx] = true
		}
	}
	var out []Feature
	for i, hit := range idx {
		if hit {
			out = append(out, m.features[i])
		}
	}
	return out, nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// jsonFeature is the feature file record.
type jsonFeature struct {
	ID   int64             `json:"id"`
	Name string            `json:"name"`
	Tags map[string]string `json:"tags"`
	WKT  string            `json:"wkt"`
}

type jsonFile struct {
	Features []jsonFeature `json:"features"`
}

// ReadJSON decodes a feature file.
func ReadJSON(r io.Reader) ([]Feature, error) {
	var file jsonFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode feature file")
	}
	out := make([]Feature, 0, len(file.Features))
	for i, jf := range file.Features {
		g, err := geo.ParseWKT(jf.WKT)
		if err != nil {
			return nil, fmt.Errorf("feature %d (%q): %w", i, jf.Name, err)
		}
		out = append(out, Feature{ID: jf.ID, Name: jf.Name, Tags: jf.Tags, Geometry: g})
	}
	return out, nil
}

// LoadJSON reads a feature file into a Memory source.
func LoadJSON(path string) (*Memory, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "feature file %s", path)
		}
		return nil, fmt.Errorf("open feature file: %w", err)
	}
	defer f.Close()
	features, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewMemory(features), nil
}
