package grid

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/ctessum/geom"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
)

// Policy selects how cells are sized and labeled.
type Policy string

const (
	PolicyProportional Policy = "proportional"
	PolicyFixed        Policy = "fixed"
)

// Locator turns a geographic position into a grid reference.
type Locator interface {
	LocationOf(lat, lon float64) (string, error)
}

// Grid is a computed reference grid over one bounding box.
type Grid struct {
	Policy Policy          `json:"policy"`
	BBox   geo.BoundingBox `json:"bbox"`
	Scale  float64         `json:"scale"`
	RTL    bool            `json:"rtl,omitempty"`

	CellWidthM  float64 `json:"cell_width_m"`
	CellHeightM float64 `json:"cell_height_m"`

	// HorizCount and VertCount may be fractional for proportional grids:
	// the last column or row is then a partial cell.
	HorizCount float64 `json:"horiz_count"`
	VertCount  float64 `json:"vert_count"`

	HorizontalLabels []string `json:"horizontal_labels"`
	VerticalLabels   []string `json:"vertical_labels"`

	// VerticalLines are longitudes, HorizontalLines latitudes.
	VerticalLines   []float64 `json:"vertical_lines"`
	HorizontalLines []float64 `json:"horizontal_lines"`

	// Fixed policy only.
	Rows   int `json:"rows,omitempty"`
	Cols   int `json:"cols,omitempty"`
	Offset int `json:"offset,omitempty"`
}

var _ Locator = (*Grid)(nil)

// LocationOf returns the reference of the cell holding (lat, lon). Points
// outside the grid are clamped into the nearest edge cell.
func (g *Grid) LocationOf(lat, lon float64) (string, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		return "", errors.New(errors.ErrCodeCellNotFound, "no cell for position (%v, %v)", lat, lon)
	}
	if g.HorizCount <= 0 || g.VertCount <= 0 || len(g.HorizontalLabels) == 0 || len(g.VerticalLabels) == 0 {
		return "", errors.New(errors.ErrCodeCellNotFound, "grid over %s has no cells", g.BBox)
	}

	hSpan, vSpan := g.BBox.LonSpan(), g.BBox.LatSpan()
	var hDelta float64
	if g.Policy == PolicyFixed && g.RTL {
		hDelta = g.BBox.Right - lon
	} else {
		hDelta = lon - g.BBox.Left
	}
	hDelta = clamp(hDelta, hSpan)
	vDelta := clamp(g.BBox.Top-lat, vSpan)

	h := cellIndex(hDelta, hSpan/g.HorizCount, len(g.HorizontalLabels))
	v := cellIndex(vDelta, vSpan/g.VertCount, len(g.VerticalLabels))

	if g.Policy == PolicyFixed {
		return fmt.Sprintf("%d", g.Offset+1+h+v*g.Cols), nil
	}
	return g.HorizontalLabels[h] + g.VerticalLabels[v], nil
}

// clamp limits a signed offset from the grid origin to [0, span].
func clamp(delta, span float64) float64 {
	return math.Max(0, math.Min(delta, span))
}

// cellIndex truncates delta/unit and clamps it into [0, n).
func cellIndex(delta, unit float64, n int) int {
	if unit <= 0 {
		return 0
	}
	i := int(delta / unit)
	return max(0, min(i, n-1))
}

// ShapefileMargin returns the padding in degrees applied around the grid
// lines so re-projection noise and gray margins stay covered.
func (g *Grid) ShapefileMargin() float64 {
	return g.Scale / 6000000
}

// Lines returns the grid lines as features spanning the padded box.
func (g *Grid) Lines() []geo.LineFeature {
	m := g.ShapefileMargin()
	ext := g.BBox.Expanded(m, m)
	features := make([]geo.LineFeature, 0, len(g.VerticalLines)+len(g.HorizontalLines))
	for i, x := range g.VerticalLines {
		features = append(features, geo.LineFeature{
			LineString: geom.LineString{{X: x, Y: ext.Bottom}, {X: x, Y: ext.Top}},
			Kind:       "vertical",
			Label:      label(g.HorizontalLabels, i+1),
		})
	}
	for i, y := range g.HorizontalLines {
		features = append(features, geo.LineFeature{
			LineString: geom.LineString{{X: ext.Left, Y: y}, {X: ext.Right, Y: y}},
			Kind:       "horizontal",
			Label:      label(g.VerticalLabels, i+1),
		})
	}
	return features
}

// WriteShapefile writes the grid lines to dir/name.
func (g *Grid) WriteShapefile(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	if err := geo.WriteLineShapefile(path, g.Lines()); err != nil {
		return "", err
	}
	return path, nil
}

func label(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}
