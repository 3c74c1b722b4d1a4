package grid

import (
	"strconv"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
)

// Default fixed grid shape for atlas pages.
const (
	DefaultRows = 4
	DefaultCols = 3
)

// PageOffset returns the first cell number of the zero-based atlas page
// pageIndex, so references never repeat across pages.
func PageOffset(pageIndex, rows, cols int) int {
	return pageIndex * rows * cols
}

// NewFixed splits bbox into rows×cols numbered cells starting after
// offset. Cell numbers run left to right then top to bottom; under rtl
// they run right to left.
func NewFixed(bbox geo.BoundingBox, scale float64, rows, cols, offset int, rtl bool) (*Grid, error) {
	if err := bbox.Validate(); err != nil {
		return nil, err
	}
	if rows <= 0 || cols <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "fixed grid needs positive rows and cols, got %dx%d", rows, cols)
	}
	if offset < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "fixed grid offset must not be negative, got %d", offset)
	}

	heightM, widthM := bbox.SphericSizes()
	g := &Grid{
		Policy:      PolicyFixed,
		BBox:        bbox,
		Scale:       scale,
		RTL:         rtl,
		Rows:        rows,
		Cols:        cols,
		Offset:      offset,
		HorizCount:  float64(cols),
		VertCount:   float64(rows),
		CellWidthM:  widthM / float64(cols),
		CellHeightM: heightM / float64(rows),
	}

	hUnit := bbox.LonSpan() / float64(cols)
	vUnit := bbox.LatSpan() / float64(rows)
	for y := range rows {
		g.HorizontalLines = append(g.HorizontalLines, bbox.Top-float64(y+1)*vUnit)
	}
	for x := range cols {
		if rtl {
			g.VerticalLines = append(g.VerticalLines, bbox.Right-float64(x+1)*hUnit)
		} else {
			g.VerticalLines = append(g.VerticalLines, bbox.Left+float64(x+1)*hUnit)
		}
		g.HorizontalLabels = append(g.HorizontalLabels, strconv.Itoa(offset+x+1))
	}
	for y := range rows {
		g.VerticalLabels = append(g.VerticalLabels, strconv.Itoa(offset+y*cols))
	}
	return g, nil
}
