package grid

import (
	"math"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
)

const (
	// TargetCellMM is the approximate printed size of a proportional cell.
	TargetCellMM = 40.0

	// MaxColumns is the largest column count that keeps single-letter
	// column labels readable.
	MaxColumns = 25
)

// NiceThresholds are the mantissa cut-offs snapping a size to 1, 2, 2.5,
// 5 or 10 times a power of ten.
var NiceThresholds = [4]float64{1.5, 2.25, 3.75, 7.5}

// niceSteps is the escalation ladder of mantissas.
var niceSteps = [...]float64{1, 2, 2.5, 5, 10}

// NiceSize rounds size to a mantissa in {1, 2, 2.5, 5, 10} times a power
// of ten. It returns the rounded size with its mantissa and exponent.
func NiceSize(size float64) (nice, mantissa float64, exponent int) {
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		return 1, 1, 0
	}
	exponent = int(math.Floor(math.Log10(size)))
	sig := size / math.Pow10(exponent)
	switch {
	case sig < NiceThresholds[0]:
		mantissa = 1
	case sig < NiceThresholds[1]:
		mantissa = 2
	case sig < NiceThresholds[2]:
		mantissa = 2.5
	case sig < NiceThresholds[3]:
		mantissa = 5
	default:
		mantissa = 10
	}
	return mantissa * math.Pow10(exponent), mantissa, exponent
}

// nextNice returns the next coarser nice size after mantissa×10^exponent.
// A mantissa of 10 continues at 2×10^(exponent+1).
func nextNice(mantissa float64, exponent int) (float64, int) {
	for i, s := range niceSteps[:len(niceSteps)-1] {
		if mantissa == s {
			return niceSteps[i+1], exponent
		}
	}
	return 2, exponent + 1
}

// NewProportional lays a lettered grid over bbox at scale 1:scale. Cells
// are square, sized so they print at about TargetCellMM, and coarsened
// until at most MaxColumns columns remain. Under rtl the letter axis runs
// from right to left.
func NewProportional(bbox geo.BoundingBox, scale float64, rtl bool) (*Grid, error) {
	if err := bbox.Validate(); err != nil {
		return nil, err
	}
	if err := errors.ValidateScale(scale); err != nil {
		return nil, err
	}

	heightM, widthM := bbox.SphericSizes()
	size, mantissa, exponent := NiceSize(TargetCellMM * scale / 1000)
	for widthM/size > MaxColumns {
		mantissa, exponent = nextNice(mantissa, exponent)
		size = mantissa * math.Pow10(exponent)
	}

	g := &Grid{
		Policy:      PolicyProportional,
		BBox:        bbox,
		Scale:       scale,
		RTL:         rtl,
		CellWidthM:  size,
		CellHeightM: size,
		HorizCount:  widthM / size,
		VertCount:   heightM / size,
	}

	hUnit := bbox.LonSpan() / g.HorizCount
	vUnit := bbox.LatSpan() / g.VertCount
	for x := range floorCount(g.HorizCount) {
		g.VerticalLines = append(g.VerticalLines, bbox.Left+float64(x+1)*hUnit)
	}
	for y := range floorCount(g.VertCount) {
		g.HorizontalLines = append(g.HorizontalLines, bbox.Top-float64(y+1)*vUnit)
	}

	nCols := ceilCount(g.HorizCount)
	for x := range nCols {
		if rtl {
			g.HorizontalLabels = append(g.HorizontalLabels, ColumnLabel(nCols-1-x))
		} else {
			g.HorizontalLabels = append(g.HorizontalLabels, ColumnLabel(x))
		}
	}
	for y := range ceilCount(g.VertCount) {
		g.VerticalLabels = append(g.VerticalLabels, RowLabel(y))
	}
	return g, nil
}

// countEpsilon absorbs float noise from spherical sizing so an area of
// exactly ten cells does not grow an eleventh sliver.
const countEpsilon = 1e-9

func ceilCount(c float64) int {
	return int(math.Ceil(c - countEpsilon))
}

func floorCount(c float64) int {
	return int(math.Floor(c + countEpsilon))
}
