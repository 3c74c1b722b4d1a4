package paging

import (
	"math"

	"github.com/pi-bie/ocitysmap/pkg/geo"
)

// ScaleInput describes the area to paginate and the paper it goes on.
// Ground sizes are in Mercator meters, paper sizes in points.
type ScaleInput struct {
	TotalWidthM  float64
	TotalHeightM float64

	// PadWidthPt and PadHeightPt are paper margins added on each side of
	// the area whatever the scale.
	PadWidthPt  float64
	PadHeightPt float64

	UsableWidthPt   float64
	UsableHeightPt  float64
	OverlapWidthPt  float64
	OverlapHeightPt float64

	StartScale float64
	Growth     float64
	MaxPages   int
	Ceiling    float64
}

// ScaleResult is the outcome of SelectScale.
type ScaleResult struct {
	Scale      float64 `json:"scale"`
	Rows       int     `json:"rows"`
	Cols       int     `json:"cols"`
	Iterations int     `json:"iterations"`

	// Degraded is set when the ceiling stopped the search before the page
	// budget was met. The result is still usable, with more pages.
	Degraded bool `json:"degraded,omitempty"`
}

// Pages returns the number of page slots.
func (r ScaleResult) Pages() int { return r.Rows * r.Cols }

// PageCount returns how many pages of usablePt, overlapping by overlapPt,
// cover totalPt. It is at least 1.
func PageCount(totalPt, usablePt, overlapPt float64) int {
	if totalPt < usablePt || usablePt <= 0 {
		return 1
	}
	step := usablePt - overlapPt
	if step <= 0 {
		step = usablePt
	}
	return max(1, int(math.Ceil((totalPt-usablePt)/step+1)))
}

// SelectScale grows the scale denominator by in.Growth until fewer than
// in.MaxPages pages are needed or the next step would pass in.Ceiling. It
// never fails. A non-positive MaxPages accepts the start scale.
func SelectScale(in ScaleInput) ScaleResult {
	scale := in.StartScale
	res := ScaleResult{}
	for {
		res.Iterations++
		res.Scale = scale
		res.Cols = PageCount(geo.GroundToPaper(in.TotalWidthM, scale)+2*in.PadWidthPt, in.UsableWidthPt, in.OverlapWidthPt)
		res.Rows = PageCount(geo.GroundToPaper(in.TotalHeightM, scale)+2*in.PadHeightPt, in.UsableHeightPt, in.OverlapHeightPt)

		if in.MaxPages <= 0 || res.Pages() < in.MaxPages {
			return res
		}
		next := scale * in.Growth
		if in.Growth <= 1 || next > in.Ceiling {
			res.Degraded = true
			return res
		}
		scale = next
	}
}
