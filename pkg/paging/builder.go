package paging

import (
	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
)

// BuildInput describes one pagination job.
type BuildInput struct {
	Preset Preset
	BBox   geo.BoundingBox

	// UsableWidthPt and UsableHeightPt are the printable page size once
	// the print-safe margins are removed.
	UsableWidthPt  float64
	UsableHeightPt float64

	// Filter culls pages without content. Nil keeps every page.
	Filter *geo.Filter

	// Projection defaults to Web Mercator.
	Projection *geo.Projection

	// FirstPage is the number of the first visible map page (>= 1).
	FirstPage int
}

// Page is one printed map window.
type Page struct {
	// Number is the printed page number, 0 for culled slots.
	Number int `json:"number"`
	// Index is the zero-based rank among visible pages, -1 when culled.
	// Per-page artifacts are named after it.
	Index int `json:"index"`
	Row   int `json:"row"`
	Col   int `json:"col"`

	Outer  geo.BoundingBox `json:"outer"`
	Inner  geo.BoundingBox `json:"inner"`
	OuterM geo.Envelope    `json:"outer_m"`
	InnerM geo.Envelope    `json:"inner_m"`

	Visible bool `json:"visible"`
}

// Grid is a complete pagination.
type Grid struct {
	Preset string      `json:"preset"`
	Scale  ScaleResult `json:"scale"`

	// Envelope is the padded, paper-filling area in Mercator meters and
	// BBox its WGS84 counterpart.
	Envelope geo.Envelope    `json:"envelope"`
	BBox     geo.BoundingBox `json:"bbox"`

	UsableWidthM   float64 `json:"usable_width_m"`
	UsableHeightM  float64 `json:"usable_height_m"`
	GrayedM        float64 `json:"grayed_m"`
	OverlapWidthM  float64 `json:"overlap_width_m"`
	OverlapHeightM float64 `json:"overlap_height_m"`

	// Slots lists every page window, visible or not, top row first.
	Slots       []Page            `json:"slots"`
	Disposition *DispositionTable `json:"disposition"`
}

// Pages returns the visible pages in numbering order.
func (g *Grid) Pages() []Page {
	out := make([]Page, 0, len(g.Slots))
	for _, p := range g.Slots {
		if p.Visible {
			out = append(out, p)
		}
	}
	return out
}

// Page returns the visible page numbered n.
func (g *Grid) Page(n int) (Page, bool) {
	for _, p := range g.Slots {
		if p.Visible && p.Number == n {
			return p, true
		}
	}
	return Page{}, false
}

// OverviewBBox returns the area shown on the overview page.
func (g *Grid) OverviewBBox() geo.BoundingBox {
	return g.BBox.Expanded(0.001, 0.001)
}

// Build paginates in.BBox. The result is deterministic for identical
// inputs.
func Build(in BuildInput) (*Grid, error) {
	if err := in.BBox.Validate(); err != nil {
		return nil, err
	}
	if in.UsableWidthPt <= 0 || in.UsableHeightPt <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidPaper, "usable page area %.1fx%.1fpt is empty", in.UsableWidthPt, in.UsableHeightPt)
	}
	preset := in.Preset
	preset.SetDefaults(MultiPage)
	if in.FirstPage < 1 {
		in.FirstPage = 1
	}
	proj := in.Projection
	if proj == nil {
		var err error
		if proj, err = geo.NewMercator(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "mercator projection unavailable")
		}
	}

	orig, err := proj.Envelope(in.BBox)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBBox, err, "cannot project %s", in.BBox)
	}

	grayedPt := geo.MMToPt(preset.GrayedMM)
	overlapWPt := geo.MMToPt(preset.OverlapWidthMM)
	overlapHPt := geo.MMToPt(preset.OverlapHeightMM)

	// Spreads handle the horizontal gray margin by shifting pages, so the
	// area is only padded vertically.
	padW := grayedPt
	if preset.Spreads {
		padW = 0
	}
	sel := SelectScale(ScaleInput{
		TotalWidthM:     orig.Width(),
		TotalHeightM:    orig.Height(),
		PadWidthPt:      padW,
		PadHeightPt:     grayedPt,
		UsableWidthPt:   in.UsableWidthPt,
		UsableHeightPt:  in.UsableHeightPt,
		OverlapWidthPt:  overlapWPt,
		OverlapHeightPt: overlapHPt,
		StartScale:      preset.InitialScale(),
		Growth:          preset.Growth,
		MaxPages:        preset.MaxPages,
		Ceiling:         preset.Ceiling,
	})
	scale := sel.Scale
	toGround := func(pt float64) float64 { return geo.PaperToGround(pt, scale) }

	g := &Grid{
		Preset:         preset.Name,
		Scale:          sel,
		UsableWidthM:   toGround(in.UsableWidthPt),
		UsableHeightM:  toGround(in.UsableHeightPt),
		GrayedM:        preset.GrayedMM * scale / 1000,
		OverlapWidthM:  preset.OverlapWidthMM * scale / 1000,
		OverlapHeightM: preset.OverlapHeightMM * scale / 1000,
		Disposition:    NewDispositionTable(sel.Rows, sel.Cols),
	}

	offX := orig.Min.X - toGround(padW)
	offY := orig.Min.Y - g.GrayedM
	width := orig.Width() + 2*toGround(padW)
	height := orig.Height() + 2*g.GrayedM

	// Grow the area evenly around its center to fill the paper exactly.
	var paperW float64
	if preset.Spreads {
		paperW = in.UsableWidthPt*float64(sel.Cols) - overlapWPt*float64((sel.Cols-1)/2)
	} else {
		paperW = in.UsableWidthPt + (in.UsableWidthPt-overlapWPt)*float64(sel.Cols-1)
	}
	paperH := in.UsableHeightPt + (in.UsableHeightPt-overlapHPt)*float64(sel.Rows-1)
	totalW, totalH := toGround(paperW), toGround(paperH)
	offX -= (totalW - width) / 2
	offY -= (totalH - height) / 2
	g.Envelope = geo.NewEnvelope(offX, offY, totalW, totalH)
	if g.BBox, err = proj.BoundingBox(g.Envelope); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBBox, err, "cannot unproject page area")
	}

	visible := 0
	for row := range sel.Rows {
		j := sel.Rows - row - 1
		accepted := make([]bool, sel.Cols)
		inRow := 0
		rightSide := false
		for i := range sel.Cols {
			if i == 0 {
				// Odd page numbers are left-hand pages.
				rightSide = (in.FirstPage+visible)%2 == 0
			}
			outer, inner := g.window(preset, offX, offY, i, j, inRow, rightSide, accepted)

			page := Page{Row: row, Col: i, Index: -1, OuterM: outer, InnerM: inner}
			if page.Outer, err = proj.BoundingBox(outer); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidBBox, err, "cannot unproject page (%d, %d)", row, i)
			}
			if page.Inner, err = proj.BoundingBox(inner); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidBBox, err, "cannot unproject page (%d, %d)", row, i)
			}

			if in.Filter == nil || in.Filter.Visible(page.Inner) {
				page.Visible = true
				page.Index = visible
				page.Number = in.FirstPage + visible
				g.Disposition.Set(row, i, page.Number)
				accepted[i] = true
				inRow++
				visible++
			}
			g.Slots = append(g.Slots, page)
		}
	}
	return g, nil
}

// window computes the outer and inner Mercator rectangles of the page in
// column i and (bottom-up) row j. inRow counts pages already accepted in
// the row.
func (g *Grid) window(p Preset, offX, offY float64, i, j, inRow int, rightSide bool, accepted []bool) (outer, inner geo.Envelope) {
	uw, uh := g.UsableWidthM, g.UsableHeightM
	gm := g.GrayedM
	y := offY + float64(j)*(uh-g.OverlapHeightM)

	if !p.Spreads {
		x := offX + float64(i)*(uw-g.OverlapWidthM)
		outer = geo.NewEnvelope(x, y, uw, uh)
		inner = geo.NewEnvelope(x+gm, y+gm, uw-2*gm, uh-2*gm)
		return outer, inner
	}

	// Pages inside a spread abut; consecutive spreads overlap. A row that
	// starts on a right-hand page shifts the pairing by one.
	pairs := inRow / 2
	if rightSide {
		pairs = (inRow + 1) / 2
	}
	x := offX + float64(i)*uw - gm - float64(pairs)*g.OverlapWidthM
	outer = geo.NewEnvelope(x, y, uw, uh)

	minX, maxX := x, x+uw
	if inRow == 0 || !accepted[i-1] {
		minX += gm
	}
	if i == len(accepted)-1 {
		maxX -= gm
	}
	inner = geo.Envelope{Min: outer.Min, Max: outer.Max}
	inner.Min.X, inner.Max.X = minX, maxX
	inner.Min.Y, inner.Max.Y = y+gm, y+uh-gm
	return outer, inner
}
