package pipeline

import (
	"context"
	"time"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/grid"
	"github.com/pi-bie/ocitysmap/pkg/index"
	"github.com/pi-bie/ocitysmap/pkg/layout"
	"github.com/pi-bie/ocitysmap/pkg/paging"
)

// Sheet splits a single-page paper into its fixed parts.
type Sheet struct {
	Title     layout.Zone
	Usable    layout.Zone
	Copyright layout.Zone
	// Page is the whole sheet inside the safe margins, used by an index
	// printed on its own page.
	Page layout.Zone
}

// NewSheet returns the parts of paper. The title band only exists when
// titled.
func NewSheet(paper paging.Paper, titled bool) Sheet {
	w, h := paper.WidthPt(), paper.HeightPt()
	var titleH float64
	if titled {
		titleH = TitleMarginRatio * h
	}
	copyH := AnnotationMarginRatio * h
	inner := w - 2*PrintSafeMarginPt
	return Sheet{
		Title: layout.Zone{X: PrintSafeMarginPt, Y: PrintSafeMarginPt, W: inner, H: titleH},
		Usable: layout.Zone{
			X: PrintSafeMarginPt,
			Y: PrintSafeMarginPt + titleH,
			W: inner,
			H: h - 2*PrintSafeMarginPt - titleH - copyH,
		},
		Copyright: layout.Zone{X: PrintSafeMarginPt, Y: h - PrintSafeMarginPt - copyH, W: inner, H: copyH},
		Page:      layout.Zone{X: PrintSafeMarginPt, Y: PrintSafeMarginPt, W: inner, H: h - 2*PrintSafeMarginPt},
	}
}

// IndexZone returns the largest zone the index may take on the sheet and
// how Fit may shrink it. A side index sits on the right, or on the left
// under rtl. An extra-page index starts at the left of a full page.
func (s Sheet) IndexZone(pos IndexPosition, rtl bool) (layout.Zone, layout.Freedom, layout.Align) {
	u := s.Usable
	if pos == IndexExtraPage {
		return s.Page, layout.FreeWidth, layout.AlignLeft
	}
	if pos == IndexBottom {
		h := u.H * MaxIndexOccupation
		return layout.Zone{X: u.X, Y: u.Y + u.H - h, W: u.W, H: h}, layout.FreeHeight, layout.AlignBottom
	}
	w := u.W * MaxIndexOccupation
	if rtl {
		return layout.Zone{X: u.X, Y: u.Y, W: w, H: u.H}, layout.FreeWidth, layout.AlignLeft
	}
	return layout.Zone{X: u.X + u.W - w, Y: u.Y, W: w, H: u.H}, layout.FreeWidth, layout.AlignRight
}

// MapZone returns what the index leaves of the usable area. An index on
// an extra page leaves all of it.
func (s Sheet) MapZone(idx *layout.Area, pos IndexPosition) layout.Zone {
	z := s.Usable
	if idx == nil {
		return z
	}
	switch pos {
	case IndexSide:
		z.W -= idx.W
		if idx.X == z.X {
			z.X += idx.W
		}
	case IndexBottom:
		z.H -= idx.H
	}
	return z
}

// FitMap grows bbox to the proportions of zone and returns it with the
// scale at which it fills the zone.
func FitMap(bbox geo.BoundingBox, zone layout.Zone) (geo.BoundingBox, float64, error) {
	if zone.W <= 0 || zone.H <= 0 {
		return geo.BoundingBox{}, 0, errors.New(errors.ErrCodeInvalidPaper, "no room left for the map (%s)", zone)
	}
	fitted := bbox.FitRatio(zone.W / zone.H)
	_, widthM := fitted.SphericSizes()
	return fitted, widthM * 1000 / geo.PtToMM(zone.W), nil
}

// planSingle computes a single-page plan. The index is sized first so the
// map takes whatever room is left; an index that does not fit is dropped.
// An extra-page index is recorded as the second page of the plan.
func (r *Runner) planSingle(ctx context.Context, opts *Options, stats *Stats) (*Plan, error) {
	rtl := opts.RTL()
	sheet := NewSheet(opts.Paper, opts.Title != "")
	pos := opts.IndexPosition
	if opts.Indexer == nil {
		pos = IndexNone
	}

	plan := &Plan{
		Mode:     opts.Mode,
		Title:    opts.Title,
		Language: opts.tag.String(),
		RTL:      rtl,
		Paper:    opts.Paper,
		BBox:     opts.BBox,
		Single: &SingleLayout{
			Title:     sheet.Title,
			Copyright: sheet.Copyright,
			Position:  pos,
		},
	}

	// Stage 1: Index
	var cats []index.Category
	if pos != IndexNone {
		if err := opts.status("Collecting index data"); err != nil {
			return nil, err
		}
		indexStart := time.Now()
		if err := r.stage(ctx, StageIndex, func() error {
			var err error
			cats, err = opts.Indexer.Build(ctx, index.Request{
				BBox:     opts.BBox,
				Area:     opts.area,
				Language: opts.tag,
			})
			if errors.Is(err, errors.ErrCodeIndexEmpty) {
				cats, err = nil, nil
			}
			return err
		}); err != nil {
			return nil, err
		}
		stats.IndexTime = time.Since(indexStart)
		r.Logger.Info("built index",
			"kind", opts.Indexer.Kind(),
			"categories", len(cats),
			"items", index.Count(cats),
			"duration", stats.IndexTime)
	}

	// Stage 2: Layout
	if len(cats) > 0 {
		layoutStart := time.Now()
		if err := r.stage(ctx, StageLayout, func() error {
			zone, freedom, align := sheet.IndexZone(pos, rtl)
			area, err := layout.Fit(cats, zone, freedom, align, opts.Config.Layout.FitStyles(), opts.Measurer)
			if errors.Is(err, errors.ErrCodeIndexDoesNotFit) {
				r.Logger.Warn("index does not fit, rendering the map without it", "position", pos, "zone", zone)
				cats = nil
				return nil
			}
			if err != nil {
				return err
			}
			if pos == IndexExtraPage {
				area.Page = FirstMapPage + 1
				area.PageLabel = layout.PageLabel(0)
				plan.IndexPages = []layout.Area{area}
				return nil
			}
			plan.Single.Index = &area
			return nil
		}); err != nil {
			return nil, err
		}
		stats.LayoutTime = time.Since(layoutStart)
		placed := plan.Single.Index
		if len(plan.IndexPages) > 0 {
			placed = &plan.IndexPages[0]
		}
		if placed != nil {
			r.Logger.Info("placed index",
				"position", pos,
				"columns", placed.Columns,
				"style", placed.Style,
				"duration", stats.LayoutTime)
		}
	}

	// Stage 3: Grid
	if err := opts.status("Preparing the map grid"); err != nil {
		return nil, err
	}
	if err := r.stage(ctx, StageGrids, func() error {
		zone := sheet.MapZone(plan.Single.Index, pos)
		bbox, scale, err := FitMap(opts.BBox, zone)
		if err != nil {
			return err
		}
		g, err := grid.NewProportional(bbox, scale, rtl)
		if err != nil {
			return err
		}
		plan.Single.Map = zone
		plan.Scale = scale
		plan.Zoom = geo.ScaleToZoom(scale)
		plan.Pages = []MapPage{{
			Page:  paging.Page{Number: FirstMapPage, Outer: bbox, Inner: bbox, Visible: true},
			Label: MapPageLabel(FirstMapPage),
			Map:   zone,
			Grid:  g,
		}}
		if len(cats) == 0 {
			return nil
		}
		if err := index.ApplyGrid(cats, g, rtl); err != nil {
			return err
		}
		plan.Index = index.Merge([][]index.Category{cats}, index.NewCollator(opts.tag, false))
		plan.Pages[0].IndexItems = index.Count(plan.Index)
		return nil
	}); err != nil {
		return nil, err
	}
	stats.IndexItems = index.Count(plan.Index)
	r.Logger.Info("fitted map",
		"scale", int(plan.Scale),
		"zoom", plan.Zoom,
		"columns", len(plan.Pages[0].Grid.HorizontalLabels),
		"rows", len(plan.Pages[0].Grid.VerticalLabels))
	return plan, nil
}
