package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/grid"
	"github.com/pi-bie/ocitysmap/pkg/index"
	"github.com/pi-bie/ocitysmap/pkg/layout"
	"github.com/pi-bie/ocitysmap/pkg/paging"
)

// FirstMapPage is the number of the first map page of paged plans. Front
// matter uses roman numerals and does not shift it.
const FirstMapPage = 1

// planPaged computes an atlas or multi-page plan: pagination first, then
// one grid and one index pass per visible page, and finally the merged
// index flowed onto the pages that follow the maps.
func (r *Runner) planPaged(ctx context.Context, opts *Options, stats *Stats) (*Plan, error) {
	rtl := opts.RTL()
	usableW, usableH := opts.Paper.Usable(PrintSafeMarginPt)
	zone := layout.Zone{X: PrintSafeMarginPt, Y: PrintSafeMarginPt, W: usableW, H: usableH}

	plan := &Plan{
		Mode:     opts.Mode,
		Title:    opts.Title,
		Language: opts.tag.String(),
		RTL:      rtl,
		Paper:    opts.Paper,
		BBox:     opts.BBox,
	}

	// Stage 1: Paginate
	if err := opts.status("Preparing %s pagination", opts.Mode); err != nil {
		return nil, err
	}
	paginateStart := time.Now()
	var pg *paging.Grid
	if err := r.stage(ctx, StagePaginate, func() error {
		var err error
		pg, err = paging.Build(paging.BuildInput{
			Preset:         opts.Preset(),
			BBox:           opts.BBox,
			UsableWidthPt:  usableW,
			UsableHeightPt: usableH,
			Filter:         geo.NewFilter(opts.area, opts.tracks),
			FirstPage:      FirstMapPage,
		})
		if err != nil {
			return err
		}
		if len(pg.Pages()) == 0 {
			return errors.New(errors.ErrCodeAreaNotFound, "no page of the %dx%d layout shows the area", pg.Scale.Rows, pg.Scale.Cols)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	stats.PaginateTime = time.Since(paginateStart)
	if pg.Scale.Degraded {
		r.Logger.Warn("page count limit not reached before the ceiling scale",
			"scale", pg.Scale.Scale,
			"pages", pg.Scale.Pages(),
			"max_pages", opts.Preset().MaxPages)
	}
	pages := pg.Pages()
	plan.Pagination = pg
	plan.Scale = pg.Scale.Scale
	plan.Zoom = geo.ScaleToZoom(pg.Scale.Scale)
	r.Logger.Info("paginated area",
		"scale", int(pg.Scale.Scale),
		"rows", pg.Scale.Rows,
		"cols", pg.Scale.Cols,
		"pages", len(pages),
		"culled", len(pg.Slots)-len(pages),
		"duration", stats.PaginateTime)

	plan.FrontMatter = frontMatter(opts.Mode, pg.OverviewBBox())

	// Stage 2: Grids
	if err := r.stage(ctx, StageGrids, func() error {
		for _, p := range pages {
			g, err := pageGrid(opts, p, pg.Scale.Scale, rtl)
			if err != nil {
				return fmt.Errorf("grid of page %d: %w", p.Number, err)
			}
			neighbors, _ := pg.Disposition.Neighbors(p.Number)
			plan.Pages = append(plan.Pages, MapPage{
				Page:      p,
				Label:     MapPageLabel(p.Number),
				Map:       zone,
				Grid:      g,
				Neighbors: neighbors,
			})
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if opts.Indexer == nil {
		return plan, nil
	}

	// Stage 3: Index
	indexStart := time.Now()
	perPage := make([][]index.Category, 0, len(plan.Pages))
	if err := r.stage(ctx, StageIndex, func() error {
		for i := range plan.Pages {
			mp := &plan.Pages[i]
			if err := ctx.Err(); err != nil {
				return errors.Wrap(errors.ErrCodeCanceled, err, "job canceled")
			}
			if err := opts.status("Preparing map page %d of %d: collecting index data", i+1, len(plan.Pages)); err != nil {
				return err
			}
			cats, err := opts.Indexer.Build(ctx, index.Request{
				BBox:     mp.Inner,
				Area:     opts.area,
				Page:     mp.Number,
				Language: opts.tag,
			})
			if errors.Is(err, errors.ErrCodeIndexEmpty) {
				continue
			}
			if err != nil {
				return err
			}
			if err := index.ApplyGrid(cats, mp.Grid, rtl); err != nil {
				return err
			}
			mp.IndexItems = index.Count(cats)
			opts.Logger.Debug("indexed page", "page", mp.Number, "items", mp.IndexItems)
			perPage = append(perPage, cats)
		}
		plan.Index = index.Merge(perPage, index.NewCollator(opts.tag, false))
		return nil
	}); err != nil {
		return nil, err
	}
	stats.IndexTime = time.Since(indexStart)
	stats.IndexItems = index.Count(plan.Index)
	r.Logger.Info("built index",
		"kind", opts.Indexer.Kind(),
		"categories", len(plan.Index),
		"items", stats.IndexItems,
		"duration", stats.IndexTime)

	// Stage 4: Layout
	if err := opts.status("Preparing index pages"); err != nil {
		return nil, err
	}
	layoutStart := time.Now()
	err := r.stage(ctx, StageLayout, func() error {
		areas, err := layout.Flow(plan.Index, zone, opts.Measurer, layout.FlowOptions{
			Style:     opts.Config.Layout.FlowStyle(),
			FirstPage: FirstMapPage + len(plan.Pages),
			RTL:       rtl,
		})
		plan.IndexPages = areas
		return err
	})
	if errors.Is(err, errors.ErrCodeIndexEmpty) {
		r.Logger.Info("index is empty, no index pages", "kind", opts.Indexer.Kind())
		return plan, nil
	}
	if err != nil {
		return nil, err
	}
	stats.LayoutTime = time.Since(layoutStart)
	r.Logger.Info("laid out index",
		"pages", len(plan.IndexPages),
		"first_page", FirstMapPage+len(plan.Pages),
		"duration", stats.LayoutTime)
	return plan, nil
}

// pageGrid returns the grid of one page: numbered cells continuing across
// atlas pages, or a lettered grid on multi-page maps.
func pageGrid(opts *Options, p paging.Page, scale float64, rtl bool) (*grid.Grid, error) {
	if opts.Mode == ModeAtlas {
		rows, cols := opts.Config.Layout.GridRows, opts.Config.Layout.GridCols
		return grid.NewFixed(p.Inner, scale, rows, cols, grid.PageOffset(p.Index, rows, cols), rtl)
	}
	return grid.NewProportional(p.Inner, scale, rtl)
}

// frontMatter lists the pages printed before the maps.
func frontMatter(mode Mode, overview geo.BoundingBox) []FrontPage {
	if mode == ModeAtlas {
		return []FrontPage{
			{Kind: FrontCover, Label: "i"},
			{Kind: FrontContents, Label: "ii"},
			{Kind: FrontOverview, Label: "iii", BBox: &overview},
		}
	}
	return []FrontPage{
		{Kind: FrontCover, Label: "i"},
		{Kind: FrontOverview, Label: "ii", BBox: &overview},
	}
}
