package pipeline

import (
	"context"
	"encoding/json"
	"math"

	"github.com/pi-bie/ocitysmap/pkg/cache"
	"github.com/pi-bie/ocitysmap/pkg/config"
	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/paging"
)

// CompatiblePaper is a paper format able to hold a map, with the scale and
// zoom the map gets in each usable orientation.
type CompatiblePaper struct {
	paging.Paper
	PortraitOK     bool    `json:"portrait_ok"`
	PortraitScale  float64 `json:"portrait_scale,omitempty"`
	PortraitZoom   int     `json:"portrait_zoom,omitempty"`
	LandscapeOK    bool    `json:"landscape_ok"`
	LandscapeScale float64 `json:"landscape_scale,omitempty"`
	LandscapeZoom  int     `json:"landscape_zoom,omitempty"`
	Default        bool    `json:"default,omitempty"`
}

// MinimalPaper returns the smallest sheet, in whole millimeters, holding
// bbox at 1:scale with room for margins, title, legend and the index at
// pos.
func MinimalPaper(bbox geo.BoundingBox, scale float64, pos IndexPosition) (widthMM, heightMM float64) {
	scale *= math.Cos(bbox.Top * math.Pi / 180)
	scale *= geo.PtPerInch / geo.RendererPPI

	heightM, widthM := bbox.SphericSizes()
	w := widthM * 1000 / scale
	h := heightM * 1000 / scale

	switch pos {
	case IndexSide:
		w /= 1 - MaxIndexOccupation
	case IndexBottom:
		h /= 1 - MaxIndexOccupation
	}

	w += 2 * geo.PtToMM(PrintSafeMarginPt)
	h += 2 * geo.PtToMM(PrintSafeMarginPt)
	w /= 1 - GridLegendMarginRatio
	h /= 1 - (GridLegendMarginRatio + TitleMarginRatio + AnnotationMarginRatio)

	if w < errors.MinPaperMM {
		h = h * errors.MinPaperMM / w
		w = errors.MinPaperMM
	}
	if h < errors.MinPaperMM {
		w = w * errors.MinPaperMM / h
		h = errors.MinPaperMM
	}
	return math.Ceil(w), math.Ceil(h)
}

// CompatiblePapers lists the single-page formats holding bbox at 1:scale.
// The first entry is the minimal "Best fit" sheet; configured papers
// follow in order when they fit in either orientation, with the scale that
// fills them.
func CompatiblePapers(bbox geo.BoundingBox, papers []paging.Paper, scale float64, pos IndexPosition) ([]CompatiblePaper, error) {
	if err := bbox.Validate(); err != nil {
		return nil, err
	}
	if err := errors.ValidateScale(scale); err != nil {
		return nil, err
	}
	w, h := MinimalPaper(bbox, scale, pos)

	portrait := w < h
	best := CompatiblePaper{
		Paper:       paging.Paper{Name: paging.BestFitPaper, WidthMM: w, HeightMM: h},
		PortraitOK:  portrait,
		LandscapeOK: !portrait,
	}
	if portrait {
		best.PortraitScale, best.PortraitZoom = scale, geo.ScaleToZoom(scale)
	} else {
		best.LandscapeScale, best.LandscapeZoom = scale, geo.ScaleToZoom(scale)
	}
	out := []CompatiblePaper{best}

	for _, p := range papers {
		c := CompatiblePaper{
			Paper:       p,
			PortraitOK:  w <= p.WidthMM && h <= p.HeightMM,
			LandscapeOK: w <= p.HeightMM && h <= p.WidthMM,
		}
		if c.PortraitOK {
			c.PortraitScale = scale / min(p.WidthMM/w, p.HeightMM/h)
			c.PortraitZoom = geo.ScaleToZoom(c.PortraitScale)
		}
		if c.LandscapeOK {
			c.LandscapeScale = scale / min(p.HeightMM/w, p.WidthMM/h)
			c.LandscapeZoom = geo.ScaleToZoom(c.LandscapeScale)
		}
		if c.PortraitOK || c.LandscapeOK {
			out = append(out, c)
		}
	}
	return out, nil
}

// MultiPagePapers lists the paged formats. Any of them fits in both
// orientations; the first one is the default.
func MultiPagePapers(papers []paging.Paper) []CompatiblePaper {
	out := make([]CompatiblePaper, len(papers))
	for i, p := range papers {
		out[i] = CompatiblePaper{Paper: p, PortraitOK: true, LandscapeOK: true, Default: i == 0}
	}
	return out
}

// PapersOptions configure Runner.Papers.
type PapersOptions struct {
	Mode     Mode
	BBox     geo.BoundingBox
	Scale    float64
	Position IndexPosition
	Config   *config.Config
	Refresh  bool
}

// Papers returns the formats available for a map, cached by area, scale
// and configured papers.
func (r *Runner) Papers(ctx context.Context, opts PapersOptions) ([]CompatiblePaper, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Mode == "" {
		opts.Mode = ModeSingle
	}
	if opts.Scale == 0 {
		opts.Scale = DefaultScale
	}
	if opts.Position == "" {
		opts.Position = IndexSide
	}
	papers := opts.Config.Papers(opts.Mode.Paged())
	if opts.Mode.Paged() {
		return MultiPagePapers(papers), nil
	}

	configHash, _ := cache.HashJSON(papers)
	cacheKey := r.Keyer.PapersKey(cache.PapersKeyOpts{
		BBox:       opts.BBox.WKT(),
		Scale:      opts.Scale,
		Position:   string(opts.Position),
		ConfigHash: configHash,
	})
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached []CompatiblePaper
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	out, err := CompatiblePapers(opts.BBox, papers, opts.Scale, opts.Position)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("best fit including decorations",
		"width_mm", out[0].WidthMM,
		"height_mm", out[0].HeightMM,
		"compatible", len(out)-1)

	if data, err := json.Marshal(out); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLPapers)
	}
	return out, nil
}
