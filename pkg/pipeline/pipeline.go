// Package pipeline turns an area of interest and a paper format into a
// printable plan.
//
// This package implements the complete paginate → grid → index → layout
// pipeline used by the CLI. By centralizing this logic, every entry point
// produces the same pages, grids and index columns for the same job.
//
// # Modes
//
// Three kinds of plan are supported:
//
//  1. Atlas: facing-spread map pages with a fixed grid per page, front
//     matter and index pages after the maps.
//  2. MultiPage: uniform overlapping map pages with proportional grids.
//  3. Single: one sheet with the map, a proportional grid and an optional
//     side or bottom index.
//
// # Usage
//
// Create a Runner and plan a job:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Mode:    pipeline.ModeAtlas,
//	    BBox:    geo.NewBoundingBox(48.87, 2.29, 48.84, 2.36),
//	    Paper:   paging.DefaultPapers()[0],
//	    Indexer: indexer,
//	}
//	result, err := runner.Plan(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, p := range result.Plan.Pages {
//	    fmt.Println(p.Label, p.Grid.HorizontalLabels)
//	}
//
// Shapefiles for the rendering collaborator are written into a per-job
// workspace that only lives for the duration of the call, unless
// KeepWorkspace is set. Use Options.Consume to read them in place.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ctessum/geom"
	"golang.org/x/text/language"

	"github.com/pi-bie/ocitysmap/pkg/cache"
	"github.com/pi-bie/ocitysmap/pkg/config"
	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/index"
	"github.com/pi-bie/ocitysmap/pkg/layout"
	"github.com/pi-bie/ocitysmap/pkg/paging"
)

// =============================================================================
// Page Geometry Constants
// =============================================================================

const (
	// PrintSafeMarginPt is left blank on every side of every sheet.
	PrintSafeMarginPt = 15.0

	// Fractions of the paper height reserved on single-page maps.
	GridLegendMarginRatio = 0.02
	TitleMarginRatio      = 0.05
	AnnotationMarginRatio = 0.03

	// MaxIndexOccupation is the largest share of the usable width (side
	// index) or height (bottom index) given to a single-page index.
	MaxIndexOccupation = 1.0 / 3

	// DefaultScale is the scale denominator used to size papers when
	// none is given.
	DefaultScale = 7000000
)

// Stage names reported to hooks and logs.
const (
	StagePrepare   = "prepare"
	StagePaginate  = "paginate"
	StageGrids     = "grids"
	StageIndex     = "index"
	StageLayout    = "layout"
	StageArtifacts = "artifacts"
)

// =============================================================================
// Modes
// =============================================================================

// Mode selects the kind of plan.
type Mode string

const (
	ModeAtlas     Mode = "atlas"
	ModeMultiPage Mode = "multipage"
	ModeSingle    Mode = "single"
)

// Modes lists the supported modes.
func Modes() []Mode { return []Mode{ModeAtlas, ModeMultiPage, ModeSingle} }

// ParseMode reads a mode name.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes() {
		if string(m) == strings.ToLower(strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown mode %q (must be one of: atlas, multipage, single)", s)
}

// Paged reports whether the mode spreads the map over several pages.
func (m Mode) Paged() bool { return m == ModeAtlas || m == ModeMultiPage }

// IndexPosition places the index of a single-page map.
type IndexPosition string

const (
	IndexNone   IndexPosition = "none"
	IndexSide   IndexPosition = "side"
	IndexBottom IndexPosition = "bottom"
	// IndexExtraPage leaves the whole sheet to the map and prints the
	// index on a second page.
	IndexExtraPage IndexPosition = "extra_page"
)

// ParseIndexPosition reads an index position name. The empty string
// selects the side.
func ParseIndexPosition(s string) (IndexPosition, error) {
	switch p := IndexPosition(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return IndexSide, nil
	case IndexNone, IndexSide, IndexBottom, IndexExtraPage:
		return p, nil
	case "extra-page":
		return IndexExtraPage, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown index position %q (must be one of: none, side, bottom, extra_page)", s)
}

// StatusFunc receives progress messages between stages. Returning an
// error aborts the job.
type StatusFunc func(msg string) error

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for one planning job.
type Options struct {
	Mode  Mode   `json:"mode"`
	Title string `json:"title,omitempty"`

	// BBox is the map extent. When zero it is taken from Area.
	BBox geo.BoundingBox `json:"bbox"`
	// Area is an optional WKT polygon or multipolygon narrowing page
	// culling and indexing.
	Area string `json:"area,omitempty"`
	// Tracks is an optional WKT linestring or multilinestring. When set,
	// only pages crossed by a track are kept.
	Tracks string `json:"tracks,omitempty"`

	Paper    paging.Paper `json:"paper"`
	Language string       `json:"language,omitempty"`

	// IndexPosition applies to single-page plans only.
	IndexPosition IndexPosition `json:"index_position,omitempty"`

	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Config  *config.Config `json:"-"`
	Indexer index.Indexer  `json:"-"`
	// SourceHash identifies the data behind Indexer in cache keys.
	SourceHash string          `json:"-"`
	Measurer   layout.Measurer `json:"-"`
	Status     StatusFunc      `json:"-"`
	// Consume is called with the plan while the workspace still exists.
	Consume func(ctx context.Context, res *Result) error `json:"-"`
	// KeepWorkspace leaves the job workspace on disk. WorkDir is its
	// parent, the system temp directory when empty.
	KeepWorkspace bool        `json:"-"`
	WorkDir       string      `json:"-"`
	Logger        *log.Logger `json:"-"`

	// Parsed by ValidateAndSetDefaults.
	area   geom.MultiPolygon
	tracks []geom.LineString
	tag    language.Tag

	validated bool
}

// Result contains the outputs of a planning job.
type Result struct {
	// JobID names the workspace of the job.
	JobID string

	Plan *Plan

	// Workspace is the directory holding the shapefiles. It is removed
	// when Plan returns unless KeepWorkspace was set.
	Workspace string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	MapPages     int
	IndexPages   int
	IndexItems   int
	PaginateTime time.Duration
	IndexTime    time.Duration
	LayoutTime   time.Duration
	ArtifactTime time.Duration
	TotalTime    time.Duration
}

// CacheInfo tracks whether the plan came from the cache.
type CacheInfo struct {
	PlanHit bool
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Mode == "" {
		o.Mode = ModeAtlas
	}
	if _, err := ParseMode(string(o.Mode)); err != nil {
		return err
	}
	if o.Config == nil {
		o.Config = config.Default()
	}
	if o.Language == "" {
		o.Language = o.Config.Language
	}
	tag, err := errors.ValidateLanguage(o.Language)
	if err != nil {
		return err
	}
	o.tag = tag

	if o.Area != "" {
		area, err := geo.ParseArea(o.Area)
		if err != nil {
			return err
		}
		o.area = area
		if o.BBox == (geo.BoundingBox{}) {
			o.BBox = geo.FromBounds(area.Bounds())
		}
	}
	if o.Tracks != "" {
		g, err := geo.ParseWKT(o.Tracks)
		if err != nil {
			return err
		}
		o.tracks = geo.Lines(g)
		if len(o.tracks) == 0 {
			return errors.New(errors.ErrCodeInvalidWKT, "tracks hold no line")
		}
	}
	if o.BBox == (geo.BoundingBox{}) {
		return errors.New(errors.ErrCodeInvalidBBox, "bounding box or area is required")
	}
	o.BBox = o.BBox.EnsureExtent()
	if err := o.BBox.Validate(); err != nil {
		return err
	}

	if o.Paper == (paging.Paper{}) {
		o.Paper = o.Config.Papers(o.Mode.Paged())[0]
	}
	if err := o.Paper.Validate(); err != nil {
		return err
	}

	if o.IndexPosition == "" {
		o.IndexPosition = IndexSide
	}
	pos, err := ParseIndexPosition(string(o.IndexPosition))
	if err != nil {
		return err
	}
	o.IndexPosition = pos
	if o.Measurer == nil {
		o.Measurer = layout.FaceMeasurer{}
	}
	if o.Status == nil {
		o.Status = func(string) error { return nil }
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// RTL reports whether the job language is written right to left.
func (o *Options) RTL() bool { return index.IsRTL(o.tag) }

// Preset returns the pagination preset of a paged mode.
func (o *Options) Preset() paging.Preset {
	if o.Mode == ModeAtlas {
		return o.Config.Atlas
	}
	return o.Config.MultiPage
}

// status forwards msg to the status callback, turning a refusal into a
// cancellation.
func (o *Options) status(format string, args ...any) error {
	if err := o.Status(fmt.Sprintf(format, args...)); err != nil {
		return errors.Wrap(errors.ErrCodeCanceled, err, "job aborted")
	}
	return nil
}

// PlanKeyOpts returns cache key options for the plan.
func (o *Options) PlanKeyOpts() cache.PlanKeyOpts {
	k := cache.PlanKeyOpts{
		BBox:       o.BBox.WKT(),
		PaperW:     o.Paper.WidthMM,
		PaperH:     o.Paper.HeightMM,
		Language:   o.tag.String(),
		Title:      o.Title,
		SourceHash: o.SourceHash,
	}
	if o.Area != "" {
		k.AreaHash = cache.Hash([]byte(o.Area))
	}
	if o.Tracks != "" {
		k.Tracks = cache.Hash([]byte(o.Tracks))
	}
	if o.Indexer != nil {
		k.Index = o.Indexer.Kind().String()
	}
	if o.Mode == ModeSingle {
		k.Position = string(o.IndexPosition)
	}
	k.ConfigHash, _ = cache.HashJSON(struct {
		Preset paging.Preset
		Layout config.Layout
	}{o.Preset(), o.Config.Layout})
	return k
}
