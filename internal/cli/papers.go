package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/pipeline"
)

type papersOpts struct {
	mode     string
	bbox     string
	area     string
	scale    float64
	position string
	noCache  bool
	refresh  bool
}

// papersCommand creates the papers command.
func (c *CLI) papersCommand() *cobra.Command {
	opts := papersOpts{
		mode:     string(pipeline.ModeSingle),
		scale:    pipeline.DefaultScale,
		position: string(pipeline.IndexSide),
	}

	cmd := &cobra.Command{
		Use:   "papers",
		Short: "List the paper formats an area fits on",
		Long: `List the paper formats available for an area.

Single-page maps start with the smallest "Best fit" sheet holding the area at
--scale, followed by the configured formats it fits on, each with the scale
and zoom level the map gets in portrait and landscape. Paged maps accept any
configured multi-page format.`,
		Example: `  ocitysmap papers --bbox 48.80,2.25,48.90,2.42
  ocitysmap papers --area @boundary.wkt --scale 10000 --index-position bottom`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPapers(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", opts.mode, "layout: "+modeList())
	cmd.Flags().StringVarP(&opts.bbox, "bbox", "b", "", "bounding box lat1,lon1,lat2,lon2 or WKT")
	cmd.Flags().StringVarP(&opts.area, "area", "a", "", "area of interest as WKT polygon, or @file")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "map scale denominator")
	cmd.Flags().StringVar(&opts.position, "index-position", opts.position, "index position: side, bottom, extra_page, none")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

func (c *CLI) runPapers(ctx context.Context, opts *papersOpts) error {
	cfg, err := c.Config()
	if err != nil {
		return err
	}
	mode, err := pipeline.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	pos, err := pipeline.ParseIndexPosition(opts.position)
	if err != nil {
		return err
	}
	bbox, err := areaBBox(opts.bbox, opts.area)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	papers, err := runner.Papers(ctx, pipeline.PapersOptions{
		Mode:     mode,
		BBox:     bbox,
		Scale:    opts.scale,
		Position: pos,
		Config:   cfg,
		Refresh:  opts.refresh,
	})
	if err != nil {
		return err
	}

	fmt.Println(StyleTitle.Render(fmt.Sprintf("Paper formats for %s maps", mode)))
	fmt.Println(papersTable(papers).Render())
	return nil
}

// areaBBox returns the box given by --bbox, or the bounds of --area.
func areaBBox(bboxFlag, areaFlag string) (geo.BoundingBox, error) {
	bbox, err := parseBBox(bboxFlag)
	if err != nil || bboxFlag != "" {
		return bbox, err
	}
	wkt, err := readWKT(areaFlag)
	if err != nil {
		return geo.BoundingBox{}, err
	}
	if wkt == "" {
		return geo.BoundingBox{}, errors.New(errors.ErrCodeInvalidBBox, "an area is required (--bbox or --area)")
	}
	return geo.ParseBoundingBox(wkt)
}

// papersTable renders one row per paper format.
func papersTable(papers []pipeline.CompatiblePaper) *table.Table {
	t := newTable("Format", "Size (mm)", "Portrait", "Landscape", "")
	for _, p := range papers {
		def := ""
		if p.Default {
			def = "default"
		}
		t.Row(
			p.Name,
			fmt.Sprintf("%g x %g", p.WidthMM, p.HeightMM),
			orientation(p.PortraitOK, p.PortraitScale, p.PortraitZoom),
			orientation(p.LandscapeOK, p.LandscapeScale, p.LandscapeZoom),
			def,
		)
	}
	return t
}

// orientation describes one orientation of a format.
func orientation(ok bool, scale float64, zoom int) string {
	switch {
	case !ok:
		return "-"
	case scale == 0:
		return "yes"
	default:
		return fmt.Sprintf("1:%d, zoom %d", int(scale), zoom)
	}
}
