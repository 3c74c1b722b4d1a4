package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ctessum/geom"
	"github.com/spf13/cobra"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/grid"
	"github.com/pi-bie/ocitysmap/pkg/index"
	"github.com/pi-bie/ocitysmap/pkg/layout"
	"github.com/pi-bie/ocitysmap/pkg/pipeline"
)

// indexCommand creates the index command with its subcommands.
func (c *CLI) indexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build and inspect map indexes",
	}

	cmd.AddCommand(c.indexBuildCommand())
	cmd.AddCommand(c.indexShowCommand())

	return cmd
}

type indexOpts struct {
	bbox      string
	area      string
	kind      string
	gazetteer string
	poi       string
	language  string
	title     string
	scale     float64
	output    string
	paper     string
	pages     bool
}

// indexBuildCommand creates the "index build" subcommand.
func (c *CLI) indexBuildCommand() *cobra.Command {
	opts := indexOpts{
		scale:  pipeline.DefaultScale,
		output: stdoutPath,
	}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the index of an area as CSV",
		Long: `Build the index of an area from a gazetteer and export it as CSV.

Locations refer to a lettered grid laid over the area at --scale. With
--pages the index is also flowed into columns on the chosen paper to report
how many index pages it takes.`,
		Example: `  ocitysmap index build --bbox 48.80,2.25,48.90,2.42 --gazetteer paris.db -o paris.csv
  ocitysmap index build --area @boundary.wkt --index Health --gazetteer features.json --pages`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runIndexBuild(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.bbox, "bbox", "b", "", "bounding box lat1,lon1,lat2,lon2 or WKT")
	cmd.Flags().StringVarP(&opts.area, "area", "a", "", "area of interest as WKT polygon, or @file")
	cmd.Flags().StringVarP(&opts.kind, "index", "i", "", "index kind: "+kindList())
	cmd.Flags().StringVar(&opts.gazetteer, "gazetteer", "", "gazetteer database or JSON feature file")
	cmd.Flags().StringVar(&opts.poi, "poi", "", "POI file for the Poi index")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "collation language (default from config)")
	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "title written in the CSV header")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "map scale denominator of the reference grid")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "CSV output file (- for stdout)")
	cmd.Flags().StringVarP(&opts.paper, "paper", "p", "", "paper format of the index pages")
	cmd.Flags().BoolVar(&opts.pages, "pages", false, "lay the index out on pages and report them")

	return cmd
}

func (c *CLI) runIndexBuild(ctx context.Context, opts *indexOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.Config()
	if err != nil {
		return err
	}
	bbox, err := areaBBox(opts.bbox, opts.area)
	if err != nil {
		return err
	}
	area, err := parseAreaFlag(opts.area)
	if err != nil {
		return err
	}
	lang := opts.language
	if lang == "" {
		lang = cfg.Language
	}
	tag, err := errors.ValidateLanguage(lang)
	if err != nil {
		return err
	}
	rtl := index.IsRTL(tag)

	src, err := openIndexer(cfg, opts.kind, opts.gazetteer, opts.poi, logger)
	if err != nil {
		return err
	}
	defer src.Close()
	if src.Indexer == nil {
		return errors.New(errors.ErrCodeInvalidInput, "no index source (--gazetteer or --poi)")
	}

	prog := newProgress(logger)
	cats, err := src.Indexer.Build(ctx, index.Request{BBox: bbox, Area: area, Language: tag})
	if errors.IsNothingToRender(err) {
		printWarning("No %s entries in the area", src.Indexer.Kind())
		return nil
	}
	if err != nil {
		return err
	}
	g, err := grid.NewProportional(bbox, opts.scale, rtl)
	if err != nil {
		return err
	}
	if err := index.ApplyGrid(cats, g, rtl); err != nil {
		return err
	}
	merged := index.Merge([][]index.Category{cats}, index.NewCollator(tag, false))
	prog.done(fmt.Sprintf("Built %s index: %d categories, %d entries", src.Indexer.Kind(), len(merged), index.Count(merged)))

	if err := writeFile(opts.output, func(w io.Writer) error {
		return index.WriteCSV(w, opts.title, index.Notice(time.Now().Year()), merged)
	}); err != nil {
		return err
	}
	if opts.output != stdoutPath {
		logger.Info("wrote index", "path", opts.output)
	}

	if !opts.pages || len(merged) == 0 {
		return nil
	}
	paper, err := resolvePaper(cfg, pipeline.ModeAtlas, opts.paper, false)
	if err != nil {
		return err
	}
	if paper.Name == "" {
		paper = cfg.Papers(true)[0]
	}
	w, h := paper.Usable(pipeline.PrintSafeMarginPt)
	areas, err := layout.Flow(merged, layout.Zone{X: pipeline.PrintSafeMarginPt, Y: pipeline.PrintSafeMarginPt, W: w, H: h}, layout.FaceMeasurer{}, layout.FlowOptions{
		Style:     cfg.Layout.FlowStyle(),
		FirstPage: 1,
		RTL:       rtl,
	})
	if err != nil {
		return err
	}
	logger.Info("laid out index",
		"paper", paper.Name,
		"pages", len(areas),
		"columns", areas[0].Columns,
		"style", areas[0].Style)
	return nil
}

// parseAreaFlag reads the --area flag into polygons, nil when unset.
func parseAreaFlag(flag string) (geom.MultiPolygon, error) {
	wkt, err := readWKT(flag)
	if err != nil || wkt == "" {
		return nil, err
	}
	return geo.ParseArea(wkt)
}

// indexShowCommand creates the "index show" subcommand.
func (c *CLI) indexShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [file.csv]",
		Short: "Print an exported index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			title, cats, err := index.ReadCSV(f, index.IsStreetCategory)
			if err != nil {
				return err
			}
			if title != "" {
				fmt.Println(StyleTitle.Render(title))
			}
			t := newTable("Category", "Entry", "Location")
			for _, cat := range cats {
				for i, it := range cat.Items {
					name := ""
					if i == 0 {
						name = cat.Name
					}
					t.Row(name, it.Label, it.Location)
				}
			}
			fmt.Println(t.Render())
			printDetail("%d categories, %d entries", len(cats), index.Count(cats))
			return nil
		},
	}
}
