package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/index"
	"github.com/pi-bie/ocitysmap/pkg/pipeline"
	"github.com/pi-bie/ocitysmap/pkg/render/proof"
)

const defaultPrefix = "citymap"

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	mode      string
	title     string
	bbox      string
	area      string
	tracks    string
	paper     string
	landscape bool
	language  string
	position  string

	indexKind string
	gazetteer string
	poi       string

	prefix     string
	outputDir  string
	proof      bool
	csv        bool
	shapefiles bool

	keepWorkspace bool
	workDir       string
	noCache       bool
	refresh       bool
}

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	opts := planOpts{
		mode:      string(pipeline.ModeAtlas),
		prefix:    defaultPrefix,
		outputDir: ".",
	}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Paginate an area and build its grids and index",
		Long: `Plan a printed map of an area given by --bbox or --area.

The plan is written as <prefix>.plan.json. It lists every page with its
bounding box, reference grid and neighbors, and the index laid out on the
pages that follow the maps.`,
		Example: `  ocitysmap plan --bbox 48.80,2.25,48.90,2.42 --title Paris --gazetteer paris.db
  ocitysmap plan --mode single --area @boundary.wkt --paper DinA4 --landscape --proof
  ocitysmap plan --mode multipage --bbox 48.80,2.25,48.90,2.42 --index none --shapefiles`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", opts.mode, "layout: "+modeList())
	cmd.Flags().StringVarP(&opts.title, "title", "t", "", "map title")
	cmd.Flags().StringVarP(&opts.bbox, "bbox", "b", "", "bounding box lat1,lon1,lat2,lon2 or WKT")
	cmd.Flags().StringVarP(&opts.area, "area", "a", "", "area of interest as WKT polygon, or @file")
	cmd.Flags().StringVar(&opts.tracks, "tracks", "", "tracks to cover as WKT lines, or @file")
	cmd.Flags().StringVarP(&opts.paper, "paper", "p", "", "paper format name or <width>x<height> in mm")
	cmd.Flags().BoolVar(&opts.landscape, "landscape", false, "rotate the paper")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "index language (default from config)")
	cmd.Flags().StringVar(&opts.position, "index-position", string(pipeline.IndexSide), "single-page index position: side, bottom, extra_page, none")
	cmd.Flags().StringVarP(&opts.indexKind, "index", "i", "", "index kind: "+kindList()+", or none")
	cmd.Flags().StringVar(&opts.gazetteer, "gazetteer", "", "gazetteer database or JSON feature file")
	cmd.Flags().StringVar(&opts.poi, "poi", "", "POI file for the Poi index")
	cmd.Flags().StringVar(&opts.prefix, "prefix", opts.prefix, "output file prefix")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", opts.outputDir, "directory receiving the outputs")
	cmd.Flags().BoolVar(&opts.proof, "proof", false, "also write a layout proof PDF")
	cmd.Flags().BoolVar(&opts.csv, "csv", false, "also export the index as CSV")
	cmd.Flags().BoolVar(&opts.shapefiles, "shapefiles", false, "copy the grid and shade shapefiles to <prefix>-shapes/")
	cmd.Flags().BoolVar(&opts.keepWorkspace, "keep-workspace", false, "keep the job workspace")
	cmd.Flags().StringVar(&opts.workDir, "workdir", "", "parent of the job workspace (default system temp dir)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the plan cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute the plan even when cached")

	_ = cmd.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return strings.Split(modeList(), ", "), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("index", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return append(strings.Split(kindList(), ", "), noIndex), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func modeList() string {
	names := make([]string, 0, 3)
	for _, m := range pipeline.Modes() {
		names = append(names, string(m))
	}
	return strings.Join(names, ", ")
}

func kindList() string {
	var names []string
	for _, k := range index.Kinds() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

// buildOptions turns the flags into pipeline options, opening the index
// source. The caller closes the returned source.
func (c *CLI) buildOptions(ctx context.Context, opts *planOpts) (pipeline.Options, *indexSource, error) {
	logger := loggerFromContext(ctx)
	cfg, err := c.Config()
	if err != nil {
		return pipeline.Options{}, nil, err
	}
	mode, err := pipeline.ParseMode(opts.mode)
	if err != nil {
		return pipeline.Options{}, nil, err
	}
	if err := errors.ValidateFilePrefix(opts.prefix); err != nil {
		return pipeline.Options{}, nil, err
	}
	bbox, err := parseBBox(opts.bbox)
	if err != nil {
		return pipeline.Options{}, nil, err
	}
	area, err := readWKT(opts.area)
	if err != nil {
		return pipeline.Options{}, nil, err
	}
	tracks, err := readWKT(opts.tracks)
	if err != nil {
		return pipeline.Options{}, nil, err
	}
	paper, err := resolvePaper(cfg, mode, opts.paper, opts.landscape)
	if err != nil {
		return pipeline.Options{}, nil, err
	}
	pos, err := pipeline.ParseIndexPosition(opts.position)
	if err != nil {
		return pipeline.Options{}, nil, err
	}

	src := &indexSource{}
	if pos != pipeline.IndexNone || mode.Paged() {
		src, err = openIndexer(cfg, opts.indexKind, opts.gazetteer, opts.poi, logger)
		if err != nil {
			return pipeline.Options{}, nil, err
		}
	}

	return pipeline.Options{
		Mode:          mode,
		Title:         opts.title,
		BBox:          bbox,
		Area:          area,
		Tracks:        tracks,
		Paper:         paper,
		Language:      opts.language,
		IndexPosition: pos,
		Refresh:       opts.refresh,
		Config:        cfg,
		Indexer:       src.Indexer,
		SourceHash:    src.Hash,
		KeepWorkspace: opts.keepWorkspace,
		WorkDir:       opts.workDir,
		Logger:        logger,
	}, src, nil
}

// runPlan plans the job and writes the requested outputs while the
// workspace still exists.
func (c *CLI) runPlan(ctx context.Context, opts *planOpts) error {
	logger := loggerFromContext(ctx)

	popts, src, err := c.buildOptions(ctx, opts)
	if err != nil {
		return err
	}
	defer src.Close()

	runner, err := c.newRunner(popts.Config, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	if err := os.MkdirAll(opts.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	popts.Consume = func(ctx context.Context, res *pipeline.Result) error {
		files, err := writeOutputs(res, opts)
		written = files
		return err
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Planning %s", popts.Mode))
	popts.Status = statusReporter(ctx, logger, spinner)
	spinner.Start()
	prog := newProgress(logger)
	res, err := runner.Plan(ctx, popts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Planned %d map pages", len(res.Plan.Pages)))

	printPlanSummary(res)
	for _, f := range written {
		printFile(f)
	}
	if opts.keepWorkspace {
		printDetail("Workspace: %s", res.Workspace)
	}
	printNextStep("Browse the pages", fmt.Sprintf("%s pages %s", appName, written[0]))
	return nil
}

// writeOutputs writes the plan file and the optional proof, CSV and
// shapefile outputs. The plan file comes first.
func writeOutputs(res *pipeline.Result, opts *planOpts) ([]string, error) {
	base := filepath.Join(opts.outputDir, opts.prefix)
	plan := res.Plan

	planPath := base + ".plan.json"
	if err := writeFile(planPath, plan.WriteJSON); err != nil {
		return nil, fmt.Errorf("write plan: %w", err)
	}
	written := []string{planPath}

	if opts.proof {
		path := base + ".pdf"
		if err := proof.WriteFile(plan, path); err != nil {
			return written, fmt.Errorf("write proof: %w", err)
		}
		written = append(written, path)
	}

	if opts.csv && len(plan.Index) > 0 {
		path := base + ".csv"
		notice := index.Notice(time.Now().Year())
		if err := writeFile(path, func(w io.Writer) error {
			return index.WriteCSV(w, plan.Title, notice, plan.Index)
		}); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if opts.shapefiles {
		dir := base + "-shapes"
		if err := copyWorkspace(res.Workspace, dir); err != nil {
			return written, fmt.Errorf("copy shapefiles: %w", err)
		}
		written = append(written, dir)
	}
	return written, nil
}

// writeFile creates path and fills it with fn.
func writeFile(path string, fn func(io.Writer) error) error {
	f, err := createOutput(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// copyWorkspace copies the regular files of the workspace into dir,
// replacing files of the same name.
func copyWorkspace(workspace, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(workspace)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := copyFile(filepath.Join(workspace, e.Name()), filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return writeFile(dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}
