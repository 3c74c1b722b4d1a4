// Package config loads ocitysmap settings.
//
// Settings come from three layers, later ones winning:
//
//  1. Compiled-in defaults ([Default]).
//  2. A TOML file, found through the --config flag, the OCITYSMAP_CONFIG
//     environment variable or the user config directory.
//  3. OCITYSMAP_* environment variables, optionally read from a .env file
//     in the working directory.
//
// # File Format
//
//	language  = "fr_FR.UTF-8"
//	gazetteer = "/srv/ocitysmap/paris.sqlite"
//	cache_url = "redis://localhost:6379/0"
//
//	[paper_sizes]
//	DinA4     = "210x297"
//	DinA3     = "297x420"
//
//	[multipage_paper_sizes]
//	DinA5     = "148x210"
//
//	[atlas]
//	max_pages = 60
//
//	[layout]
//	grid_rows = 4
//	grid_cols = 3
//
// Paper sizes keep the order of the file. Entries that do not read as
// "<width>x<height>" millimeters are skipped with a warning.
package config

import (
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/fonts"
	"github.com/pi-bie/ocitysmap/pkg/grid"
	"github.com/pi-bie/ocitysmap/pkg/index"
	"github.com/pi-bie/ocitysmap/pkg/layout"
	"github.com/pi-bie/ocitysmap/pkg/paging"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// AppName names the config and cache directories.
	AppName = "ocitysmap"

	// FileName is the config file looked up in the user config directory.
	FileName = "config.toml"
)

// Environment variables.
const (
	EnvConfig    = "OCITYSMAP_CONFIG"
	EnvLanguage  = "OCITYSMAP_LANGUAGE"
	EnvCacheDir  = "OCITYSMAP_CACHE_DIR"
	EnvGazetteer = "OCITYSMAP_GAZETTEER"
	EnvCacheURL  = "OCITYSMAP_CACHE_URL"
)

// =============================================================================
// Config
// =============================================================================

// Config holds every setting of a planning job that is not specific to
// one area.
type Config struct {
	Language  string `toml:"language"`
	CacheDir  string `toml:"cache_dir"`
	Gazetteer string `toml:"gazetteer"`
	// CacheURL selects a shared Redis cache instead of CacheDir.
	CacheURL string `toml:"cache_url"`

	Atlas     paging.Preset `toml:"atlas"`
	MultiPage paging.Preset `toml:"multipage"`
	Layout    Layout        `toml:"layout"`
	Index     Index         `toml:"index"`

	// Filled from the [paper_sizes] and [multipage_paper_sizes] tables.
	papers          []paging.Paper
	multipagePapers []paging.Paper

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Layout tunes grids and index pages.
type Layout struct {
	GridRows int `toml:"grid_rows"`
	GridCols int `toml:"grid_cols"`

	// FlowHeaderSize and FlowLabelSize are the index page font sizes.
	FlowHeaderSize float64 `toml:"flow_header_size"`
	FlowLabelSize  float64 `toml:"flow_label_size"`

	FontFamily string `toml:"font_family"`
}

// Index selects what goes into the index.
type Index struct {
	Kind    index.Kind `toml:"kind"`
	POIFile string     `toml:"poi_file"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	c := &Config{
		Language:        "en",
		Atlas:           paging.Atlas,
		MultiPage:       paging.MultiPage,
		papers:          paging.DefaultPapers(),
		multipagePapers: paging.DefaultPapers(),
	}
	c.Layout.setDefaults()
	c.Index.Kind = index.KindStreet
	return c
}

func (l *Layout) setDefaults() {
	if l.GridRows <= 0 {
		l.GridRows = grid.DefaultRows
	}
	if l.GridCols <= 0 {
		l.GridCols = grid.DefaultCols
	}
	flow := layout.DefaultFlowStyle()
	if l.FlowHeaderSize <= 0 {
		l.FlowHeaderSize = flow.Header.Size
	}
	if l.FlowLabelSize <= 0 {
		l.FlowLabelSize = flow.Label.Size
	}
	if l.FontFamily == "" {
		l.FontFamily = flow.Label.Family
	}
}

// FlowStyle returns the index page style.
func (l Layout) FlowStyle() layout.Style {
	s := layout.NewStyle(l.FlowHeaderSize, l.FlowLabelSize)
	s.Header.Family = l.FontFamily
	s.Label.Family = l.FontFamily
	return s
}

// FitStyles returns the style tiers tried for single-page indexes, in the
// configured font family.
func (l Layout) FitStyles() []layout.Style {
	styles := layout.DefaultStyles()
	for i := range styles {
		styles[i].Header.Family = l.FontFamily
		styles[i].Label.Family = l.FontFamily
	}
	return styles
}

// Papers returns the single-page formats, or the multi-page ones.
func (c *Config) Papers(multipage bool) []paging.Paper {
	if multipage {
		return c.multipagePapers
	}
	return c.papers
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the TOML file at path over the defaults. Invalid paper sizes
// and unknown keys are logged on logger and ignored.
func Load(path string, logger *log.Logger) (*Config, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	c, err := Parse(string(data), logger)
	if err != nil {
		return nil, err
	}
	c.Path = path
	return c, nil
}

// Parse decodes a TOML document over the defaults.
func Parse(doc string, logger *log.Logger) (*Config, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	var file struct {
		Config
		PaperSizes          map[string]string `toml:"paper_sizes"`
		MultipagePaperSizes map[string]string `toml:"multipage_paper_sizes"`
	}
	file.Config = *Default()
	md, err := toml.Decode(doc, &file)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	for _, k := range md.Undecoded() {
		logger.Warn("ignoring unknown config key", "key", k.String())
	}

	c := file.Config
	c.Atlas.SetDefaults(paging.Atlas)
	c.MultiPage.SetDefaults(paging.MultiPage)
	c.Layout.setDefaults()
	if md.IsDefined("paper_sizes") {
		c.papers = orderedPapers(md, "paper_sizes", file.PaperSizes, logger)
	}
	if md.IsDefined("multipage_paper_sizes") {
		c.multipagePapers = orderedPapers(md, "multipage_paper_sizes", file.MultipagePaperSizes, logger)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// orderedPapers parses the entries of table in file order.
func orderedPapers(md toml.MetaData, table string, values map[string]string, logger *log.Logger) []paging.Paper {
	var papers []paging.Paper
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != table {
			continue
		}
		name := key[1]
		p, err := paging.ParsePaper(name, values[name])
		if err != nil {
			logger.Warn("ignoring invalid paper size", "table", table, "format", name, "size", values[name])
			continue
		}
		papers = append(papers, p)
	}
	return papers
}

// Validate checks settings that have no usable fallback.
func (c *Config) Validate() error {
	if _, err := errors.ValidateLanguage(c.Language); err != nil {
		return err
	}
	if c.Layout.FontFamily != "" && !slices.Contains(fonts.Families(), c.Layout.FontFamily) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown font family %q", c.Layout.FontFamily)
	}
	return nil
}

// Resolve builds the effective configuration for the CLI. A .env file in
// the working directory is loaded first if present. path wins over
// OCITYSMAP_CONFIG; without either, the user config file is read when it
// exists.
func Resolve(path string, logger *log.Logger) (*Config, error) {
	_ = godotenv.Load()

	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		explicit = false
		path = DefaultPath()
	}

	var c *Config
	var err error
	switch {
	case path == "":
		c = Default()
	default:
		c, err = Load(path, logger)
		if errors.Is(err, errors.ErrCodeFileNotFound) && !explicit {
			c, err = Default(), nil
		}
	}
	if err != nil {
		return nil, err
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvLanguage)); v != "" {
		c.Language = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheDir)); v != "" {
		c.CacheDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvGazetteer)); v != "" {
		c.Gazetteer = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheURL)); v != "" {
		c.CacheURL = v
	}
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns the user config file (~/.config/ocitysmap/config.toml),
// or "" when no config directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, FileName)
}

// CacheDirectory returns the plan cache directory, following
// XDG_CACHE_HOME when CacheDir is unset.
func (c *Config) CacheDirectory() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
