package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/pi-bie/ocitysmap/pkg/geo"
	"github.com/pi-bie/ocitysmap/pkg/grid"
	"github.com/pi-bie/ocitysmap/pkg/index"
	"github.com/pi-bie/ocitysmap/pkg/layout"
	"github.com/pi-bie/ocitysmap/pkg/paging"
)

// Plan is everything the rendering collaborator needs to draw a job.
// Paper-space zones are in points with a top-left origin.
type Plan struct {
	Mode     Mode            `json:"mode"`
	Title    string          `json:"title,omitempty"`
	Language string          `json:"language"`
	RTL      bool            `json:"rtl,omitempty"`
	Paper    paging.Paper    `json:"paper"`
	BBox     geo.BoundingBox `json:"bbox"`
	Scale    float64         `json:"scale"`
	Zoom     int             `json:"zoom"`

	FrontMatter []FrontPage `json:"front_matter,omitempty"`

	// Pages lists the visible map pages in numbering order.
	Pages []MapPage `json:"pages"`

	// Pagination holds every page slot and the disposition table of paged
	// plans.
	Pagination *paging.Grid `json:"pagination,omitempty"`

	// Single lays out the sheet of a single-page plan.
	Single *SingleLayout `json:"single,omitempty"`

	Index      []index.Category `json:"index,omitempty"`
	IndexPages []layout.Area    `json:"index_pages,omitempty"`

	// Artifacts lists the shapefiles written into the workspace.
	Artifacts []string `json:"artifacts,omitempty"`
}

// Front page kinds.
const (
	FrontCover    = "cover"
	FrontContents = "contents"
	FrontOverview = "overview"
)

// FrontPage is a page printed before the maps.
type FrontPage struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	// BBox is the area drawn on the overview page.
	BBox *geo.BoundingBox `json:"bbox,omitempty"`
}

// MapPage is one printed map with its grid.
type MapPage struct {
	paging.Page
	Label     string           `json:"label"`
	Map       layout.Zone      `json:"map"`
	Grid      *grid.Grid       `json:"grid"`
	Neighbors paging.Neighbors `json:"neighbors"`
	// IndexItems counts the index entries found on the page.
	IndexItems int `json:"index_items,omitempty"`
}

// SingleLayout splits a single sheet into its parts.
type SingleLayout struct {
	Title     layout.Zone   `json:"title"`
	Map       layout.Zone   `json:"map"`
	Copyright layout.Zone   `json:"copyright"`
	Position  IndexPosition `json:"position"`
	// Index is nil when the sheet carries no index.
	Index *layout.Area `json:"index,omitempty"`
}

// GridShapefile returns the grid file name of the page with the given
// visible index.
func GridShapefile(index int) string {
	return fmt.Sprintf("grid%d.shp", index)
}

// MapPageLabel returns the label of a map page.
func MapPageLabel(number int) string {
	return fmt.Sprintf("Map page %d", number)
}

// Page returns the map page numbered n.
func (p *Plan) Page(n int) (MapPage, bool) {
	for _, mp := range p.Pages {
		if mp.Number == n {
			return mp, true
		}
	}
	return MapPage{}, false
}

// PageCount returns the number of printed pages, front matter included.
func (p *Plan) PageCount() int {
	return len(p.FrontMatter) + len(p.Pages) + len(p.IndexPages)
}

// WriteJSON writes the plan as indented JSON.
func (p *Plan) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// ReadPlan decodes a plan written by WriteJSON.
func ReadPlan(r io.Reader) (*Plan, error) {
	var p Plan
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// WriteArtifacts writes the grid of every page, and the shades and the
// overview of paged plans, into dir. It records and returns the file
// names.
func (p *Plan) WriteArtifacts(dir string) ([]string, error) {
	var names []string
	for _, mp := range p.Pages {
		path, err := mp.Grid.WriteShapefile(dir, GridShapefile(mp.Index))
		if err != nil {
			return nil, fmt.Errorf("grid of page %d: %w", mp.Number, err)
		}
		names = append(names, filepath.Base(path))
	}
	if p.Pagination != nil {
		shades, err := p.Pagination.WriteShades(dir)
		if err != nil {
			return nil, fmt.Errorf("shades: %w", err)
		}
		for _, s := range shades {
			names = append(names, filepath.Base(s))
		}
		overview, err := p.Pagination.WriteOverview(dir)
		if err != nil {
			return nil, fmt.Errorf("overview: %w", err)
		}
		names = append(names, filepath.Base(overview))
	}
	p.Artifacts = names
	return names, nil
}
