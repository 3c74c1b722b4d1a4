package paging

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/ctessum/geom"

	"github.com/pi-bie/ocitysmap/pkg/geo"
)

// OverviewShapefile is the file name of the overview grid.
const OverviewShapefile = "grid_overview.shp"

// ShadeShapefile returns the shade file name of the page with the given
// visible index.
func ShadeShapefile(index int) string {
	return fmt.Sprintf("shade%d.shp", index)
}

// Shade returns the gray margin of p: its outer window with the inner
// rectangle cut out.
func (p Page) Shade() geom.Polygon {
	outer := p.Outer.Polygon()[0]
	hole := p.Inner.Polygon()[0]
	// Holes run clockwise.
	rev := make([]geom.Point, len(hole))
	for i, pt := range hole {
		rev[len(hole)-1-i] = pt
	}
	return geom.Polygon{outer, rev}
}

// WriteShades writes one shade shapefile per visible page into dir and
// returns their paths in page order.
func (g *Grid) WriteShades(dir string) ([]string, error) {
	var paths []string
	for _, p := range g.Pages() {
		path := filepath.Join(dir, ShadeShapefile(p.Index))
		feature := geo.PolygonFeature{Polygon: p.Shade(), Kind: "shade", Label: strconv.Itoa(p.Number)}
		if err := geo.WritePolygonShapefile(path, []geo.PolygonFeature{feature}); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// OverviewLines returns the inner outline of every visible page labeled
// with its number.
func (g *Grid) OverviewLines() []geo.LineFeature {
	pages := g.Pages()
	features := make([]geo.LineFeature, 0, len(pages))
	for _, p := range pages {
		features = append(features, geo.LineFeature{
			LineString: geom.LineString(p.Inner.Polygon()[0]),
			Kind:       "page",
			Label:      strconv.Itoa(p.Number),
		})
	}
	return features
}

// WriteOverview writes the overview grid shapefile into dir.
func (g *Grid) WriteOverview(dir string) (string, error) {
	path := filepath.Join(dir, OverviewShapefile)
	if err := geo.WriteLineShapefile(path, g.OverviewLines()); err != nil {
		return "", err
	}
	return path, nil
}
