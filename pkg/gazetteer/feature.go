package gazetteer

import (
	"math"
	"slices"
	"strings"

	"github.com/ctessum/geom"

	"github.com/pi-bie/ocitysmap/pkg/geo"
)

// Feature is a named map object.
type Feature struct {
	ID       int64
	Name     string
	Tags     map[string]string
	Geometry geom.Geom
}

// Tag returns the trimmed value of tag k.
func (f Feature) Tag(k string) string {
	return strings.TrimSpace(f.Tags[k])
}

// HasName reports whether the feature carries a non-blank name.
func (f Feature) HasName() bool {
	return strings.TrimSpace(f.Name) != ""
}

// BoundingBox returns the extent of the feature geometry.
func (f Feature) BoundingBox() geo.BoundingBox {
	return geo.FromBounds(f.Geometry.Bounds())
}

// Endpoints returns the two feature vertices farthest apart, which is
// where the index locates a street. A point returns itself twice.
func (f Feature) Endpoints() (geo.Point, geo.Point) {
	return endpoints(vertices(f.Geometry))
}

func vertices(g geom.Geom) []geom.Point {
	switch v := g.(type) {
	case geom.Point:
		return []geom.Point{v}
	case geom.LineString:
		return v
	case geom.MultiLineString:
		var pts []geom.Point
		for _, l := range v {
			pts = append(pts, l...)
		}
		return pts
	case geom.Polygon:
		var pts []geom.Point
		for _, r := range v {
			pts = append(pts, r...)
		}
		return pts
	case geom.MultiPolygon:
		var pts []geom.Point
		for _, p := range v {
			pts = append(pts, vertices(p)...)
		}
		return pts
	}
	if g == nil {
		return nil
	}
	b := g.Bounds()
	return []geom.Point{b.Min, b.Max}
}

// endpoints finds the farthest pair of pts. Distances are compared in
// degrees scaled by the cosine of the mean latitude, which preserves the
// ordering at city extents.
func endpoints(pts []geom.Point) (geo.Point, geo.Point) {
	if len(pts) == 0 {
		return geo.Point{}, geo.Point{}
	}
	lat := 0.0
	for _, p := range pts {
		lat += p.Y
	}
	k := math.Cos(lat / float64(len(pts)) * math.Pi / 180)

	a, b, best := 0, 0, -1.0
	for i := range pts {
		for j := i + 1; j < len(pts); j++ {
			dx := (pts[i].X - pts[j].X) * k
			dy := pts[i].Y - pts[j].Y
			if d := dx*dx + dy*dy; d > best {
				a, b, best = i, j, d
			}
		}
	}
	return toPoint(pts[a]), toPoint(pts[b])
}

func toPoint(p geom.Point) geo.Point { return geo.Point{Lat: p.Y, Lon: p.X} }

// mergeByName collapses features sharing a name into one whose geometry
// gathers all their vertices. Order follows first appearance.
func mergeByName(features []Feature) []Feature {
	pos := map[string]int{}
	var out []Feature
	for _, f := range features {
		name := strings.TrimSpace(f.Name)
		i, ok := pos[name]
		if !ok {
			pos[name] = len(out)
			f.Name = name
			out = append(out, f)
			continue
		}
		merged := slices.Concat(vertices(out[i].Geometry), vertices(f.Geometry))
		out[i].Geometry = geom.LineString(merged)
	}
	return out
}
