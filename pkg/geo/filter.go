package geo

import (
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
)

// Filter decides whether a page window shows relevant content. Geometries
// are indexed once in R-trees so each page costs a bounds query plus exact
// tests on the few candidates.
//
// When tracks are present they take precedence over the area: a page is
// visible if a track crosses it, regardless of the area polygon.
type Filter struct {
	area   *rtree.Rtree
	tracks *rtree.Rtree
	nArea  int
	nTrack int
}

// NewFilter indexes the area of interest and the optional GPS tracks.
// Coordinates are lon/lat, matching [BoundingBox.Bounds].
func NewFilter(area geom.MultiPolygon, tracks []geom.LineString) *Filter {
	f := &Filter{
		area:   rtree.NewTree(25, 50),
		tracks: rtree.NewTree(25, 50),
	}
	for _, p := range area {
		if len(p) == 0 {
			continue
		}
		f.area.Insert(p)
		f.nArea++
	}
	for _, l := range tracks {
		if len(l) == 0 {
			continue
		}
		f.tracks.Insert(l)
		f.nTrack++
	}
	return f
}

// HasTracks reports whether visibility is decided by tracks.
func (f *Filter) HasTracks() bool { return f.nTrack > 0 }

// Visible reports whether b shows any relevant content. With no area and
// no tracks every window is visible.
func (f *Filter) Visible(b BoundingBox) bool {
	r := b.Bounds()
	window := b.Polygon()
	if f.nTrack > 0 {
		for _, g := range f.tracks.SearchIntersect(r) {
			if l, ok := g.(geom.LineString); ok && lineTouches(l, window) {
				return true
			}
		}
		return false
	}
	if f.nArea == 0 {
		return true
	}
	for _, g := range f.area.SearchIntersect(r) {
		if p, ok := g.(geom.Polygon); ok && polygonTouches(p, window) {
			return true
		}
	}
	return false
}

// lineTouches reports whether any part of l lies in the window, edges
// included.
func lineTouches(l geom.LineString, window geom.Polygon) bool {
	for _, pt := range l {
		if pt.Within(window) != geom.Outside {
			return true
		}
	}
	if len(l) < 2 {
		return false
	}
	clipped, ok := l.Clip(window).(geom.MultiLineString)
	if !ok {
		return false
	}
	for _, part := range clipped {
		if len(part) > 0 {
			return true
		}
	}
	return false
}

// polygonTouches is the negation of "disjoint": a shared area or any
// boundary contact counts.
func polygonTouches(p, window geom.Polygon) bool {
	if isect, ok := p.Intersection(window).(geom.Polygon); ok && len(isect) > 0 {
		return true
	}
	for _, ring := range window {
		for _, pt := range ring {
			if pt.Within(p) != geom.Outside {
				return true
			}
		}
	}
	for _, ring := range p {
		for _, pt := range ring {
			if pt.Within(window) != geom.Outside {
				return true
			}
		}
	}
	return false
}
