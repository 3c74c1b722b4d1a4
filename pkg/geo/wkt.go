package geo

import (
	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"

	"github.com/pi-bie/ocitysmap/pkg/errors"
)

// WKT returns the box as a closed WKT polygon (lon lat order).
func (b BoundingBox) WKT() string {
	return wkt.MarshalString(orb.Bound{
		Min: orb.Point{b.Left, b.Bottom},
		Max: orb.Point{b.Right, b.Top},
	})
}

// ParseBoundingBox parses a WKT geometry and returns its bounding box.
func ParseBoundingBox(s string) (BoundingBox, error) {
	g, err := ParseWKT(s)
	if err != nil {
		return BoundingBox{}, err
	}
	return FromBounds(g.Bounds()), nil
}

// ParseArea parses a POLYGON or MULTIPOLYGON into an area of interest.
func ParseArea(s string) (geom.MultiPolygon, error) {
	g, err := ParseWKT(s)
	if err != nil {
		return nil, err
	}
	switch v := g.(type) {
	case geom.Polygon:
		return geom.MultiPolygon{v}, nil
	case geom.MultiPolygon:
		return v, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidWKT, "area must be a polygon, got %T", g)
}

// ParseWKT parses the WKT subset used for areas, tracks and gazetteer
// features: POINT, POLYGON, MULTIPOLYGON, LINESTRING and MULTILINESTRING.
// Empty geometries are rejected.
func ParseWKT(s string) (geom.Geom, error) {
	g, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidWKT, err, "cannot parse %q", truncate(s))
	}

	switch v := g.(type) {
	case orb.Point:
		return geom.Point{X: v[0], Y: v[1]}, nil
	case orb.LineString:
		if len(v) == 0 {
			return nil, emptyWKT(s)
		}
		return lineString(v), nil
	case orb.MultiLineString:
		if len(v) == 0 {
			return nil, emptyWKT(s)
		}
		ml := make(geom.MultiLineString, len(v))
		for i, l := range v {
			ml[i] = lineString(l)
		}
		return ml, nil
	case orb.Polygon:
		if len(v) == 0 {
			return nil, emptyWKT(s)
		}
		return polygon(v)
	case orb.MultiPolygon:
		if len(v) == 0 {
			return nil, emptyWKT(s)
		}
		mp := make(geom.MultiPolygon, len(v))
		for i, p := range v {
			if mp[i], err = polygon(p); err != nil {
				return nil, err
			}
		}
		return mp, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidWKT, "unsupported geometry type %s", g.GeoJSONType())
}

// Lines flattens a parsed track geometry into line strings.
func Lines(g geom.Geom) []geom.LineString {
	switch v := g.(type) {
	case geom.LineString:
		return []geom.LineString{v}
	case geom.MultiLineString:
		return []geom.LineString(v)
	}
	return nil
}

func lineString(l orb.LineString) geom.LineString {
	out := make(geom.LineString, len(l))
	for i, p := range l {
		out[i] = geom.Point{X: p[0], Y: p[1]}
	}
	return out
}

func polygon(p orb.Polygon) (geom.Polygon, error) {
	out := make(geom.Polygon, len(p))
	for i, r := range p {
		if len(r) < 4 {
			return nil, errors.New(errors.ErrCodeInvalidWKT, "polygon ring needs at least 4 points, got %d", len(r))
		}
		out[i] = geom.Path(lineString(orb.LineString(r)))
	}
	return out, nil
}

func emptyWKT(s string) error {
	return errors.New(errors.ErrCodeInvalidWKT, "empty geometry %q", truncate(s))
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}
