package geo

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

// Spatial reference definitions.
const (
	// WGS84Proj is the geographic reference of all input coordinates.
	WGS84Proj = "+proj=longlat +datum=WGS84 +no_defs"

	// MercatorProj is the spherical Web Mercator reference the page grid
	// is computed in.
	MercatorProj = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs"
)

// Projection converts between WGS84 degrees and Web Mercator meters.
type Projection struct {
	forward proj.Transformer
	inverse proj.Transformer
}

// NewMercator builds the WGS84 ↔ Web Mercator projection.
func NewMercator() (*Projection, error) {
	wgs84, err := proj.Parse(WGS84Proj)
	if err != nil {
		return nil, fmt.Errorf("geo: parse WGS84 reference: %w", err)
	}
	merc, err := proj.Parse(MercatorProj)
	if err != nil {
		return nil, fmt.Errorf("geo: parse mercator reference: %w", err)
	}
	forward, err := wgs84.NewTransform(merc)
	if err != nil {
		return nil, fmt.Errorf("geo: build forward transform: %w", err)
	}
	inverse, err := merc.NewTransform(wgs84)
	if err != nil {
		return nil, fmt.Errorf("geo: build inverse transform: %w", err)
	}
	return &Projection{forward: forward, inverse: inverse}, nil
}

// Forward projects a point to Mercator meters.
func (p *Projection) Forward(pt Point) (geom.Point, error) {
	x, y, err := p.forward(pt.Lon, pt.Lat)
	if err != nil {
		return geom.Point{}, fmt.Errorf("geo: project %s: %w", pt, err)
	}
	return geom.Point{X: x, Y: y}, nil
}

// Inverse converts Mercator meters back to a WGS84 point.
func (p *Projection) Inverse(m geom.Point) (Point, error) {
	lon, lat, err := p.inverse(m.X, m.Y)
	if err != nil {
		return Point{}, fmt.Errorf("geo: unproject (%f, %f): %w", m.X, m.Y, err)
	}
	return Point{Lat: lat, Lon: lon}, nil
}

// Envelope projects a bounding box to a Mercator envelope.
func (p *Projection) Envelope(b BoundingBox) (Envelope, error) {
	min, err := p.Forward(Point{Lat: b.Bottom, Lon: b.Left})
	if err != nil {
		return Envelope{}, err
	}
	max, err := p.Forward(Point{Lat: b.Top, Lon: b.Right})
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Min: min, Max: max}, nil
}

// BoundingBox converts a Mercator envelope back to a bounding box.
func (p *Projection) BoundingBox(e Envelope) (BoundingBox, error) {
	min, err := p.Inverse(e.Min)
	if err != nil {
		return BoundingBox{}, err
	}
	max, err := p.Inverse(e.Max)
	if err != nil {
		return BoundingBox{}, err
	}
	return NewBoundingBox(min.Lat, min.Lon, max.Lat, max.Lon), nil
}

// Envelope is an axis-aligned rectangle in Mercator meters.
type Envelope struct {
	Min geom.Point `json:"min"`
	Max geom.Point `json:"max"`
}

// NewEnvelope builds an envelope from its minimum corner and size.
func NewEnvelope(x, y, w, h float64) Envelope {
	return Envelope{Min: geom.Point{X: x, Y: y}, Max: geom.Point{X: x + w, Y: y + h}}
}

// Width returns the east-west extent in meters.
func (e Envelope) Width() float64 { return e.Max.X - e.Min.X }

// Height returns the north-south extent in meters.
func (e Envelope) Height() float64 { return e.Max.Y - e.Min.Y }

// Area returns the envelope surface in square meters.
func (e Envelope) Area() float64 { return e.Width() * e.Height() }

// Overlap returns the width and height of the intersection of e and o,
// zero when they are disjoint.
func (e Envelope) Overlap(o Envelope) (dx, dy float64) {
	dx = min(e.Max.X, o.Max.X) - max(e.Min.X, o.Min.X)
	dy = min(e.Max.Y, o.Max.Y) - max(e.Min.Y, o.Min.Y)
	return max(dx, 0), max(dy, 0)
}
