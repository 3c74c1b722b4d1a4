package geo

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"

	"github.com/pi-bie/ocitysmap/pkg/errors"
)

// EarthRadius is the mean earth radius used for spherical sizes, in meters.
const EarthRadius = 6370986.0

// Point is a WGS84 position in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// String formats the point as "lat,lon".
func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}

// XY returns the point as a ctessum geometry (X = lon, Y = lat).
func (p Point) XY() geom.Point {
	return geom.Point{X: p.Lon, Y: p.Lat}
}

// BoundingBox is a lat/lon rectangle. Top is always the northern edge and
// Left the western edge.
type BoundingBox struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
}

// NewBoundingBox builds a bounding box from any two opposite corners.
func NewBoundingBox(lat1, lon1, lat2, lon2 float64) BoundingBox {
	return BoundingBox{
		Top:    math.Max(lat1, lat2),
		Left:   math.Min(lon1, lon2),
		Bottom: math.Min(lat1, lat2),
		Right:  math.Max(lon1, lon2),
	}
}

// FromBounds converts ctessum bounds (X = lon, Y = lat) to a bounding box.
func FromBounds(b *geom.Bounds) BoundingBox {
	return NewBoundingBox(b.Min.Y, b.Min.X, b.Max.Y, b.Max.X)
}

// Validate rejects boxes outside WGS84 or with a zero extent.
func (b BoundingBox) Validate() error {
	if b.Top > 90 || b.Bottom < -90 || b.Left < -180 || b.Right > 180 {
		return errors.New(errors.ErrCodeInvalidBBox, "bounding box %s is outside WGS84 range", b)
	}
	if b.Top == b.Bottom || b.Left == b.Right {
		return errors.New(errors.ErrCodeInvalidBBox, "bounding box %s has zero width or height", b)
	}
	return nil
}

// TopLeft returns the north-west corner.
func (b BoundingBox) TopLeft() Point { return Point{Lat: b.Top, Lon: b.Left} }

// BottomRight returns the south-east corner.
func (b BoundingBox) BottomRight() Point { return Point{Lat: b.Bottom, Lon: b.Right} }

// Center returns the middle of the box.
func (b BoundingBox) Center() Point {
	return Point{Lat: (b.Top + b.Bottom) / 2, Lon: (b.Left + b.Right) / 2}
}

// LatSpan returns the north-south extent in degrees.
func (b BoundingBox) LatSpan() float64 { return math.Abs(b.Top - b.Bottom) }

// LonSpan returns the east-west extent in degrees.
func (b BoundingBox) LonSpan() float64 { return math.Abs(b.Right - b.Left) }

// SphericSizes returns the height and width of the box in meters, measured
// on a sphere along the top edge.
func (b BoundingBox) SphericSizes() (heightM, widthM float64) {
	heightM = EarthRadius * radians(b.Top-b.Bottom)
	widthM = EarthRadius * math.Cos(radians(b.Top)) * radians(b.Right-b.Left)
	return math.Abs(heightM), math.Abs(widthM)
}

// Expanded grows the box by dLat degrees north and south and dLon degrees
// east and west.
func (b BoundingBox) Expanded(dLat, dLon float64) BoundingBox {
	return BoundingBox{
		Top:    math.Min(b.Top+dLat, 90),
		Left:   math.Max(b.Left-dLon, -180),
		Bottom: math.Max(b.Bottom-dLat, -90),
		Right:  math.Min(b.Right+dLon, 180),
	}
}

// EnsureExtent widens a degenerate box by one arc second per collapsed axis.
func (b BoundingBox) EnsureExtent() BoundingBox {
	const arcSecond = 1.0 / 3600
	if b.Left == b.Right {
		b = b.Expanded(0, arcSecond)
	}
	if b.Top == b.Bottom {
		b = b.Expanded(arcSecond, 0)
	}
	return b
}

// FitRatio grows the box around its center so that its metric
// width/height ratio equals ratio. The box never shrinks.
func (b BoundingBox) FitRatio(ratio float64) BoundingBox {
	if ratio <= 0 {
		return b
	}
	h, w := b.SphericSizes()
	if h == 0 || w == 0 {
		return b
	}
	switch current := w / h; {
	case current < ratio:
		dLon := b.LonSpan() * (ratio/current - 1) / 2
		return b.Expanded(0, dLon)
	case current > ratio:
		dLat := b.LatSpan() * (current/ratio - 1) / 2
		return b.Expanded(dLat, 0)
	}
	return b
}

// Contains reports whether p lies inside the box, edges included.
func (b BoundingBox) Contains(p Point) bool {
	return p.Lat <= b.Top && p.Lat >= b.Bottom && p.Lon >= b.Left && p.Lon <= b.Right
}

// Bounds returns the box as ctessum bounds (X = lon, Y = lat).
func (b BoundingBox) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: b.Left, Y: b.Bottom},
		Max: geom.Point{X: b.Right, Y: b.Top},
	}
}

// Polygon returns the box outline as a counter-clockwise ring.
func (b BoundingBox) Polygon() geom.Polygon {
	return geom.Polygon{b.ring()}
}

func (b BoundingBox) ring() []geom.Point {
	return []geom.Point{
		{X: b.Left, Y: b.Bottom},
		{X: b.Right, Y: b.Bottom},
		{X: b.Right, Y: b.Top},
		{X: b.Left, Y: b.Top},
		{X: b.Left, Y: b.Bottom},
	}
}

// String formats the box as "(top,left)-(bottom,right)".
func (b BoundingBox) String() string {
	return fmt.Sprintf("(%.6f,%.6f)-(%.6f,%.6f)", b.Top, b.Left, b.Bottom, b.Right)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
