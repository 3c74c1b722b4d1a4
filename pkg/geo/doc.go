// Package geo provides the geometric primitives the planner works with.
//
// Everything here is a value: bounding boxes are immutable once built, and
// projections and filters hold no state beyond their construction inputs.
//
// # Coordinates
//
// Geographic coordinates are WGS84 degrees. Geometries from
// [github.com/ctessum/geom] carry longitude in X and latitude in Y. Planar
// computations run in Web Mercator meters through [Projection].
//
// # Visibility
//
// A [Filter] answers "does this page show anything relevant?": when GPS
// tracks are supplied a page is relevant if any track crosses it, otherwise
// if it touches the area-of-interest polygon.
package geo
