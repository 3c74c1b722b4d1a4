// Package render groups the outputs drawn from a computed plan.
//
// The cartographic rendering of map tiles happens outside this module: a
// plan carries the bounding boxes, scales and grid shapefiles a map
// renderer needs. The [proof] subpackage draws a plan as a lightweight PDF
// with page frames, grids and index columns, for checking a layout before
// the expensive render.
package render
