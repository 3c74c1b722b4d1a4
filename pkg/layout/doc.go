// Package layout places an index into columns on paper.
//
// Two placements are provided:
//
//   - [Fit] sizes an index to sit beside or below a single-page map. It
//     tries each [Style] from largest to smallest and keeps the first one
//     whose columns fit the zone, leaving one dimension free to shrink.
//   - [Flow] pours an index into as many pages of columns as needed, at a
//     single style, for multi-page maps and atlases.
//
// Text is measured through a [Measurer]; [FaceMeasurer] uses the embedded
// Go fonts. All distances are in points with the origin at the top-left
// of the page.
package layout
