// Package paging splits a map area into overlapping printed pages.
//
// The work happens in three steps:
//
//  1. [SelectScale] coarsens the scale until the page count fits a budget.
//  2. [Build] expands the area to fill the paper exactly, lays out one
//     window per page, derives its drawable inner rectangle and culls
//     pages showing nothing of interest.
//  3. The resulting [Grid] numbers visible pages in reading order and
//     records every slot in a [DispositionTable] for neighbor lookups.
//
// # Variants
//
// Two presets are provided. [Atlas] pairs pages as facing spreads: pages
// inside a spread abut, spreads overlap by a margin, and the gray margin
// is only drawn where no neighbor continues the map. [MultiPage] uses a
// uniform overlap on every side.
//
// All planar computations happen in Web Mercator meters; page windows are
// converted back to WGS84 for visibility tests and output.
package paging
