// Package grid overlays a lettered or numbered reference grid on a map
// page and converts geographic positions into grid references.
//
// # Policies
//
// [NewProportional] picks a "nice" cell size in meters (1, 2, 2.5 or 5
// times a power of ten) so cells print at roughly 40 mm, and labels columns
// A, B, ... Z, AA and rows 1, 2, 3. It is used for single-page maps.
//
// [NewFixed] splits a page into a fixed number of rows and columns and
// numbers cells left to right, top to bottom. An offset carries the
// numbering from one atlas page to the next so every reference is unique
// in the whole atlas.
//
// Both policies return a [*Grid], which implements [Locator].
package grid
