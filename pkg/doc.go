// Package pkg holds the libraries behind ocitysmap.
//
// # Overview
//
// ocitysmap plans printed city maps. The pkg directory is organized into
// three areas:
//
//  1. Geometry: [geo] (bounding boxes, WKT, Mercator, shapefiles), [grid]
//     (reference grids) and [paging] (papers, scale selection and page
//     grids).
//  2. Index: [gazetteer] (feature sources and indexers), [index]
//     (categories, merging, collation, CSV) and [layout] (index columns).
//  3. Orchestration: [pipeline] (plan jobs), [render/proof] (layout proof
//     PDF) and the shared [cache], [config], [errors], [fonts],
//     [observability] and [buildinfo] packages.
//
// # Architecture
//
// The data flow of a job:
//
//	Area of interest + paper
//	         ↓
//	    [paging] package (scale, page windows, disposition)
//	         ↓
//	    [grid] package (one reference grid per page)
//	         ↓
//	    [gazetteer] + [index] packages (per-page index, merged)
//	         ↓
//	    [layout] package (index columns and pages)
//	         ↓
//	    Plan JSON + shapefiles for the map renderer
package pkg
