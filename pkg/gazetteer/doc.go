// Package gazetteer turns named map features into index categories.
//
// Features come from a [Source]: an in-memory set loaded from a JSON
// feature file ([LoadJSON]) or a read-only SQLite database
// ([OpenSQLite]). An [Indexer] classifies the features of one
// [index.Kind] into categories, following the conventions of printed
// city maps: streets by initial, amenities by purpose, villages,
// healthcare facilities, trees by genus, towns, administrative areas and
// map notes. Point-of-interest indexes are read from a categorized POI
// file instead ([LoadPOI]).
//
// # Feature file
//
//	{"features": [
//	  {"id": 1, "name": "Rue de Rivoli",
//	   "tags": {"highway": "primary"},
//	   "wkt": "LINESTRING(2.33 48.86, 2.36 48.855)"}
//	]}
//
// Coordinates are WGS84, longitude first.
package gazetteer
