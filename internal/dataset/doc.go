// Package dataset provides the forest cover table model and its file I/O.
//
// This package contains three main components:
//
// Record: One (region, year, forest_area_hectares) observation, plus
// helpers for sorting, grouping and inspecting slices of records.
//
// Readers: ReadRaw loads untyped rows from CSV or Excel input with
// flexible header mapping; LoadRecords loads an already-cleaned table
// into typed records, skipping malformed rows with a warning.
//
// Writers: WriteRecords streams a cleaned table to CSV with the
// canonical header and UTF-8 BOM for Excel compatibility; WriteCSV is
// the general-purpose writer other packages build their outputs on.
//
// Example usage:
//
//	raw, err := dataset.ReadRaw("data/global_forest_cover.csv")
//
//	records, err := dataset.LoadRecords("data/global_forest_cover_clean.csv")
//	groups := dataset.GroupByRegion(records)
//
//	err = dataset.WriteRecords("out/clean.csv", records, 2)
package dataset
