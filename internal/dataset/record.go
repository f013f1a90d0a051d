package dataset

import "sort"

// Canonical column names of a cleaned forest cover table. Readers accept
// looser spellings on input; writers always emit these.
const (
	ColumnRegion = "region"
	ColumnYear   = "year"
	ColumnArea   = "forest_area_hectares"
)

// Record is one observation: the forest area of a region in a year.
type Record struct {
	Region       string
	Year         int
	AreaHectares float64
}

// Key identifies a record within a table. A cleaned table contains at
// most one record per key.
type Key struct {
	Region string
	Year   int
}

// Key returns the identity of the record.
func (r Record) Key() Key {
	return Key{Region: r.Region, Year: r.Year}
}

// SortRecords orders records by region, then year ascending. This is
// the canonical order of a cleaned table.
func SortRecords(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Region != records[j].Region {
			return records[i].Region < records[j].Region
		}
		return records[i].Year < records[j].Year
	})
}

// GroupByRegion groups records by region. Order within each group
// follows the input order.
func GroupByRegion(records []Record) map[string][]Record {
	groups := make(map[string][]Record)
	for _, r := range records {
		groups[r.Region] = append(groups[r.Region], r)
	}
	return groups
}

// Regions returns the distinct region names in sorted order.
func Regions(records []Record) []string {
	seen := make(map[string]bool)
	var regions []string
	for _, r := range records {
		if !seen[r.Region] {
			seen[r.Region] = true
			regions = append(regions, r.Region)
		}
	}
	sort.Strings(regions)
	return regions
}

// YearRange returns the minimum and maximum year present. The ok result
// is false for an empty slice.
func YearRange(records []Record) (minYear, maxYear int, ok bool) {
	if len(records) == 0 {
		return 0, 0, false
	}
	minYear, maxYear = records[0].Year, records[0].Year
	for _, r := range records[1:] {
		if r.Year < minYear {
			minYear = r.Year
		}
		if r.Year > maxYear {
			maxYear = r.Year
		}
	}
	return minYear, maxYear, true
}
