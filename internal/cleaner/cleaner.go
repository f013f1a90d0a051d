// Package cleaner turns raw forest cover rows into a validated,
// deduplicated, canonically ordered table and accounts for every row
// it modified or excluded along the way.
package cleaner

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"forestcli/internal/dataset"
	"forestcli/internal/errors"
)

// Cleaner validates and normalizes raw observation rows.
type Cleaner struct {
	logger      *slog.Logger
	startYear   int
	endYear     int
	fillMissing bool
}

// Options holds configuration for the Cleaner.
type Options struct {
	StartYear   int  // inclusive lower bound of the study period
	EndYear     int  // inclusive upper bound of the study period
	FillMissing bool // impute missing areas with the region median
}

// New creates a cleaner with the given options.
func New(logger *slog.Logger, opts Options) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Cleaner{
		logger:      logger,
		startYear:   opts.StartYear,
		endYear:     opts.EndYear,
		fillMissing: opts.FillMissing,
	}
}

// candidate is a row that passed region and year validation. Rows with
// an empty area cell stay pending until median fill resolves them.
type candidate struct {
	record  dataset.Record
	line    int
	missing bool
}

// Clean validates every raw row, removes duplicate (region, year) keys
// keeping the first occurrence, imputes or drops rows with missing
// areas, and returns the table sorted by region then year.
//
// Cleaning is idempotent: running Clean on its own output keeps every
// row and modifies nothing.
func (c *Cleaner) Clean(ctx context.Context, rows []dataset.RawRow) ([]dataset.Record, *Summary, error) {
	c.logger.InfoContext(ctx, "cleaning raw rows",
		slog.Int("rows_read", len(rows)),
		slog.Int("start_year", c.startYear),
		slog.Int("end_year", c.endYear))

	summary := &Summary{RowsRead: len(rows)}

	if len(rows) == 0 {
		return nil, summary, errors.NewEmptyInputError("no data rows to clean")
	}

	candidates := c.validateRows(ctx, rows, summary)
	candidates = c.dropDuplicates(ctx, candidates, summary)
	records := c.resolveMissing(ctx, candidates, summary)

	if len(records) == 0 {
		return nil, summary, errors.NewEmptyInputError("no rows survived cleaning").
			WithContext("rows_read", summary.RowsRead).
			WithContext("excluded", summary.TotalExcluded())
	}

	dataset.SortRecords(records)

	summary.RowsKept = len(records)
	summary.Regions = len(dataset.Regions(records))
	summary.FirstYear, summary.LastYear, _ = dataset.YearRange(records)

	c.logger.InfoContext(ctx, "cleaning completed",
		slog.Int("rows_kept", summary.RowsKept),
		slog.Int("duplicates_removed", summary.DuplicatesRemoved),
		slog.Int("missing_filled", summary.MissingFilled),
		slog.Int("excluded", summary.TotalExcluded()),
		slog.Int("regions", summary.Regions))

	return records, summary, nil
}

// validateRows applies the row-level validation rules. Rows that fail
// are counted and logged, never fatal.
func (c *Cleaner) validateRows(ctx context.Context, rows []dataset.RawRow, summary *Summary) []candidate {
	candidates := make([]candidate, 0, len(rows))

	for _, row := range rows {
		cand, err := c.validateRow(row, summary)
		if err != nil {
			c.logger.WarnContext(ctx, "excluding row",
				slog.Int("line", row.Line),
				slog.String("reason", err.Message))
			continue
		}
		candidates = append(candidates, cand)
	}

	return candidates
}

// validateRow checks region and year, and classifies the area cell as
// a value, a validation failure, or missing. The summary counter of
// the violated rule is incremented here.
func (c *Cleaner) validateRow(row dataset.RawRow, summary *Summary) (candidate, *errors.PipelineError) {
	if row.Region == "" {
		summary.Excluded.RegionEmpty++
		return candidate{}, errors.NewRowValidationError(row.Line, "region is empty")
	}

	year, err := strconv.Atoi(row.Year)
	if err != nil {
		summary.Excluded.YearInvalid++
		return candidate{}, errors.NewRowValidationError(row.Line,
			fmt.Sprintf("year %q is missing or not an integer", row.Year))
	}

	if year < c.startYear || year > c.endYear {
		summary.Excluded.YearOutOfRange++
		return candidate{}, errors.NewRowValidationError(row.Line,
			fmt.Sprintf("year %d outside study period %d-%d", year, c.startYear, c.endYear))
	}

	if row.Area == "" {
		// Missing, not malformed. Resolved later by median fill.
		return candidate{
			record:  dataset.Record{Region: row.Region, Year: year},
			line:    row.Line,
			missing: true,
		}, nil
	}

	area, err := strconv.ParseFloat(row.Area, 64)
	if err != nil || math.IsNaN(area) || math.IsInf(area, 0) {
		summary.Excluded.AreaInvalid++
		return candidate{}, errors.NewRowValidationError(row.Line,
			fmt.Sprintf("area %q is not a valid number", row.Area))
	}

	if area < 0 {
		summary.Excluded.AreaNegative++
		return candidate{}, errors.NewRowValidationError(row.Line,
			fmt.Sprintf("area %v is negative", area))
	}

	return candidate{
		record: dataset.Record{Region: row.Region, Year: year, AreaHectares: area},
		line:   row.Line,
	}, nil
}

// dropDuplicates removes candidates whose (region, year) key was seen
// before, keeping the first occurrence in input order.
func (c *Cleaner) dropDuplicates(ctx context.Context, candidates []candidate, summary *Summary) []candidate {
	seen := make(map[dataset.Key]int, len(candidates))
	unique := make([]candidate, 0, len(candidates))

	for _, cand := range candidates {
		key := cand.record.Key()
		if firstLine, dup := seen[key]; dup {
			summary.DuplicatesRemoved++
			c.logger.WarnContext(ctx, "dropping duplicate row",
				slog.String("region", key.Region),
				slog.Int("year", key.Year),
				slog.Int("line", cand.line),
				slog.Int("kept_line", firstLine))
			continue
		}
		seen[key] = cand.line
		unique = append(unique, cand)
	}

	return unique
}

// resolveMissing imputes pending rows with the median area of their
// region, computed over the region's valid observations. Rows that
// cannot be filled are excluded and counted.
func (c *Cleaner) resolveMissing(ctx context.Context, candidates []candidate, summary *Summary) []dataset.Record {
	medians := c.regionMedians(candidates)

	records := make([]dataset.Record, 0, len(candidates))
	for _, cand := range candidates {
		if !cand.missing {
			records = append(records, cand.record)
			continue
		}

		median, ok := medians[cand.record.Region]
		if !c.fillMissing || !ok {
			summary.Excluded.AreaUnfilled++
			c.logger.WarnContext(ctx, "excluding row with missing area",
				slog.String("region", cand.record.Region),
				slog.Int("year", cand.record.Year),
				slog.Int("line", cand.line))
			continue
		}

		cand.record.AreaHectares = median
		summary.MissingFilled++
		c.logger.DebugContext(ctx, "filled missing area with region median",
			slog.String("region", cand.record.Region),
			slog.Int("year", cand.record.Year),
			slog.Float64("median", median))
		records = append(records, cand.record)
	}

	return records
}

// regionMedians computes the median valid area per region.
func (c *Cleaner) regionMedians(candidates []candidate) map[string]float64 {
	areas := make(map[string][]float64)
	for _, cand := range candidates {
		if !cand.missing {
			areas[cand.record.Region] = append(areas[cand.record.Region], cand.record.AreaHectares)
		}
	}

	medians := make(map[string]float64, len(areas))
	for region, values := range areas {
		if m, ok := median(values); ok {
			medians[region] = m
		}
	}
	return medians
}

// median returns the median of values, interpolating between the two
// middle elements for even counts.
func median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return sorted[mid], true
}
