// Package trend computes forest-cover trend statistics over a cleaned table.
//
// The package fits, for every region, an ordinary least squares line of
// forest area over year and derives the change between the first and last
// observed year. It also aggregates the global (all-region) area per year
// with year-over-year percent changes.
//
// # Core Components
//
//   - types.go: RegionTrend and GlobalPoint result structures
//   - analyzer.go: Analyzer orchestrating the per-region fits
//   - persist.go: Results CSV, text summary report and stdout table
//
// # Usage Example
//
//	records, err := dataset.LoadRecords("cleaned.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	analyzer := trend.NewAnalyzer(slog.Default())
//	trends, err := analyzer.Analyze(ctx, records)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = trend.SaveResultsCSV(trends, "out/trend_results.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Mathematical Foundation
//
// The per-region slope is the least squares estimator
//
//	slope = Σ((year - year̄) × (area - areā)) / Σ((year - year̄)²)
//
// with the intercept chosen so the line passes through the mean point, and
// R² = 1 - SSres/SStot as the goodness of fit.
//
// # Edge Cases
//
// A region observed in fewer than two distinct years has no defined trend;
// it is reported with StatusInsufficientData rather than skipped or zeroed.
// A region whose first observed area is zero has no defined percent change;
// it is reported with StatusUndefinedBase while slope and absolute change
// remain available.
package trend
