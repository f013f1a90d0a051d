package trend

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"forestcli/internal/dataset"
	"forestcli/internal/errors"
)

// resultsHeader is the column order of the results CSV.
var resultsHeader = []string{
	"region",
	"observations",
	"first_year",
	"last_year",
	"first_area_hectares",
	"last_area_hectares",
	"slope_hectares_per_year",
	"absolute_change_hectares",
	"percent_change",
	"r_squared",
	"status",
}

// SaveResultsCSV writes the per-region results table. Cells whose value is
// undefined for the region's status are left empty rather than zeroed.
func SaveResultsCSV(trends []RegionTrend, outputPath string) error {
	if len(trends) == 0 {
		return errors.NewEmptyInputError("no trends to save")
	}

	records := make([][]string, 0, len(trends))
	for _, t := range trends {
		records = append(records, resultRecord(t))
	}

	return dataset.WriteCSV(outputPath, dataset.WriteOptions{
		Headers:   resultsHeader,
		Records:   records,
		BOMPrefix: true,
	})
}

// resultRecord converts one RegionTrend to a CSV row.
func resultRecord(t RegionTrend) []string {
	var slope, change, percent, r2 string
	if t.HasFit() {
		slope = formatFloat(t.Slope, 4)
		change = formatFloat(t.AbsoluteChange, 2)
		r2 = formatFloat(t.RSquared, 4)
	}
	if t.HasPercentChange() {
		percent = formatFloat(t.PercentChange, 2)
	}

	return []string{
		t.Region,
		strconv.Itoa(t.Observations),
		strconv.Itoa(t.FirstYear),
		strconv.Itoa(t.LastYear),
		formatFloat(t.FirstArea, 2),
		formatFloat(t.LastArea, 2),
		slope,
		change,
		percent,
		r2,
		t.Status,
	}
}

// formatFloat formats a float64 value for output with fixed precision.
func formatFloat(value float64, precision int) string {
	return strconv.FormatFloat(value, 'f', precision, 64)
}

// percentLabel renders the percent change of a trend, or "n/a" when the
// percent change is undefined for its status.
func percentLabel(t RegionTrend) string {
	if !t.HasPercentChange() {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", t.PercentChange)
}

// SaveSummaryReport writes a plain-text summary of the analysis.
func SaveSummaryReport(trends []RegionTrend, global []GlobalPoint, outputPath string) error {
	if len(trends) == 0 {
		return errors.NewEmptyInputError("no trends to save")
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).
			WithContext("dir", filepath.Dir(outputPath))
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return errors.NewStorageError("failed to create summary file", err).
			WithContext("path", outputPath)
	}
	defer file.Close()

	fitted, insufficient := splitByFit(trends)

	fmt.Fprintf(file, "Forest Cover Trend Analysis - Summary Report\n")
	fmt.Fprintf(file, "=============================================\n\n")
	fmt.Fprintf(file, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintf(file, "DATASET OVERVIEW\n")
	fmt.Fprintf(file, "----------------\n")
	fmt.Fprintf(file, "Regions Analyzed: %d\n", len(trends))
	fmt.Fprintf(file, "Regions With Fitted Trend: %d\n", len(fitted))
	fmt.Fprintf(file, "Regions With Insufficient Data: %d\n", len(insufficient))
	if len(global) > 0 {
		first := global[0]
		last := global[len(global)-1]
		fmt.Fprintf(file, "Years Covered: %d to %d\n", first.Year, last.Year)
		fmt.Fprintf(file, "Global Area %d: %s ha\n", first.Year, formatFloat(first.TotalArea, 2))
		fmt.Fprintf(file, "Global Area %d: %s ha\n", last.Year, formatFloat(last.TotalArea, 2))
		fmt.Fprintf(file, "Global Change: %s ha\n", formatFloat(last.TotalArea-first.TotalArea, 2))
	}
	fmt.Fprintf(file, "\n")

	fmt.Fprintf(file, "GLOBAL TREND BY YEAR\n")
	fmt.Fprintf(file, "--------------------\n")
	for _, point := range global {
		fmt.Fprintf(file, "%d: %s ha (%+.2f%%)\n", point.Year, formatFloat(point.TotalArea, 2), point.YoYChangePct)
	}
	fmt.Fprintf(file, "\n")

	losses := rankByChange(fitted, true)
	fmt.Fprintf(file, "TOP %d LARGEST DECLINES (Total Change)\n", len(losses))
	fmt.Fprintf(file, "--------------------------------------\n")
	for i, t := range losses {
		fmt.Fprintf(file, "%2d. %s: %s ha (%s)\n", i+1, t.Region, formatFloat(t.AbsoluteChange, 2), percentLabel(t))
	}
	fmt.Fprintf(file, "\n")

	gains := rankByChange(fitted, false)
	fmt.Fprintf(file, "TOP %d LARGEST GAINS (Total Change)\n", len(gains))
	fmt.Fprintf(file, "-----------------------------------\n")
	for i, t := range gains {
		fmt.Fprintf(file, "%2d. %s: %s ha (%s)\n", i+1, t.Region, formatFloat(t.AbsoluteChange, 2), percentLabel(t))
	}
	fmt.Fprintf(file, "\n")

	fmt.Fprintf(file, "INSUFFICIENT DATA\n")
	fmt.Fprintf(file, "-----------------\n")
	if len(insufficient) == 0 {
		fmt.Fprintf(file, "None\n")
	}
	for _, t := range insufficient {
		fmt.Fprintf(file, "%s: %d observation(s)\n", t.Region, t.Observations)
	}

	return nil
}

// splitByFit separates regions with a fitted trend from those without one.
func splitByFit(trends []RegionTrend) (fitted, insufficient []RegionTrend) {
	for _, t := range trends {
		if t.HasFit() {
			fitted = append(fitted, t)
		} else {
			insufficient = append(insufficient, t)
		}
	}
	return fitted, insufficient
}

// rankByChange returns up to five fitted regions ordered by absolute change,
// most negative first for declines, most positive first for gains.
func rankByChange(fitted []RegionTrend, declines bool) []RegionTrend {
	ranked := make([]RegionTrend, len(fitted))
	copy(ranked, fitted)
	sort.Slice(ranked, func(i, j int) bool {
		if declines {
			return ranked[i].AbsoluteChange < ranked[j].AbsoluteChange
		}
		return ranked[i].AbsoluteChange > ranked[j].AbsoluteChange
	})

	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	return ranked
}

// RenderTable prints the results table, ordered by absolute change with the
// largest declines first, regions without a fit last.
func RenderTable(w io.Writer, trends []RegionTrend) {
	if len(trends) == 0 {
		fmt.Fprintln(w, "(0 regions)")
		return
	}

	ordered := make([]RegionTrend, len(trends))
	copy(ordered, trends)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].HasFit() != ordered[j].HasFit() {
			return ordered[i].HasFit()
		}
		if !ordered[i].HasFit() {
			return ordered[i].Region < ordered[j].Region
		}
		return ordered[i].AbsoluteChange < ordered[j].AbsoluteChange
	})

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Region", "Obs", "Years", "Slope (ha/yr)", "Change (ha)", "Change (%)", "R²", "Status"})

	for _, trend := range ordered {
		years := fmt.Sprintf("%d-%d", trend.FirstYear, trend.LastYear)
		slope, change, r2 := "", "", ""
		if trend.HasFit() {
			slope = formatFloat(trend.Slope, 2)
			change = formatFloat(trend.AbsoluteChange, 2)
			r2 = formatFloat(trend.RSquared, 3)
		}
		t.AppendRow(table.Row{trend.Region, trend.Observations, years, slope, change, percentLabel(trend), r2, trend.Status})
	}

	t.Render()
	fmt.Fprintf(w, "(%d regions)\n", len(ordered))
}
