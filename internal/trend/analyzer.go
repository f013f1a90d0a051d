package trend

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"forestcli/internal/dataset"
	"forestcli/internal/errors"
)

// Analyzer computes per-region and global forest-cover trends.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer reporting progress to the given logger.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// Analyze fits a linear trend for every region in the cleaned table.
//
// The result is sorted by region name and contains one entry per region,
// including regions whose trend is undefined (StatusInsufficientData).
// The input slice is never mutated.
func (a *Analyzer) Analyze(ctx context.Context, records []dataset.Record) ([]RegionTrend, error) {
	start := time.Now()

	a.logger.InfoContext(ctx, "starting trend analysis",
		"records", len(records),
	)

	if len(records) == 0 {
		return nil, errors.NewEmptyInputError("no records to analyze")
	}

	grouped := dataset.GroupByRegion(records)
	regions := make([]string, 0, len(grouped))
	for region := range grouped {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	trends := make([]RegionTrend, 0, len(regions))
	insufficient := 0
	for _, region := range regions {
		trend := a.analyzeRegion(ctx, region, grouped[region])
		if trend.Status == StatusInsufficientData {
			insufficient++
		}
		trends = append(trends, trend)
	}

	a.logger.InfoContext(ctx, "trend analysis completed",
		"regions", len(trends),
		"insufficient_data", insufficient,
		"duration", time.Since(start).String(),
	)

	return trends, nil
}

// analyzeRegion fits one region's observations, sorted by year.
func (a *Analyzer) analyzeRegion(ctx context.Context, region string, records []dataset.Record) RegionTrend {
	sorted := make([]dataset.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Year < sorted[j].Year
	})

	first := sorted[0]
	last := sorted[len(sorted)-1]

	result := RegionTrend{
		Region:       region,
		Observations: len(sorted),
		FirstYear:    first.Year,
		LastYear:     last.Year,
		FirstArea:    first.AreaHectares,
		LastArea:     last.AreaHectares,
		Status:       StatusOK,
	}

	slope, intercept, r2, ok := fitLine(sorted)
	if !ok {
		result.Status = StatusInsufficientData
		a.logger.WarnContext(ctx, "insufficient data for trend fit",
			"region", region,
			"observations", len(sorted),
		)
		return result
	}

	result.Slope = slope
	result.Intercept = intercept
	result.RSquared = r2
	result.AbsoluteChange = last.AreaHectares - first.AreaHectares

	if first.AreaHectares == 0 {
		result.Status = StatusUndefinedBase
		a.logger.WarnContext(ctx, "percent change undefined for zero base area",
			"region", region,
			"first_year", first.Year,
		)
		return result
	}

	result.PercentChange = result.AbsoluteChange / first.AreaHectares * 100
	return result
}

// GlobalTrend sums the area of all regions per year and derives the
// year-over-year percent change of the totals. The first year's change is
// zero by convention, as is any change following a zero total.
func (a *Analyzer) GlobalTrend(ctx context.Context, records []dataset.Record) ([]GlobalPoint, error) {
	if len(records) == 0 {
		return nil, errors.NewEmptyInputError("no records to analyze")
	}

	totals := make(map[int]float64)
	for _, r := range records {
		totals[r.Year] += r.AreaHectares
	}

	years := make([]int, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	sort.Ints(years)

	points := make([]GlobalPoint, 0, len(years))
	for i, year := range years {
		point := GlobalPoint{Year: year, TotalArea: totals[year]}
		if i > 0 {
			prev := points[i-1].TotalArea
			if prev != 0 {
				point.YoYChangePct = (point.TotalArea - prev) / prev * 100
			}
		}
		points = append(points, point)
	}

	a.logger.InfoContext(ctx, "computed global trend",
		"years", len(points),
	)

	return points, nil
}

// fitLine computes the ordinary least squares fit of area over year.
// ok is false when the points span fewer than two distinct years; the
// cleaned table guarantees distinct years per region, so after cleaning
// this only triggers for single-observation regions.
func fitLine(records []dataset.Record) (slope, intercept, r2 float64, ok bool) {
	if len(records) < 2 {
		return 0, 0, 0, false
	}

	n := float64(len(records))
	var sumX, sumY float64
	for _, r := range records {
		sumX += float64(r.Year)
		sumY += r.AreaHectares
	}
	meanX := sumX / n
	meanY := sumY / n

	var sumXX, sumXY float64
	for _, r := range records {
		dx := float64(r.Year) - meanX
		sumXX += dx * dx
		sumXY += dx * (r.AreaHectares - meanY)
	}
	if sumXX == 0 {
		return 0, 0, 0, false
	}

	slope = sumXY / sumXX
	intercept = meanY - slope*meanX

	var ssRes, ssTot float64
	for _, r := range records {
		residual := r.AreaHectares - (intercept + slope*float64(r.Year))
		ssRes += residual * residual
		dy := r.AreaHectares - meanY
		ssTot += dy * dy
	}
	if ssTot == 0 {
		// Constant areas: the flat fit is exact.
		return slope, intercept, 1, true
	}

	return slope, intercept, 1 - ssRes/ssTot, true
}
