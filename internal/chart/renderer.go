// Package chart renders the analysis artifacts as PNG files using gonum/plot.
package chart

import (
	"context"
	"image/color"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"forestcli/internal/config"
	"forestcli/internal/dataset"
	"forestcli/internal/errors"
	"forestcli/internal/trend"
)

// Chart file names written under the output directory.
const (
	RegionalTrendsFile = "regional_trends.png"
	ChangeRankedFile   = "change_ranked.png"
	GlobalTrendFile    = "global_trend.png"
	GlobalYoYFile      = "global_yoy.png"
)

// linePalette colors the per-region time series, cycling when regions
// outnumber the palette.
var linePalette = []color.RGBA{
	{R: 0, G: 100, B: 0, A: 255},
	{R: 70, G: 130, B: 180, A: 255},
	{R: 178, G: 34, B: 34, A: 255},
	{R: 255, G: 140, B: 0, A: 255},
	{R: 106, G: 90, B: 205, A: 255},
	{R: 184, G: 134, B: 11, A: 255},
	{R: 0, G: 139, B: 139, A: 255},
	{R: 139, G: 0, B: 139, A: 255},
}

var (
	gainColor    = color.RGBA{R: 34, G: 139, B: 34, A: 255}
	declineColor = color.RGBA{R: 178, G: 34, B: 34, A: 255}
)

// Renderer draws the analysis charts.
type Renderer struct {
	logger *slog.Logger
	cfg    config.ChartConfig
}

// NewRenderer creates a chart renderer with the given dimensions and limits.
func NewRenderer(logger *slog.Logger, cfg config.ChartConfig) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger, cfg: cfg}
}

// RenderAll draws every chart into outputDir and returns the written paths.
func (r *Renderer) RenderAll(ctx context.Context, records []dataset.Record, trends []trend.RegionTrend, global []trend.GlobalPoint, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.NewStorageError("failed to create chart directory", err).
			WithContext("dir", outputDir)
	}

	charts := []struct {
		name   string
		render func(path string) error
	}{
		{RegionalTrendsFile, func(path string) error { return r.RegionalTrends(records, trends, path) }},
		{ChangeRankedFile, func(path string) error { return r.ChangeRanked(trends, path) }},
		{GlobalTrendFile, func(path string) error { return r.GlobalTrendLine(global, path) }},
		{GlobalYoYFile, func(path string) error { return r.GlobalYoY(global, path) }},
	}

	paths := make([]string, 0, len(charts))
	for _, c := range charts {
		path := filepath.Join(outputDir, c.name)
		if err := c.render(path); err != nil {
			return paths, err
		}
		r.logger.InfoContext(ctx, "rendered chart", "path", path)
		paths = append(paths, path)
	}

	return paths, nil
}

// RegionalTrends draws one area-over-year line per region. When the table
// holds more regions than the configured limit, the regions with the largest
// absolute change are drawn.
func (r *Renderer) RegionalTrends(records []dataset.Record, trends []trend.RegionTrend, outputPath string) error {
	if len(records) == 0 {
		return errors.NewEmptyInputError("no records to plot")
	}

	p := plot.New()
	p.Title.Text = "Forest Cover by Region"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Forest Area (ha)"

	grouped := dataset.GroupByRegion(records)
	for i, region := range r.selectRegions(trends) {
		series := grouped[region]
		if len(series) == 0 {
			continue
		}
		sort.Slice(series, func(a, b int) bool { return series[a].Year < series[b].Year })

		points := make(plotter.XYs, len(series))
		for j, rec := range series {
			points[j].X = float64(rec.Year)
			points[j].Y = rec.AreaHectares
		}

		line, err := plotter.NewLine(points)
		if err != nil {
			return errors.NewStorageError("failed to build region line", err).
				WithContext("region", region)
		}
		line.Color = linePalette[i%len(linePalette)]
		line.Width = vg.Points(2)

		p.Add(line)
		p.Legend.Add(region, line)
	}

	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	return r.save(p, outputPath)
}

// selectRegions returns up to cfg.TopRegions region names ordered by the
// magnitude of their change, regions without a fit last.
func (r *Renderer) selectRegions(trends []trend.RegionTrend) []string {
	ranked := make([]trend.RegionTrend, len(trends))
	copy(ranked, trends)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].HasFit() != ranked[j].HasFit() {
			return ranked[i].HasFit()
		}
		return math.Abs(ranked[i].AbsoluteChange) > math.Abs(ranked[j].AbsoluteChange)
	})

	limit := r.cfg.TopRegions
	if limit <= 0 || limit > len(ranked) {
		limit = len(ranked)
	}

	regions := make([]string, 0, limit)
	for _, t := range ranked[:limit] {
		regions = append(regions, t.Region)
	}
	return regions
}

// ChangeRanked draws the total change per region as a bar chart ordered from
// the largest decline to the largest gain. Regions without a fitted trend
// are omitted.
func (r *Renderer) ChangeRanked(trends []trend.RegionTrend, outputPath string) error {
	fitted := make([]trend.RegionTrend, 0, len(trends))
	for _, t := range trends {
		if t.HasFit() {
			fitted = append(fitted, t)
		}
	}
	if len(fitted) == 0 {
		return errors.NewEmptyInputError("no fitted regions to plot")
	}
	sort.Slice(fitted, func(i, j int) bool {
		return fitted[i].AbsoluteChange < fitted[j].AbsoluteChange
	})

	labels := make([]string, len(fitted))
	declines := make(plotter.Values, len(fitted))
	gains := make(plotter.Values, len(fitted))
	for i, t := range fitted {
		labels[i] = shortLabel(t.Region)
		if t.AbsoluteChange < 0 {
			declines[i] = t.AbsoluteChange
		} else {
			gains[i] = t.AbsoluteChange
		}
	}

	p := plot.New()
	p.Title.Text = "Total Change by Region"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Region"
	p.Y.Label.Text = "Change (ha)"

	if err := r.addSignedBars(p, declines, gains); err != nil {
		return err
	}

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XCenter

	return r.save(p, outputPath)
}

// GlobalTrendLine draws the all-region total area over year.
func (r *Renderer) GlobalTrendLine(global []trend.GlobalPoint, outputPath string) error {
	if len(global) == 0 {
		return errors.NewEmptyInputError("no global points to plot")
	}

	points := make(plotter.XYs, len(global))
	for i, g := range global {
		points[i].X = float64(g.Year)
		points[i].Y = g.TotalArea
	}

	p := plot.New()
	p.Title.Text = "Global Forest Cover"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "Total Forest Area (ha)"

	line, err := plotter.NewLine(points)
	if err != nil {
		return errors.NewStorageError("failed to build global line", err)
	}
	line.Color = linePalette[0]
	line.Width = vg.Points(2)

	p.Add(line)
	p.Add(plotter.NewGrid())

	return r.save(p, outputPath)
}

// GlobalYoY draws the year-over-year percent change of the global total,
// declines and gains colored apart.
func (r *Renderer) GlobalYoY(global []trend.GlobalPoint, outputPath string) error {
	if len(global) == 0 {
		return errors.NewEmptyInputError("no global points to plot")
	}

	labels := make([]string, len(global))
	declines := make(plotter.Values, len(global))
	gains := make(plotter.Values, len(global))
	for i, g := range global {
		labels[i] = strconv.Itoa(g.Year)
		if g.YoYChangePct < 0 {
			declines[i] = g.YoYChangePct
		} else {
			gains[i] = g.YoYChangePct
		}
	}

	p := plot.New()
	p.Title.Text = "Global Year-over-Year Change"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Year"
	p.Y.Label.Text = "YoY Change (%)"

	if err := r.addSignedBars(p, declines, gains); err != nil {
		return err
	}

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XCenter

	return r.save(p, outputPath)
}

// addSignedBars overlays two bar sets at the same positions; each index is
// non-zero in at most one of them, so the zero-height twin stays invisible.
func (r *Renderer) addSignedBars(p *plot.Plot, declines, gains plotter.Values) error {
	declineBars, err := plotter.NewBarChart(declines, vg.Points(20))
	if err != nil {
		return errors.NewStorageError("failed to build decline bars", err)
	}
	declineBars.Color = declineColor
	declineBars.LineStyle.Width = vg.Length(0)

	gainBars, err := plotter.NewBarChart(gains, vg.Points(20))
	if err != nil {
		return errors.NewStorageError("failed to build gain bars", err)
	}
	gainBars.Color = gainColor
	gainBars.LineStyle.Width = vg.Length(0)

	p.Add(declineBars, gainBars)
	return nil
}

func (r *Renderer) save(p *plot.Plot, outputPath string) error {
	width := vg.Length(r.cfg.WidthInches) * vg.Inch
	height := vg.Length(r.cfg.HeightInches) * vg.Inch

	if err := p.Save(width, height, outputPath); err != nil {
		return errors.NewStorageError("failed to save chart", err).
			WithContext("path", outputPath)
	}
	return nil
}

// shortLabel trims long region names so rotated axis labels stay readable.
func shortLabel(name string) string {
	if len(name) > 14 {
		return name[:14]
	}
	return name
}
