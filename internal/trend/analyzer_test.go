package trend

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forestcli/internal/dataset"
	"forestcli/internal/errors"
)

func record(region string, year int, area float64) dataset.Record {
	return dataset.Record{Region: region, Year: year, AreaHectares: area}
}

func TestAnalyzer_Analyze_TwoPointRegion(t *testing.T) {
	a := NewAnalyzer(slog.Default())

	trends, err := a.Analyze(context.Background(), []dataset.Record{
		record("RegionA", 1990, 1000),
		record("RegionA", 2020, 800),
	})
	require.NoError(t, err)
	require.Len(t, trends, 1)

	got := trends[0]
	assert.Equal(t, "RegionA", got.Region)
	assert.Equal(t, StatusOK, got.Status)
	assert.Equal(t, 2, got.Observations)
	assert.Equal(t, 1990, got.FirstYear)
	assert.Equal(t, 2020, got.LastYear)
	assert.Equal(t, 1000.0, got.FirstArea)
	assert.Equal(t, 800.0, got.LastArea)
	assert.Equal(t, -200.0, got.AbsoluteChange)
	assert.Equal(t, -20.0, got.PercentChange)
	assert.InDelta(t, -6.667, got.Slope, 0.001, "slope is -200 ha over 30 years")
	assert.InDelta(t, 1.0, got.RSquared, 1e-9, "two points fit exactly")
}

func TestAnalyzer_Analyze_KnownFit(t *testing.T) {
	a := NewAnalyzer(slog.Default())

	// Hand-computed least squares: slope 0.8, R² 0.64.
	trends, err := a.Analyze(context.Background(), []dataset.Record{
		record("Borneo", 2000, 10),
		record("Borneo", 2001, 12),
		record("Borneo", 2002, 11),
		record("Borneo", 2003, 13),
	})
	require.NoError(t, err)
	require.Len(t, trends, 1)

	got := trends[0]
	assert.Equal(t, StatusOK, got.Status)
	assert.InDelta(t, 0.8, got.Slope, 1e-9)
	assert.InDelta(t, 11.5-0.8*2001.5, got.Intercept, 1e-6)
	assert.InDelta(t, 0.64, got.RSquared, 1e-9)
	assert.InDelta(t, 3.0, got.AbsoluteChange, 1e-9)
	assert.InDelta(t, 30.0, got.PercentChange, 1e-9)
}

func TestAnalyzer_Analyze_ConstantArea(t *testing.T) {
	a := NewAnalyzer(slog.Default())

	trends, err := a.Analyze(context.Background(), []dataset.Record{
		record("Congo", 1990, 500),
		record("Congo", 1991, 500),
		record("Congo", 1992, 500),
	})
	require.NoError(t, err)
	require.Len(t, trends, 1)

	got := trends[0]
	assert.Equal(t, StatusOK, got.Status)
	assert.Zero(t, got.Slope)
	assert.Equal(t, 1.0, got.RSquared, "flat data is fitted exactly by the flat line")
	assert.Zero(t, got.AbsoluteChange)
	assert.Zero(t, got.PercentChange)
}

func TestAnalyzer_Analyze_InsufficientData(t *testing.T) {
	tests := []struct {
		name    string
		records []dataset.Record
	}{
		{
			name:    "single observation",
			records: []dataset.Record{record("Siberia", 2001, 4200)},
		},
		{
			name: "single distinct year",
			records: []dataset.Record{
				record("Siberia", 2001, 4200),
				record("Siberia", 2001, 4100),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(slog.Default())

			trends, err := a.Analyze(context.Background(), tt.records)
			require.NoError(t, err)
			require.Len(t, trends, 1, "region must still be reported")

			got := trends[0]
			assert.Equal(t, StatusInsufficientData, got.Status)
			assert.False(t, got.HasFit())
			assert.Equal(t, 2001, got.FirstYear)
			assert.Equal(t, 2001, got.LastYear)
			assert.Zero(t, got.Slope)
			assert.Zero(t, got.AbsoluteChange)
			assert.Zero(t, got.PercentChange)
		})
	}
}

func TestAnalyzer_Analyze_UndefinedBase(t *testing.T) {
	a := NewAnalyzer(slog.Default())

	trends, err := a.Analyze(context.Background(), []dataset.Record{
		record("Sahel", 1990, 0),
		record("Sahel", 2000, 120),
	})
	require.NoError(t, err)
	require.Len(t, trends, 1)

	got := trends[0]
	assert.Equal(t, StatusUndefinedBase, got.Status)
	assert.True(t, got.HasFit(), "slope is still defined")
	assert.False(t, got.HasPercentChange())
	assert.InDelta(t, 12.0, got.Slope, 1e-9)
	assert.Equal(t, 120.0, got.AbsoluteChange)
	assert.Zero(t, got.PercentChange)
}

func TestAnalyzer_Analyze_SortedByRegion(t *testing.T) {
	a := NewAnalyzer(slog.Default())

	trends, err := a.Analyze(context.Background(), []dataset.Record{
		record("Congo", 1990, 300),
		record("Amazonia", 1990, 1000),
		record("Borneo", 1990, 550),
		record("Congo", 1991, 290),
		record("Amazonia", 1991, 990),
		record("Borneo", 1991, 540),
	})
	require.NoError(t, err)
	require.Len(t, trends, 3)

	assert.Equal(t, "Amazonia", trends[0].Region)
	assert.Equal(t, "Borneo", trends[1].Region)
	assert.Equal(t, "Congo", trends[2].Region)
}

func TestAnalyzer_Analyze_EmptyInput(t *testing.T) {
	a := NewAnalyzer(slog.Default())

	_, err := a.Analyze(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeEmptyInput))
	assert.True(t, errors.IsFatal(err))
}

func TestAnalyzer_Analyze_InputNotMutated(t *testing.T) {
	a := NewAnalyzer(slog.Default())

	records := []dataset.Record{
		record("Amazonia", 2020, 800),
		record("Amazonia", 1990, 1000),
	}

	_, err := a.Analyze(context.Background(), records)
	require.NoError(t, err)

	assert.Equal(t, 2020, records[0].Year, "caller's slice keeps its order")
	assert.Equal(t, 1990, records[1].Year)
}

func TestAnalyzer_GlobalTrend(t *testing.T) {
	a := NewAnalyzer(slog.Default())

	points, err := a.GlobalTrend(context.Background(), []dataset.Record{
		record("Amazonia", 1991, 900),
		record("Amazonia", 1990, 1000),
		record("Borneo", 1990, 500),
		record("Borneo", 1991, 600),
		record("Borneo", 1992, 750),
	})
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, GlobalPoint{Year: 1990, TotalArea: 1500, YoYChangePct: 0}, points[0])
	assert.Equal(t, 1991, points[1].Year)
	assert.Equal(t, 1500.0, points[1].TotalArea)
	assert.Zero(t, points[1].YoYChangePct)
	assert.Equal(t, 1992, points[2].Year)
	assert.Equal(t, 750.0, points[2].TotalArea, "only Borneo observed in 1992")
	assert.InDelta(t, -50.0, points[2].YoYChangePct, 1e-9)
}

func TestAnalyzer_GlobalTrend_ZeroTotalBase(t *testing.T) {
	a := NewAnalyzer(slog.Default())

	points, err := a.GlobalTrend(context.Background(), []dataset.Record{
		record("Sahel", 1990, 0),
		record("Sahel", 1991, 50),
	})
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Zero(t, points[1].YoYChangePct, "change from a zero total stays zero")
}

func TestAnalyzer_GlobalTrend_EmptyInput(t *testing.T) {
	a := NewAnalyzer(slog.Default())

	_, err := a.GlobalTrend(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeEmptyInput))
}
