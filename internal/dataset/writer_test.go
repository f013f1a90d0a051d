package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "clean.csv")
	records := []Record{
		{Region: "Amazonia", Year: 1990, AreaHectares: 1000.5},
		{Region: "Amazonia", Year: 1991, AreaHectares: 998.25},
		{Region: "Borneo", Year: 1990, AreaHectares: 550},
	}

	require.NoError(t, WriteRecords(path, records, 2))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	// UTF-8 BOM for Excel compatibility
	assert.True(t, strings.HasPrefix(string(content), "\xEF\xBB\xBF"))

	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(string(content), "\xEF\xBB\xBF")), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "region,year,forest_area_hectares", lines[0])
	assert.Equal(t, "Amazonia,1990,1000.50", lines[1])
	assert.Equal(t, "Amazonia,1991,998.25", lines[2])
	assert.Equal(t, "Borneo,1990,550.00", lines[3])
}

func TestWriteRecords_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clean.csv")
	records := []Record{
		{Region: "Congo Basin", Year: 2000, AreaHectares: 310.25},
		{Region: "Sumatra", Year: 2001, AreaHectares: 420},
	}

	require.NoError(t, WriteRecords(path, records, 2))

	loaded, err := LoadRecords(path)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}

func TestWriteCSV_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")

	require.NoError(t, WriteCSV(path, WriteOptions{
		Headers:   []string{"a", "b"},
		Records:   [][]string{{"1", "2"}},
		BOMPrefix: false,
	}))
	require.NoError(t, WriteCSV(path, WriteOptions{
		Records: [][]string{{"3", "4"}},
		Append:  true,
	}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	assert.Equal(t, []string{"a,b", "1,2", "3,4"}, lines)
}

func TestFormatArea(t *testing.T) {
	assert.Equal(t, "13.40", FormatArea(13.4, 2))
	assert.Equal(t, "0.00", FormatArea(0, 2))
	assert.Equal(t, "1000", FormatArea(1000.4, 0))
	assert.Equal(t, "-2.500", FormatArea(-2.5, 3))
}

func TestSortRecords(t *testing.T) {
	records := []Record{
		{Region: "Borneo", Year: 1991},
		{Region: "Amazonia", Year: 1992},
		{Region: "Borneo", Year: 1990},
		{Region: "Amazonia", Year: 1990},
	}

	SortRecords(records)

	want := []Record{
		{Region: "Amazonia", Year: 1990},
		{Region: "Amazonia", Year: 1992},
		{Region: "Borneo", Year: 1990},
		{Region: "Borneo", Year: 1991},
	}
	assert.Equal(t, want, records)
}

func TestRegionsAndYearRange(t *testing.T) {
	records := []Record{
		{Region: "Borneo", Year: 1995},
		{Region: "Amazonia", Year: 2003},
		{Region: "Borneo", Year: 1991},
	}

	assert.Equal(t, []string{"Amazonia", "Borneo"}, Regions(records))

	minYear, maxYear, ok := YearRange(records)
	require.True(t, ok)
	assert.Equal(t, 1991, minYear)
	assert.Equal(t, 2003, maxYear)

	_, _, ok = YearRange(nil)
	assert.False(t, ok)
}
