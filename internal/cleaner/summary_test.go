package cleaner

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary_TotalExcluded(t *testing.T) {
	s := Summary{
		Excluded: ExclusionCounts{
			RegionEmpty:    1,
			YearInvalid:    2,
			YearOutOfRange: 3,
			AreaInvalid:    4,
			AreaNegative:   5,
			AreaUnfilled:   6,
		},
	}
	assert.Equal(t, 21, s.TotalExcluded())
	assert.Equal(t, 0, (&Summary{}).TotalExcluded())
}

func TestSummary_WriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "clean.summary.json")
	s := &Summary{
		RowsRead:          10,
		RowsKept:          7,
		DuplicatesRemoved: 1,
		MissingFilled:     2,
		Excluded:          ExclusionCounts{YearOutOfRange: 2},
		Regions:           3,
		FirstYear:         1990,
		LastYear:          2020,
	}

	require.NoError(t, s.WriteJSON(context.Background(), path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var payload struct {
		Summary     Summary `json:"summary"`
		GeneratedAt string  `json:"generated_at"`
		Format      string  `json:"format"`
	}
	require.NoError(t, json.Unmarshal(content, &payload))

	assert.Equal(t, *s, payload.Summary)
	assert.Equal(t, "cleaning_summary_v1", payload.Format)
	assert.NotEmpty(t, payload.GeneratedAt)
}
