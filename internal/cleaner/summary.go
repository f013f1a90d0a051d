package cleaner

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"forestcli/internal/errors"
)

// ExclusionCounts breaks down excluded rows by the rule they violated.
type ExclusionCounts struct {
	RegionEmpty    int `json:"region_empty"`
	YearInvalid    int `json:"year_invalid"`
	YearOutOfRange int `json:"year_out_of_range"`
	AreaInvalid    int `json:"area_invalid"`
	AreaNegative   int `json:"area_negative"`
	AreaUnfilled   int `json:"area_missing_unfilled"`
}

// Summary accounts for everything the cleaner did to the input table.
type Summary struct {
	RowsRead          int             `json:"rows_read"`
	RowsKept          int             `json:"rows_kept"`
	DuplicatesRemoved int             `json:"duplicates_removed"`
	MissingFilled     int             `json:"missing_filled"`
	Excluded          ExclusionCounts `json:"excluded"`
	Regions           int             `json:"regions"`
	FirstYear         int             `json:"first_year,omitempty"`
	LastYear          int             `json:"last_year,omitempty"`
}

// TotalExcluded returns the number of rows dropped across all rules.
// Duplicates are counted separately.
func (s *Summary) TotalExcluded() int {
	e := s.Excluded
	return e.RegionEmpty + e.YearInvalid + e.YearOutOfRange +
		e.AreaInvalid + e.AreaNegative + e.AreaUnfilled
}

// WriteJSON writes the summary to a JSON sidecar file with metadata.
func (s *Summary) WriteJSON(ctx context.Context, path string) error {
	slog.Default().InfoContext(ctx, "writing cleaning summary",
		slog.String("path", path))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for summary output", err)
	}

	jsonData := map[string]interface{}{
		"summary":      s,
		"generated_at": time.Now().Format(time.RFC3339),
		"format":       "cleaning_summary_v1",
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create summary file", err).
			WithContext("path", path)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(jsonData); err != nil {
		return errors.NewStorageError("failed to encode cleaning summary", err)
	}

	return nil
}
