package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forestcli/internal/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, 1990, cfg.Study.StartYear)
	assert.Equal(t, 2020, cfg.Study.EndYear)
	assert.True(t, cfg.Cleaning.FillMissing)
	assert.Equal(t, 2, cfg.Cleaning.AreaPrecision)
	assert.Equal(t, 5, cfg.Charts.TopRegions)

	require.NoError(t, cfg.Validate(), "defaults must validate")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "unknown log output",
			mutate:  func(c *Config) { c.Logging.Output = "syslog" },
			wantErr: true,
		},
		{
			name: "file output requires file path",
			mutate: func(c *Config) {
				c.Logging.Output = "file"
				c.Logging.FilePath = ""
			},
			wantErr: true,
		},
		{
			name: "end year before start year",
			mutate: func(c *Config) {
				c.Study.StartYear = 2020
				c.Study.EndYear = 1990
			},
			wantErr: true,
		},
		{
			name:    "single-year study period",
			mutate:  func(c *Config) { c.Study.StartYear, c.Study.EndYear = 2000, 2000 },
			wantErr: false,
		},
		{
			name:    "negative area precision",
			mutate:  func(c *Config) { c.Cleaning.AreaPrecision = -1 },
			wantErr: true,
		},
		{
			name:    "zero chart width",
			mutate:  func(c *Config) { c.Charts.WidthInches = 0 },
			wantErr: true,
		},
		{
			name:    "zero top regions",
			mutate:  func(c *Config) { c.Charts.TopRegions = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Run("file values overlay defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "forest.yaml")
		content := `
logging:
  level: debug
study:
  end_year: 2023
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg := Default()
		require.NoError(t, loadFromFile(path, cfg))

		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, 2023, cfg.Study.EndYear)
		// Keys absent from the file keep their defaults.
		assert.Equal(t, "json", cfg.Logging.Format)
		assert.Equal(t, 1990, cfg.Study.StartYear)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "forest.yaml")
		require.NoError(t, os.WriteFile(path, []byte("logging: [not a map"), 0644))

		cfg := Default()
		assert.Error(t, loadFromFile(path, cfg))
	})
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FOREST_LOGGING_LEVEL", "warn")
	t.Setenv("FOREST_STUDY_START_YEAR", "1995")
	t.Setenv("FOREST_CHARTS_TOP_REGIONS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, 1995, cfg.Study.StartYear)
	assert.Equal(t, 3, cfg.Charts.TopRegions)
	// Untouched knobs keep defaults.
	assert.Equal(t, 2020, cfg.Study.EndYear)
	assert.True(t, cfg.Cleaning.FillMissing)
}

func TestLoad_InvalidEnvRejected(t *testing.T) {
	t.Setenv("FOREST_LOGGING_LEVEL", "chatty")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeConfig))
}
