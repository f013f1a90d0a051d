package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"forestcli/internal/errors"
)

// envPrefix namespaces every environment variable the loader reads,
// e.g. FOREST_LOGGING_LEVEL or FOREST_STUDY_END_YEAR.
const envPrefix = "FOREST"

var validate = validator.New()

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Study    StudyConfig    `yaml:"study" envconfig:"STUDY"`
	Cleaning CleaningConfig `yaml:"cleaning" envconfig:"CLEANING"`
	Charts   ChartConfig    `yaml:"charts" envconfig:"CHARTS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// StudyConfig bounds the study period. Observations outside the
// inclusive [StartYear, EndYear] range are excluded during cleaning.
type StudyConfig struct {
	StartYear int `yaml:"start_year" envconfig:"START_YEAR" validate:"gt=0"`
	EndYear   int `yaml:"end_year" envconfig:"END_YEAR" validate:"gtefield=StartYear"`
}

// CleaningConfig contains cleaning-stage configuration
type CleaningConfig struct {
	// FillMissing enables region-median imputation for rows whose
	// area cell is empty. When disabled such rows are dropped.
	FillMissing   bool `yaml:"fill_missing" envconfig:"FILL_MISSING"`
	AreaPrecision int  `yaml:"area_precision" envconfig:"AREA_PRECISION" validate:"min=0,max=10"`
}

// ChartConfig contains chart rendering configuration
type ChartConfig struct {
	WidthInches  float64 `yaml:"width_inches" envconfig:"WIDTH_INCHES" validate:"gt=0"`
	HeightInches float64 `yaml:"height_inches" envconfig:"HEIGHT_INCHES" validate:"gt=0"`
	TopRegions   int     `yaml:"top_regions" envconfig:"TOP_REGIONS" validate:"min=1"`
}

// Load loads configuration from defaults, an optional config file and
// environment variables, in that order of precedence (env highest).
func Load() (*Config, error) {
	cfg := Default()

	// Load from config file if exists
	if configFile := getConfigFilePath(); configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, errors.NewConfigError("failed to load config from file", err).
				WithContext("path", configFile)
		}
	}

	// Environment variables override file values
	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, errors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg.
// Keys absent from the file keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.NewConfigError("config validation failed", err)
	}

	if c.Logging.Output != "stdout" && c.Logging.FilePath == "" {
		return errors.NewConfigError("logging file_path is required when output is file or both", nil)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"forest.yaml",
		"configs/forest.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use defaults and env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			Output:      "stdout",
			FilePath:    "logs/forestcli.log",
			Development: false,
		},
		Study: StudyConfig{
			StartYear: 1990,
			EndYear:   2020,
		},
		Cleaning: CleaningConfig{
			FillMissing:   true,
			AreaPrecision: 2,
		},
		Charts: ChartConfig{
			WidthInches:  12,
			HeightInches: 6,
			TopRegions:   5,
		},
	}
}
