// Package config provides centralized configuration management for the
// forest cover pipeline. It handles loading configuration from multiple
// sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (forest.yaml)
//	3. Compiled defaults (lowest priority)
//
// Every knob has a compiled default, so neither the file nor any
// environment variable is ever required. Input and output locations are
// never configured here: they are command-line arguments of the tools.
//
// # Environment Variables
//
// All environment variables follow the pattern FOREST_* for namespacing:
//
//	FOREST_LOGGING_LEVEL=debug
//	FOREST_LOGGING_OUTPUT=both
//	FOREST_STUDY_START_YEAR=1990
//	FOREST_STUDY_END_YEAR=2020
//	FOREST_CHARTS_TOP_REGIONS=5
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
