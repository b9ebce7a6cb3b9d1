// Package config provides configuration management for fxstory.
// It loads configuration from multiple sources, validates it, and resolves
// every file system location a run uses.
//
// # Configuration Sources
//
// Configuration is layered, later sources overriding earlier ones:
//
//	1. Default values (Default)
//	2. A YAML file: the --config flag, FXS_CONFIG, or the first of
//	   fxstory.yaml and configs/fxstory.yaml that exists
//	3. Environment variables (highest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern FXS_<SECTION>_<KEY>:
//
//	FXS_INPUT_PATH=data/euro-daily-hist_1999_2021.csv
//	FXS_LOGGING_LEVEL=debug
//	FXS_STORY_ROLLING_WINDOW=30
//	FXS_STORY_ROLLING_WINDOWS=1,7,30,50,100,365
//	FXS_TELEMETRY_TRACE_EXPORTER=stdout
//
// Administration periods are only configurable from the YAML file.
//
// # Path Management
//
// Paths resolves relative locations against the working directory:
//
//	paths, err := config.GetPaths(cfg)
//	chart := paths.GetChartPath("us_presidents")
//	report := paths.GetReportPath("summary.xlsx")
//
// # Validation
//
// Load validates struct tags with go-playground/validator and checks that
// every administration period is well formed and that consecutive periods
// do not overlap.
package config
