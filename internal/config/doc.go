// Package config provides configuration loading for moviescope.
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command-line flags (applied by cmd/moviescope)
//	2. Environment variables prefixed MOVIESCOPE_
//	3. A YAML file: $MOVIESCOPE_CONFIG, moviescope.yaml or configs/moviescope.yaml
//	4. Struct tag defaults
//
// Example environment:
//
//	MOVIESCOPE_PATHS_INPUT_FILE=data/tmdb-movies.csv
//	MOVIESCOPE_CLEANING_PARSE_ERROR_POLICY=drop
//	MOVIESCOPE_REPORT_TOP_TITLES=20
//	MOVIESCOPE_TELEMETRY_TRACE_EXPORTER=stdout
//
// Paths resolves the executable-relative default output layout.
package config
