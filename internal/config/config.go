package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Parse-error policies for cells that cannot be coerced to their column type.
const (
	ParsePolicyFail = "fail"
	ParsePolicyDrop = "drop"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Cleaning  CleaningConfig  `yaml:"cleaning" envconfig:"CLEANING"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/moviescope.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	InputFile string `yaml:"input_file" envconfig:"INPUT_FILE" default:"tmdb-movies.csv"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// CleaningConfig controls the cleaning pass
type CleaningConfig struct {
	Sentinel         string   `yaml:"sentinel" envconfig:"SENTINEL" default:"Not Available"`
	ParseErrorPolicy string   `yaml:"parse_error_policy" envconfig:"PARSE_ERROR_POLICY" default:"fail"`
	DateLayouts      []string `yaml:"date_layouts" envconfig:"DATE_LAYOUTS" default:"1/2/06,1/2/2006,2006-01-02"`
}

// ReportConfig controls aggregation sizes and rendered artifacts
type ReportConfig struct {
	TopYears       int  `yaml:"top_years" envconfig:"TOP_YEARS" default:"10"`
	TopTitles      int  `yaml:"top_titles" envconfig:"TOP_TITLES" default:"20"`
	HistogramBins  int  `yaml:"histogram_bins" envconfig:"HISTOGRAM_BINS" default:"10"`
	Workbook       bool `yaml:"workbook" envconfig:"WORKBOOK" default:"true"`
	CSV            bool `yaml:"csv" envconfig:"CSV" default:"true"`
	CleanedDataset bool `yaml:"cleaned_dataset" envconfig:"CLEANED_DATASET" default:"true"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	TraceExporter   string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none"`
	EnableMetrics   bool   `yaml:"enable_metrics" envconfig:"ENABLE_METRICS" default:"true"`
	MetricsTextfile string `yaml:"metrics_textfile" envconfig:"METRICS_TEXTFILE" default:"metrics.prom"`
}

// Load loads configuration from environment variables and the config file
// found through MOVIESCOPE_CONFIG or the default locations
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from environment variables and the YAML file
// at path. An empty path falls back to the default lookup.
func LoadFrom(path string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	configFile := path
	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		fileConfig, switches, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
		cfg = mergeSwitches(*switches, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// fileSwitches holds the boolean keys of the config file. Pointers tell an
// explicit false apart from an absent key.
type fileSwitches struct {
	Report struct {
		Workbook       *bool `yaml:"workbook"`
		CSV            *bool `yaml:"csv"`
		CleanedDataset *bool `yaml:"cleaned_dataset"`
	} `yaml:"report"`
	Telemetry struct {
		EnableMetrics *bool `yaml:"enable_metrics"`
	} `yaml:"telemetry"`
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, *fileSwitches, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, err
	}

	var switches fileSwitches
	if err := yaml.Unmarshal(data, &switches); err != nil {
		return nil, nil, err
	}

	return &cfg, &switches, nil
}

// mergeSwitches applies booleans present in the file unless the matching
// env var is set
func mergeSwitches(file fileSwitches, envConfig Config) Config {
	pickBool := func(env bool, file *bool, name string) bool {
		if _, set := os.LookupEnv(EnvPrefix + "_" + name); set || file == nil {
			return env
		}
		return *file
	}

	envConfig.Report.Workbook = pickBool(envConfig.Report.Workbook, file.Report.Workbook, "REPORT_WORKBOOK")
	envConfig.Report.CSV = pickBool(envConfig.Report.CSV, file.Report.CSV, "REPORT_CSV")
	envConfig.Report.CleanedDataset = pickBool(envConfig.Report.CleanedDataset, file.Report.CleanedDataset, "REPORT_CLEANED_DATASET")
	envConfig.Telemetry.EnableMetrics = pickBool(envConfig.Telemetry.EnableMetrics, file.Telemetry.EnableMetrics, "TELEMETRY_ENABLE_METRICS")

	return envConfig
}

// mergeConfigs merges file config with env config. Env wins for any variable
// that is actually set; otherwise the file value replaces the env default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	pick := func(env, file, name string) string {
		if _, set := os.LookupEnv(EnvPrefix + "_" + name); set || file == "" {
			return env
		}
		return file
	}
	pickInt := func(env, file int, name string) int {
		if _, set := os.LookupEnv(EnvPrefix + "_" + name); set || file == 0 {
			return env
		}
		return file
	}

	envConfig.Logging.Level = pick(envConfig.Logging.Level, fileConfig.Logging.Level, "LOGGING_LEVEL")
	envConfig.Logging.Output = pick(envConfig.Logging.Output, fileConfig.Logging.Output, "LOGGING_OUTPUT")
	envConfig.Logging.FilePath = pick(envConfig.Logging.FilePath, fileConfig.Logging.FilePath, "LOGGING_FILE_PATH")

	envConfig.Paths.InputFile = pick(envConfig.Paths.InputFile, fileConfig.Paths.InputFile, "PATHS_INPUT_FILE")
	envConfig.Paths.OutputDir = pick(envConfig.Paths.OutputDir, fileConfig.Paths.OutputDir, "PATHS_OUTPUT_DIR")
	envConfig.Paths.LogsDir = pick(envConfig.Paths.LogsDir, fileConfig.Paths.LogsDir, "PATHS_LOGS_DIR")

	envConfig.Cleaning.Sentinel = pick(envConfig.Cleaning.Sentinel, fileConfig.Cleaning.Sentinel, "CLEANING_SENTINEL")
	envConfig.Cleaning.ParseErrorPolicy = pick(envConfig.Cleaning.ParseErrorPolicy, fileConfig.Cleaning.ParseErrorPolicy, "CLEANING_PARSE_ERROR_POLICY")
	if _, set := os.LookupEnv(EnvPrefix + "_CLEANING_DATE_LAYOUTS"); !set && len(fileConfig.Cleaning.DateLayouts) > 0 {
		envConfig.Cleaning.DateLayouts = fileConfig.Cleaning.DateLayouts
	}

	envConfig.Report.TopYears = pickInt(envConfig.Report.TopYears, fileConfig.Report.TopYears, "REPORT_TOP_YEARS")
	envConfig.Report.TopTitles = pickInt(envConfig.Report.TopTitles, fileConfig.Report.TopTitles, "REPORT_TOP_TITLES")
	envConfig.Report.HistogramBins = pickInt(envConfig.Report.HistogramBins, fileConfig.Report.HistogramBins, "REPORT_HISTOGRAM_BINS")

	envConfig.Telemetry.TraceExporter = pick(envConfig.Telemetry.TraceExporter, fileConfig.Telemetry.TraceExporter, "TELEMETRY_TRACE_EXPORTER")
	envConfig.Telemetry.MetricsTextfile = pick(envConfig.Telemetry.MetricsTextfile, fileConfig.Telemetry.MetricsTextfile, "TELEMETRY_METRICS_TEXTFILE")

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	switch c.Cleaning.ParseErrorPolicy {
	case ParsePolicyFail, ParsePolicyDrop:
	default:
		return fmt.Errorf("invalid parse error policy %q (want %q or %q)",
			c.Cleaning.ParseErrorPolicy, ParsePolicyFail, ParsePolicyDrop)
	}

	if strings.TrimSpace(c.Cleaning.Sentinel) == "" {
		return fmt.Errorf("cleaning sentinel must not be empty")
	}

	if len(c.Cleaning.DateLayouts) == 0 {
		return fmt.Errorf("at least one release date layout must be specified")
	}

	if c.Report.TopYears <= 0 || c.Report.TopTitles <= 0 {
		return fmt.Errorf("report top-N sizes must be positive")
	}

	if c.Report.HistogramBins <= 0 {
		return fmt.Errorf("histogram bins must be positive")
	}

	switch c.Telemetry.TraceExporter {
	case "stdout", "none":
	default:
		return fmt.Errorf("unsupported trace exporter: %s", c.Telemetry.TraceExporter)
	}

	// Logs are always JSON
	c.Logging.Format = "json"

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		c.Logging.Output = "console"
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/moviescope.log"
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG"); explicit != "" {
		return explicit
	}

	locations := []string{
		"moviescope.yaml",
		"configs/moviescope.yaml",
		"../configs/moviescope.yaml",
	}

	for _, location := range locations {
		if FileExists(location) {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/moviescope.log",
		},
		Paths: PathsConfig{
			InputFile: "tmdb-movies.csv",
			LogsDir:   "logs",
		},
		Cleaning: CleaningConfig{
			Sentinel:         "Not Available",
			ParseErrorPolicy: ParsePolicyFail,
			DateLayouts:      []string{"1/2/06", "1/2/2006", "2006-01-02"},
		},
		Report: ReportConfig{
			TopYears:       DefaultTopYears,
			TopTitles:      DefaultTopTitles,
			HistogramBins:  DefaultHistogramBins,
			Workbook:       true,
			CSV:            true,
			CleanedDataset: true,
		},
		Telemetry: TelemetryConfig{
			TraceExporter:   "none",
			EnableMetrics:   true,
			MetricsTextfile: "metrics.prom",
		},
	}
}
