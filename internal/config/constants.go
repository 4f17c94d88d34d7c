package config

// Application constants
const (
	AppName    = "moviescope"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. MOVIESCOPE_LOGGING_LEVEL.
	EnvPrefix = "MOVIESCOPE"

	DefaultTopYears      = 10
	DefaultTopTitles     = 20
	DefaultHistogramBins = 10

	// Well-known artifact names inside the output directory
	CleanedDatasetFile = "movies_clean.csv"
	CleaningLogFile    = "cleaning_log.csv"
	WorkbookFile       = "report.xlsx"
	AggregatesDir      = "aggregates"
)
