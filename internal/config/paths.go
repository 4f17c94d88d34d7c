package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved locations used by a run
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	AggregatesDir string
	LogsDir       string

	// Well-known report files
	CleanedCSV  string
	CleaningLog string
	Workbook    string
	MetricsFile string
}

// GetPaths returns the application paths relative to the executable location.
// Defaults never depend on the current working directory.
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %v", err)
	}

	// Resolve symlinks to get the actual executable location
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %v", err)
	}

	exeDir := filepath.Dir(exe)
	slog.Debug("Resolved executable directory",
		slog.String("exe_path", exe),
		slog.String("exe_dir", exeDir))

	// dist/
	//   ├── data/
	//   │   └── reports/       (cleaned dataset, aggregates, workbook)
	//   └── logs/
	dataDir := filepath.Join(exeDir, "data")
	paths := NewPaths(filepath.Join(dataDir, "reports"), filepath.Join(exeDir, "logs"))
	paths.ExecutableDir = exeDir
	paths.DataDir = dataDir
	return paths, nil
}

// NewPaths lays out the well-known artifacts under reportsDir.
func NewPaths(reportsDir, logsDir string) *Paths {
	return &Paths{
		ReportsDir:    reportsDir,
		AggregatesDir: filepath.Join(reportsDir, AggregatesDir),
		LogsDir:       logsDir,
		CleanedCSV:    filepath.Join(reportsDir, CleanedDatasetFile),
		CleaningLog:   filepath.Join(reportsDir, CleaningLogFile),
		Workbook:      filepath.Join(reportsDir, WorkbookFile),
		MetricsFile:   filepath.Join(reportsDir, "metrics.prom"),
	}
}

// WithMetricsFile points MetricsFile at name; relative names live under ReportsDir.
func (p *Paths) WithMetricsFile(name string) *Paths {
	if name == "" {
		return p
	}
	if filepath.IsAbs(name) {
		p.MetricsFile = name
	} else {
		p.MetricsFile = filepath.Join(p.ReportsDir, name)
	}
	return p
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.ReportsDir,
		p.AggregatesDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}

	return nil
}

// GetAggregatePath returns the path of an aggregate CSV by base name
func (p *Paths) GetAggregatePath(name string) string {
	return filepath.Join(p.AggregatesDir, name+".csv")
}

// GetLogPath returns the full path for a log file
func (p *Paths) GetLogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
