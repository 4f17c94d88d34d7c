package exporter

import (
	"log/slog"

	"moviescope/internal/config"
	"moviescope/internal/dataprocessing"
	"moviescope/pkg/contracts/domain"
)

// CleaningLogHeaders is the header row of the cleaning log
var CleaningLogHeaders = []string{
	"row_identifier",
	"column_name",
	"original_value",
	"new_value",
	"operation",
	"reason",
}

// DatasetExporter writes the cleaned table and its cleaning log
type DatasetExporter struct {
	csvWriter *CSVWriter
	paths     *config.Paths
	logger    *slog.Logger
}

// NewDatasetExporter creates a new dataset exporter
func NewDatasetExporter(paths *config.Paths, logger *slog.Logger) *DatasetExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetExporter{
		csvWriter: NewCSVWriter(paths, logger),
		paths:     paths,
		logger:    logger,
	}
}

// ExportDataset streams table to the cleaned dataset file. The header is
// domain.MovieColumns, so the file loads back unchanged.
func (d *DatasetExporter) ExportDataset(table domain.MovieTable) (string, error) {
	stream, err := d.csvWriter.CreateStreamWriter(d.paths.CleanedCSV, domain.MovieColumns, false)
	if err != nil {
		return "", err
	}

	var writeErr error
	table.Each(func(_ int, r domain.MovieRecord) {
		if writeErr == nil {
			writeErr = stream.WriteRecord(r.Row())
		}
	})
	if writeErr != nil {
		stream.Close()
		return "", writeErr
	}

	if err := stream.Close(); err != nil {
		return "", err
	}
	d.logger.Info("Cleaned dataset written",
		slog.String("file_path", d.paths.CleanedCSV),
		slog.Int("record_count", stream.Rows()))
	return d.paths.CleanedCSV, nil
}

// ExportCleaningLog writes one row per cleaning operation, in order.
func (d *DatasetExporter) ExportCleaningLog(ops []dataprocessing.CleaningOperation) (string, error) {
	records := make([][]string, 0, len(ops))
	for _, op := range ops {
		records = append(records, []string{
			op.RowIdentifier,
			op.ColumnName,
			op.OriginalValue,
			op.NewValue,
			op.Operation,
			op.Reason,
		})
	}

	if err := d.csvWriter.WriteSimpleCSV(d.paths.CleaningLog, CleaningLogHeaders, records); err != nil {
		return "", err
	}
	return d.paths.CleaningLog, nil
}
