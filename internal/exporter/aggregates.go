package exporter

import (
	"fmt"
	"log/slog"

	"moviescope/internal/config"
	"moviescope/pkg/contracts/domain"
)

// AggregateExporter writes each aggregation as its own CSV
type AggregateExporter struct {
	csvWriter *CSVWriter
	paths     *config.Paths
}

// NewAggregateExporter creates a new aggregate exporter
func NewAggregateExporter(paths *config.Paths, logger *slog.Logger) *AggregateExporter {
	return &AggregateExporter{
		csvWriter: NewCSVWriter(paths, logger),
		paths:     paths,
	}
}

// ExportAggregates writes every table of report under the aggregates
// directory and returns the written paths in presentation order.
func (a *AggregateExporter) ExportAggregates(report *domain.MovieReport) ([]string, error) {
	tables := AggregateTables(report)
	written := make([]string, 0, len(tables))

	for _, t := range tables {
		path := a.paths.GetAggregatePath(t.Name)
		if err := a.csvWriter.WriteSimpleCSV(path, t.Headers, t.StringRows()); err != nil {
			return written, fmt.Errorf("failed to write aggregate %s: %w", t.Name, err)
		}
		written = append(written, path)
	}

	return written, nil
}
