// Package exporter renders an analysed movie dataset to files and text.
//
// The package contains these components:
//
// CSVWriter: core CSV writing with headers, streaming and an optional
// UTF-8 BOM for Excel compatibility. Failures are STORAGE errors.
//
// DatasetExporter: writes the cleaned table (same header as the input, so it
// loads back unchanged) and the cleaning log.
//
// AggregateExporter: writes one CSV per aggregation under aggregates/.
//
// WorkbookReporter: writes report.xlsx with a summary sheet and one sheet
// plus native chart per aggregation.
//
// TextReporter: prints the tables and conclusions to an io.Writer.
//
// Reporter: runs all of the above concurrently for one run.
//
// Example usage:
//
//	paths := config.NewPaths("out", "logs")
//	reporter := exporter.NewReporter(paths, cfg.Report, os.Stdout, logger, metrics)
//
//	artifacts, err := reporter.Render(ctx, exporter.RenderInput{
//	    Report:     report,
//	    Table:      cleaned.Table,
//	    Operations: operations,
//	})
package exporter
