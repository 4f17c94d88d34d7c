// Package dataprocessing loads, cleans and aggregates the TMDb movie dataset.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Loader: reads the CSV export (or the first sheet of an XLSX workbook)
// into a raw domain.MovieTable, checking the header and every cell type
// 2. Cleaner: applies the fixed cleaning sequence and records every change
// as a CleaningOperation
// 3. Aggregator: computes grouped counts, per-year means, rating categories
// and title rankings over a cleaned table
//
// # Usage
//
//	loaded, err := dataprocessing.NewLoader(dataprocessing.LoadOptions{}).LoadFile("tmdb-movies.csv")
//	if err != nil {
//	    return err
//	}
//
//	cleaned, err := dataprocessing.NewCleaner(dataprocessing.DefaultCleanOptions(), logger).Clean(loaded.Table)
//	if err != nil {
//	    return err
//	}
//
//	report, err := dataprocessing.NewAggregator(cleaned.Table).Summarize(dataprocessing.DefaultSummaryOptions())
//
// # Data Flow
//
//	CSV/XLSX → Loader → raw MovieTable → Cleaner → cleaned MovieTable → Aggregator → MovieReport
//
// Tables are never modified in place; each stage returns a new one.
//
// # Error Handling
//
// Structural problems (missing file, wrong header, ragged row) are LOAD
// errors. A cell that cannot be coerced, including a release date that
// matches no layout, is a PARSING error; with the drop policy the row is
// removed and logged instead.
package dataprocessing
