package exporter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	apperrors "moviescope/internal/errors"
	"moviescope/pkg/contracts/domain"
)

// TextReporter prints the tabular summaries and conclusions of a report
type TextReporter struct {
	out io.Writer
}

// NewTextReporter creates a text reporter writing to out
func NewTextReporter(out io.Writer) *TextReporter {
	return &TextReporter{out: out}
}

// Write prints report. Floats are shown with two decimals.
func (t *TextReporter) Write(report *domain.MovieReport) error {
	tw := tabwriter.NewWriter(t.out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Movie dataset report: %s\n", report.SourceFile)
	fmt.Fprintf(tw, "Records analysed:\t%d\n", report.TotalRecords)
	fmt.Fprintf(tw, "Median release year:\t%s\n", formatFloat(report.MedianReleaseYear))

	writeProfiles(tw, report.RawProfile, report.CleanedProfile)

	for _, table := range AggregateTables(report) {
		writeSection(tw, table.Title)
		fmt.Fprintln(tw, strings.Join(table.Headers, "\t"))
		if len(table.Rows) == 0 {
			fmt.Fprintln(tw, "(none)")
		}
		for _, row := range table.Rows {
			cells := make([]string, len(row))
			for i, cell := range row {
				cells[i] = formatCell(cell, formatFloat)
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t"))
		}
	}

	writeSection(tw, "Conclusions")
	for i, c := range Conclusions(report) {
		fmt.Fprintf(tw, "%d. %s\n", i+1, c)
	}

	if err := tw.Flush(); err != nil {
		return apperrors.NewStorageError("failed to write text report", err)
	}
	return nil
}

func writeSection(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

func writeProfiles(w io.Writer, raw, cleaned domain.DatasetProfile) {
	writeSection(w, "Dataset Profile")
	fmt.Fprintln(w, "\traw\tcleaned")
	fmt.Fprintf(w, "rows\t%d\t%d\n", raw.Rows, cleaned.Rows)
	fmt.Fprintf(w, "columns\t%d\t%d\n", raw.Columns, cleaned.Columns)
	fmt.Fprintf(w, "duplicates\t%d\t%d\n", raw.Duplicates, cleaned.Duplicates)
	fmt.Fprintf(w, "zero budget\t%d\t%d\n", raw.ZeroBudget, cleaned.ZeroBudget)
	fmt.Fprintf(w, "zero revenue\t%d\t%d\n", raw.ZeroRevenue, cleaned.ZeroRevenue)
	fmt.Fprintf(w, "zero budget_adj\t%d\t%d\n", raw.ZeroBudgetAdj, cleaned.ZeroBudgetAdj)
	fmt.Fprintf(w, "zero revenue_adj\t%d\t%d\n", raw.ZeroRevenueAdj, cleaned.ZeroRevenueAdj)

	for _, column := range domain.MovieColumns {
		if raw.Missing[column] == 0 && cleaned.Missing[column] == 0 {
			continue
		}
		fmt.Fprintf(w, "missing %s\t%d\t%d\n", column, raw.Missing[column], cleaned.Missing[column])
	}
}
