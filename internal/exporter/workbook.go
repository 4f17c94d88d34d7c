package exporter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "moviescope/internal/errors"
	"moviescope/pkg/contracts/domain"
)

// SummarySheet is the first sheet of the workbook
const SummarySheet = "Summary"

// WorkbookReporter renders a report as an Excel workbook with one sheet and
// one native chart per aggregation.
type WorkbookReporter struct {
	logger *slog.Logger
}

// NewWorkbookReporter creates a new workbook reporter
func NewWorkbookReporter(logger *slog.Logger) *WorkbookReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookReporter{logger: logger}
}

// Write renders report into path.
func (w *WorkbookReporter) Write(report *domain.MovieReport, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return apperrors.NewStorageError("failed to name summary sheet", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return apperrors.NewStorageError("failed to create header style", err)
	}

	if err := w.writeSummary(f, report, header); err != nil {
		return err
	}

	charts := 0
	for _, t := range AggregateTables(report) {
		if err := w.writeTable(f, t, header); err != nil {
			return apperrors.NewStorageError("failed to write sheet", err).WithContext("sheet", t.Name)
		}
		if t.Chart == ChartNone || len(t.Rows) == 0 {
			continue
		}
		if err := f.AddChart(t.Name, chartAnchor(t), buildChart(t)); err != nil {
			return apperrors.NewStorageError("failed to add chart", err).WithContext("sheet", t.Name)
		}
		charts++
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save workbook", err).WithContext("path", path)
	}

	w.logger.Info("Workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(f.GetSheetList())),
		slog.Int("charts", charts))
	return nil
}

func (w *WorkbookReporter) writeSummary(f *excelize.File, report *domain.MovieReport, header int) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Generated at", report.GeneratedAt.UTC().Format(time.RFC3339)},
		{"Source file", report.SourceFile},
		{"Rows loaded", report.RawProfile.Rows},
		{"Rows after cleaning", report.CleanedProfile.Rows},
		{"Duplicates in source", report.RawProfile.Duplicates},
		{"Median release year", report.MedianReleaseYear},
		{"Unclassified ratings", report.RatingCounts.Unclassified},
	}
	rows = append(rows, []interface{}{})
	rows = append(rows, []interface{}{"Conclusions"})
	for _, c := range Conclusions(report) {
		rows = append(rows, []interface{}{c})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return apperrors.NewStorageError("failed to write summary", err)
		}
	}

	if err := f.SetCellStyle(SummarySheet, "A1", "B1", header); err != nil {
		return apperrors.NewStorageError("failed to style summary", err)
	}
	return f.SetColWidth(SummarySheet, "A", "A", 28)
}

func (w *WorkbookReporter) writeTable(f *excelize.File, t Table, header int) error {
	if _, err := f.NewSheet(t.Name); err != nil {
		return err
	}

	headers := make([]interface{}, len(t.Headers))
	for i, h := range t.Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(t.Name, "A1", &headers); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(t.Headers), 1)
	if err := f.SetCellStyle(t.Name, "A1", last, header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(t.Name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// chartAnchor places the chart two columns right of the data.
func chartAnchor(t Table) string {
	cell, _ := excelize.CoordinatesToCellName(len(t.Headers)+2, 1)
	return cell
}

// buildChart charts column A as categories against the last column.
func buildChart(t Table) *excelize.Chart {
	n := len(t.Rows)
	if t.ChartRows > 0 && t.ChartRows < n {
		n = t.ChartRows
	}
	valueCol, _ := excelize.ColumnNumberToName(len(t.Headers))

	chart := &excelize.Chart{
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$%s$1", t.Name, valueCol),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", t.Name, n+1),
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", t.Name, valueCol, valueCol, n+1),
		}},
		Title:     []excelize.RichTextRun{{Text: t.Title}},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: 720, Height: 420},
	}

	switch t.Chart {
	case ChartBar:
		chart.Type = excelize.Bar
	case ChartColumn:
		chart.Type = excelize.Col
	case ChartLine:
		chart.Type = excelize.Line
	case ChartPie:
		chart.Type = excelize.Pie
		chart.Legend = excelize.ChartLegend{Position: "right"}
		chart.PlotArea = excelize.ChartPlotArea{ShowPercent: true}
		return chart
	}

	// XAxis is the category axis even when bars are horizontal
	chart.XAxis = excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: t.XLabel}}}
	chart.YAxis = excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: t.YLabel}}}
	return chart
}
