package exporter

import (
	"fmt"
	"strconv"
	"time"

	"moviescope/pkg/contracts/domain"
)

// ChartKind selects the native chart drawn next to a workbook sheet
type ChartKind int

const (
	ChartNone ChartKind = iota
	ChartBar            // horizontal bars
	ChartColumn
	ChartLine
	ChartPie
)

// Table is one aggregation laid out for rendering. Cells hold native values
// (int, float64 or string) so that workbook charts see numbers.
type Table struct {
	Name    string // file and sheet base name
	Title   string
	XLabel  string
	YLabel  string
	Chart   ChartKind
	Headers []string
	Rows    [][]interface{}

	// ChartRows limits the charted rows to the first n; 0 charts all of them
	ChartRows int
}

// AggregateTables lays out every aggregation of report in presentation order.
func AggregateTables(report *domain.MovieReport) []Table {
	return []Table{
		yearCountTable("count_by_year", "Movies Released per Year", ChartColumn, report.CountByYear),
		yearCountTable("top_years", "Years with Highest Number of Released Movies", ChartBar, report.TopYears),
		yearCountTable("bottom_years", "Years with Lowest Number of Released Movies", ChartBar, report.BottomYears),
		monthTable(report.CountByMonth),
		yearMeanTable("mean_vote_count_by_year", "Average of Vote Count over the years", "Number of Votes", report.MeanVoteCountByYear),
		yearMeanTable("mean_vote_average_by_year", "Average of User Ratings over the years", "Average User Ratings", report.MeanVoteAverageByYear),
		histogramTable(report.VoteHistogram),
		ratingTable(report.RatingCounts),
		yearCountTable("excellent_by_year", "Best User Ratings", ChartColumn, report.ExcellentByYear),
		yearCountTable("poor_by_year", "Worst User Ratings", ChartColumn, report.PoorByYear),
		titleTable("top_titles", "Top Rated Titles", report.TopTitles),
		titleTable("bottom_titles", "Lowest Rated Titles", report.BottomTitles),
	}
}

func yearCountTable(name, title string, chart ChartKind, counts []domain.YearCount) Table {
	t := Table{
		Name:    name,
		Title:   title,
		XLabel:  "Release year",
		YLabel:  "Number of released movies",
		Chart:   chart,
		Headers: []string{"release_year", "count"},
	}
	for _, c := range counts {
		t.Rows = append(t.Rows, []interface{}{c.Year, c.Count})
	}
	return t
}

func monthTable(counts []domain.MonthCount) Table {
	t := Table{
		Name:    "count_by_month",
		Title:   "Movies Released Each Month",
		XLabel:  "Month",
		YLabel:  "Number of released movies",
		Chart:   ChartColumn,
		Headers: []string{"month", "count"},
	}
	for _, c := range counts {
		t.Rows = append(t.Rows, []interface{}{time.Month(c.Month).String(), c.Count})
	}
	return t
}

func yearMeanTable(name, title, yLabel string, means []domain.YearMean) Table {
	t := Table{
		Name:    name,
		Title:   title,
		XLabel:  "Release Year",
		YLabel:  yLabel,
		Chart:   ChartLine,
		Headers: []string{"release_year", "mean"},
	}
	for _, m := range means {
		t.Rows = append(t.Rows, []interface{}{m.Year, m.Mean})
	}
	return t
}

func histogramTable(bins []domain.HistogramBin) Table {
	t := Table{
		Name:    "vote_histogram",
		Title:   "Distributions of User Ratings",
		XLabel:  "Vote Average",
		YLabel:  "Movie Count",
		Chart:   ChartColumn,
		Headers: []string{"bin", "lo", "hi", "count"},
	}
	for _, b := range bins {
		label := fmt.Sprintf("%s-%s", formatFloat(b.Lo), formatFloat(b.Hi))
		t.Rows = append(t.Rows, []interface{}{label, b.Lo, b.Hi, b.Count})
	}
	return t
}

func ratingTable(counts domain.CategoryCounts) Table {
	t := Table{
		Name:      "rating_categories",
		Title:     "User Rating Category",
		Chart:     ChartPie,
		Headers:   []string{"category", "count"},
		ChartRows: len(domain.RatingCategories),
	}
	for _, c := range domain.RatingCategories {
		t.Rows = append(t.Rows, []interface{}{string(c), counts.Counts[c]})
	}
	t.Rows = append(t.Rows, []interface{}{"unclassified", counts.Unclassified})
	return t
}

func titleTable(name, title string, titles []domain.TitleRating) Table {
	t := Table{
		Name:    name,
		Title:   title,
		Headers: []string{"original_title", "vote_average", "release_year"},
	}
	for _, tr := range titles {
		t.Rows = append(t.Rows, []interface{}{tr.Title, tr.VoteAverage, tr.ReleaseYear})
	}
	return t
}

// StringRows formats every cell exactly, for CSV output.
func (t Table) StringRows() [][]string {
	rows := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = formatCell(cell, formatExact)
		}
	}
	return rows
}

func formatCell(v interface{}, floatFormat func(float64) string) string {
	switch x := v.(type) {
	case float64:
		return floatFormat(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return formatInt(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// formatFloat formats a float64 value for display with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatExact formats a float64 with the fewest digits that round-trip
func formatExact(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// formatPercent formats part/whole as a percentage with one decimal
func formatPercent(part, whole int) string {
	if whole == 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(part)/float64(whole))
}
