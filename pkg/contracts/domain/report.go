package domain

import (
	"time"
)

// MovieReport bundles every aggregation rendered for one run. Slices are
// in presentation order.
type MovieReport struct {
	GeneratedAt  time.Time `json:"generated_at"`
	SourceFile   string    `json:"source_file"`
	TotalRecords int       `json:"total_records"`

	RawProfile     DatasetProfile `json:"raw_profile"`
	CleanedProfile DatasetProfile `json:"cleaned_profile"`

	CountByYear           []YearCount  `json:"count_by_year"`
	TopYears              []YearCount  `json:"top_years"`
	BottomYears           []YearCount  `json:"bottom_years"`
	CountByMonth          []MonthCount `json:"count_by_month"`
	MeanVoteCountByYear   []YearMean   `json:"mean_vote_count_by_year"`
	MeanVoteAverageByYear []YearMean   `json:"mean_vote_average_by_year"`

	RatingCounts    CategoryCounts `json:"rating_counts"`
	ExcellentByYear []YearCount    `json:"excellent_by_year"`
	PoorByYear      []YearCount    `json:"poor_by_year"`
	VoteHistogram   []HistogramBin `json:"vote_histogram"`

	TopTitles    []TitleRating `json:"top_titles"`
	BottomTitles []TitleRating `json:"bottom_titles"`

	MedianReleaseYear float64 `json:"median_release_year"`
}

// DatasetProfile describes the shape and completeness of a table.
type DatasetProfile struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`

	// Per column, in MovieColumns order
	Missing map[string]int `json:"missing"`
	Unique  map[string]int `json:"unique"`

	ZeroBudget     int `json:"zero_budget"`
	ZeroRevenue    int `json:"zero_revenue"`
	ZeroBudgetAdj  int `json:"zero_budget_adj"`
	ZeroRevenueAdj int `json:"zero_revenue_adj"`

	Duplicates int `json:"duplicates"`
}

// ReportFormat names an artifact kind written by the reporter
type ReportFormat string

const (
	ReportFormatExcel   ReportFormat = "xlsx"
	ReportFormatCSV     ReportFormat = "csv"
	ReportFormatText    ReportFormat = "text"
	ReportFormatDataset ReportFormat = "dataset"
	ReportFormatLog     ReportFormat = "cleaning_log"
)
