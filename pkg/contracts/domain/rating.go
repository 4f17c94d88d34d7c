package domain

// RatingCategory classifies a vote average into one of four bands.
type RatingCategory string

const (
	RatingPoor      RatingCategory = "poor"
	RatingAverage   RatingCategory = "average"
	RatingGood      RatingCategory = "good"
	RatingExcellent RatingCategory = "excellent"
)

// RatingBinEdges are the half-open (lo, hi] cut points between categories.
var RatingBinEdges = []float64{0, 2.4, 4.9, 7.4, 9.2}

// RatingCategories lists categories in ascending order, aligned with RatingBinEdges.
var RatingCategories = []RatingCategory{RatingPoor, RatingAverage, RatingGood, RatingExcellent}

// YearCount is the number of records released in a year.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// MonthCount is the number of records released in a calendar month (1-12).
type MonthCount struct {
	Month int `json:"month"`
	Count int `json:"count"`
}

// YearMean is an arithmetic mean over the records of one year.
type YearMean struct {
	Year int     `json:"year"`
	Mean float64 `json:"mean"`
}

// TitleRating is the per-title extremal vote average used for rankings.
// ReleaseYear is reduced with the same extremum as VoteAverage, independently.
type TitleRating struct {
	Title       string  `json:"title"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseYear int     `json:"release_year"`
}

// CategoryCounts holds the number of records per rating category, plus
// those whose vote average falls outside every bin.
type CategoryCounts struct {
	Counts       map[RatingCategory]int `json:"counts"`
	Unclassified int                    `json:"unclassified"`
}

// Total returns the number of classified records.
func (c CategoryCounts) Total() int {
	n := 0
	for _, v := range c.Counts {
		n += v
	}
	return n
}

// HistogramBin is one equal-width bucket of a histogram; Hi is inclusive
// only for the last bin.
type HistogramBin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}
