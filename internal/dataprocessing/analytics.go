package dataprocessing

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"moviescope/pkg/contracts/domain"
)

// Aggregator computes grouped statistics over a cleaned table. Every method
// is a pure function of the table and its arguments and returns a fresh value.
type Aggregator struct {
	table domain.MovieTable
}

// NewAggregator creates an aggregator over table
func NewAggregator(table domain.MovieTable) *Aggregator {
	return &Aggregator{table: table}
}

// CountByYear returns the number of records per release year.
func (a *Aggregator) CountByYear() map[int]int {
	counts := make(map[int]int)
	a.table.Each(func(_ int, r domain.MovieRecord) {
		counts[r.ReleaseYear]++
	})
	return counts
}

// TopYearsByCount returns the n years with the most releases. Ties are
// broken by year ascending.
func (a *Aggregator) TopYearsByCount(n int) []domain.YearCount {
	years := YearCounts(a.CountByYear())
	sort.SliceStable(years, func(i, j int) bool {
		if years[i].Count != years[j].Count {
			return years[i].Count > years[j].Count
		}
		return years[i].Year < years[j].Year
	})
	return head(years, n)
}

// BottomYearsByCount returns the n years with the fewest releases. Ties are
// broken by year ascending.
func (a *Aggregator) BottomYearsByCount(n int) []domain.YearCount {
	years := YearCounts(a.CountByYear())
	sort.SliceStable(years, func(i, j int) bool {
		if years[i].Count != years[j].Count {
			return years[i].Count < years[j].Count
		}
		return years[i].Year < years[j].Year
	})
	return head(years, n)
}

// CountByMonth returns the number of records per release month.
func (a *Aggregator) CountByMonth() map[time.Month]int {
	counts := make(map[time.Month]int)
	a.table.Each(func(_ int, r domain.MovieRecord) {
		if r.ReleaseDate.IsZero() {
			return
		}
		counts[r.ReleaseDate.Month()]++
	})
	return counts
}

// MeanVoteCountByYear returns the mean vote count per release year.
func (a *Aggregator) MeanVoteCountByYear() map[int]float64 {
	return a.meanByYear(func(r domain.MovieRecord) float64 { return float64(r.VoteCount) })
}

// MeanVoteAverageByYear returns the mean vote average per release year.
func (a *Aggregator) MeanVoteAverageByYear() map[int]float64 {
	return a.meanByYear(func(r domain.MovieRecord) float64 { return r.VoteAverage })
}

func (a *Aggregator) meanByYear(value func(domain.MovieRecord) float64) map[int]float64 {
	groups := make(map[int][]float64)
	a.table.Each(func(_ int, r domain.MovieRecord) {
		groups[r.ReleaseYear] = append(groups[r.ReleaseYear], value(r))
	})

	means := make(map[int]float64, len(groups))
	for year, values := range groups {
		means[year] = stat.Mean(values, nil)
	}
	return means
}

// ClassifyRating maps a vote average onto its rating category using the
// half-open bins in domain.RatingBinEdges.
func ClassifyRating(v float64) (domain.RatingCategory, error) {
	if math.IsNaN(v) {
		return "", ErrUnclassifiedRating
	}
	edges := domain.RatingBinEdges
	for i := 1; i < len(edges); i++ {
		if v > edges[i-1] && v <= edges[i] {
			return domain.RatingCategories[i-1], nil
		}
	}
	return "", ErrUnclassifiedRating
}

// RatingCategoryCounts counts records per rating category.
func (a *Aggregator) RatingCategoryCounts() domain.CategoryCounts {
	counts := domain.CategoryCounts{Counts: make(map[domain.RatingCategory]int, len(domain.RatingCategories))}
	for _, c := range domain.RatingCategories {
		counts.Counts[c] = 0
	}
	a.table.Each(func(_ int, r domain.MovieRecord) {
		category, err := ClassifyRating(r.VoteAverage)
		if err != nil {
			counts.Unclassified++
			return
		}
		counts.Counts[category]++
	})
	return counts
}

// CountByYearForCategory returns the number of records per release year
// whose rating falls in category.
func (a *Aggregator) CountByYearForCategory(category domain.RatingCategory) map[int]int {
	counts := make(map[int]int)
	a.table.Each(func(_ int, r domain.MovieRecord) {
		if c, err := ClassifyRating(r.VoteAverage); err == nil && c == category {
			counts[r.ReleaseYear]++
		}
	})
	return counts
}

// TopTitlesByRating returns the n titles with the highest vote average.
func (a *Aggregator) TopTitlesByRating(n int) []domain.TitleRating {
	titles := a.titleExtremes(math.Max)
	sort.SliceStable(titles, func(i, j int) bool {
		if titles[i].VoteAverage != titles[j].VoteAverage {
			return titles[i].VoteAverage > titles[j].VoteAverage
		}
		return titles[i].Title < titles[j].Title
	})
	return head(titles, n)
}

// BottomTitlesByRating returns the n titles with the lowest vote average.
func (a *Aggregator) BottomTitlesByRating(n int) []domain.TitleRating {
	titles := a.titleExtremes(math.Min)
	sort.SliceStable(titles, func(i, j int) bool {
		if titles[i].VoteAverage != titles[j].VoteAverage {
			return titles[i].VoteAverage < titles[j].VoteAverage
		}
		return titles[i].Title < titles[j].Title
	})
	return head(titles, n)
}

// titleExtremes groups records by title and reduces vote average and release
// year with pick, each independently.
func (a *Aggregator) titleExtremes(pick func(x, y float64) float64) []domain.TitleRating {
	byTitle := make(map[string]*domain.TitleRating)
	var order []string

	a.table.Each(func(_ int, r domain.MovieRecord) {
		title := r.Title()
		tr, ok := byTitle[title]
		if !ok {
			byTitle[title] = &domain.TitleRating{
				Title:       title,
				VoteAverage: r.VoteAverage,
				ReleaseYear: r.ReleaseYear,
			}
			order = append(order, title)
			return
		}
		tr.VoteAverage = pick(tr.VoteAverage, r.VoteAverage)
		tr.ReleaseYear = int(pick(float64(tr.ReleaseYear), float64(r.ReleaseYear)))
	})

	titles := make([]domain.TitleRating, 0, len(order))
	for _, title := range order {
		titles = append(titles, *byTitle[title])
	}
	return titles
}

// VoteAverageHistogram splits the observed vote average range into bins of
// equal width. When every value is equal the range is widened by 0.5 on
// each side.
func (a *Aggregator) VoteAverageHistogram(bins int) ([]domain.HistogramBin, error) {
	if bins <= 0 {
		return nil, fmt.Errorf("histogram needs at least one bin, got %d", bins)
	}
	if a.table.Len() == 0 {
		return []domain.HistogramBin{}, nil
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	a.table.Each(func(_ int, r domain.MovieRecord) {
		lo = math.Min(lo, r.VoteAverage)
		hi = math.Max(hi, r.VoteAverage)
	})
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	width := (hi - lo) / float64(bins)
	histogram := make([]domain.HistogramBin, bins)
	for i := range histogram {
		histogram[i].Lo = lo + float64(i)*width
		histogram[i].Hi = lo + float64(i+1)*width
	}
	histogram[bins-1].Hi = hi

	a.table.Each(func(_ int, r domain.MovieRecord) {
		i := int((r.VoteAverage - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		histogram[i].Count++
	})
	return histogram, nil
}

// MedianReleaseYear returns the median release year.
func (a *Aggregator) MedianReleaseYear() (float64, error) {
	n := a.table.Len()
	if n == 0 {
		return 0, fmt.Errorf("median of an empty table")
	}

	years := make([]float64, 0, n)
	a.table.Each(func(_ int, r domain.MovieRecord) {
		years = append(years, float64(r.ReleaseYear))
	})
	sort.Float64s(years)

	if n%2 == 1 {
		return years[n/2], nil
	}
	return (years[n/2-1] + years[n/2]) / 2, nil
}

// Summarize computes every aggregation rendered by the reporter.
func (a *Aggregator) Summarize(opts SummaryOptions) (*domain.MovieReport, error) {
	histogram, err := a.VoteAverageHistogram(opts.HistogramBins)
	if err != nil {
		return nil, err
	}

	report := &domain.MovieReport{
		TotalRecords:          a.table.Len(),
		CountByYear:           YearCounts(a.CountByYear()),
		TopYears:              a.TopYearsByCount(opts.TopYears),
		BottomYears:           a.BottomYearsByCount(opts.TopYears),
		CountByMonth:          MonthCounts(a.CountByMonth()),
		MeanVoteCountByYear:   YearMeans(a.MeanVoteCountByYear()),
		MeanVoteAverageByYear: YearMeans(a.MeanVoteAverageByYear()),
		RatingCounts:          a.RatingCategoryCounts(),
		ExcellentByYear:       YearCounts(a.CountByYearForCategory(domain.RatingExcellent)),
		PoorByYear:            YearCounts(a.CountByYearForCategory(domain.RatingPoor)),
		VoteHistogram:         histogram,
		TopTitles:             a.TopTitlesByRating(opts.TopTitles),
		BottomTitles:          a.BottomTitlesByRating(opts.TopTitles),
	}

	if a.table.Len() > 0 {
		report.MedianReleaseYear, err = a.MedianReleaseYear()
		if err != nil {
			return nil, err
		}
	}

	return report, nil
}

// YearCounts converts a year map into a slice ordered by year.
func YearCounts(m map[int]int) []domain.YearCount {
	years := make([]domain.YearCount, 0, len(m))
	for year, count := range m {
		years = append(years, domain.YearCount{Year: year, Count: count})
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	return years
}

// MonthCounts converts a month map into a slice ordered January to December.
func MonthCounts(m map[time.Month]int) []domain.MonthCount {
	months := make([]domain.MonthCount, 0, len(m))
	for month, count := range m {
		months = append(months, domain.MonthCount{Month: int(month), Count: count})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months
}

// YearMeans converts a year map into a slice ordered by year.
func YearMeans(m map[int]float64) []domain.YearMean {
	means := make([]domain.YearMean, 0, len(m))
	for year, mean := range m {
		means = append(means, domain.YearMean{Year: year, Mean: mean})
	}
	sort.Slice(means, func(i, j int) bool { return means[i].Year < means[j].Year })
	return means
}

// head returns the first n elements of s, clamped to its length.
func head[T any](s []T, n int) []T {
	n = max(0, min(n, len(s)))
	return s[:n]
}
