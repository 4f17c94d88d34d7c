package exporter

import (
	"fmt"
	"time"

	"moviescope/pkg/contracts/domain"
)

// Conclusions derives the narrative findings of report. Findings whose
// inputs are empty are left out.
func Conclusions(report *domain.MovieReport) []string {
	var out []string

	if n := len(report.CountByYear); n > 0 {
		first, last := report.CountByYear[0], report.CountByYear[n-1]
		out = append(out, fmt.Sprintf("Movie releases %s from %d in %d to %d in %d.",
			trend(float64(first.Count), float64(last.Count)), first.Count, first.Year, last.Count, last.Year))
	}
	if len(report.TopYears) > 0 && len(report.BottomYears) > 0 {
		top, bottom := report.TopYears[0], report.BottomYears[0]
		out = append(out, fmt.Sprintf("%d had the most releases (%d) and %d the fewest (%d).",
			top.Year, top.Count, bottom.Year, bottom.Count))
	}
	if busiest, ok := busiestMonth(report.CountByMonth); ok {
		out = append(out, fmt.Sprintf("%s is the busiest release month with %d movies.",
			time.Month(busiest.Month), busiest.Count))
	}
	if first, last, ok := endpoints(report.MeanVoteCountByYear); ok {
		out = append(out, fmt.Sprintf("The average vote count %s from %s in %d to %s in %d.",
			trend(first.Mean, last.Mean), formatFloat(first.Mean), first.Year, formatFloat(last.Mean), last.Year))
	}
	if first, last, ok := endpoints(report.MeanVoteAverageByYear); ok {
		out = append(out, fmt.Sprintf("The average user rating %s from %s in %d to %s in %d.",
			trend(first.Mean, last.Mean), formatFloat(first.Mean), first.Year, formatFloat(last.Mean), last.Year))
	}
	if category, n, ok := dominantCategory(report.RatingCounts); ok {
		out = append(out, fmt.Sprintf("Most movies are rated %q (%s of classified ratings).",
			category, formatPercent(n, report.RatingCounts.Total())))
	}
	if best, ok := maxYear(report.ExcellentByYear); ok {
		out = append(out, fmt.Sprintf("%d produced the most excellent-rated movies (%d).", best.Year, best.Count))
	}
	if worst, ok := maxYear(report.PoorByYear); ok {
		out = append(out, fmt.Sprintf("%d produced the most poorly rated movies (%d).", worst.Year, worst.Count))
	}
	if p := report.CleanedProfile; p.Rows > 0 {
		out = append(out, fmt.Sprintf(
			"Limitation: only %s of movies have a non-zero budget and %s a non-zero revenue, so money figures were not analysed.",
			formatPercent(p.Rows-p.ZeroBudget, p.Rows), formatPercent(p.Rows-p.ZeroRevenue, p.Rows)))
	}

	return out
}

func trend(from, to float64) string {
	switch {
	case to > from:
		return "increased"
	case to < from:
		return "decreased"
	default:
		return "stayed flat"
	}
}

func busiestMonth(counts []domain.MonthCount) (domain.MonthCount, bool) {
	if len(counts) == 0 {
		return domain.MonthCount{}, false
	}
	best := counts[0]
	for _, c := range counts[1:] {
		if c.Count > best.Count {
			best = c
		}
	}
	return best, true
}

func endpoints(means []domain.YearMean) (domain.YearMean, domain.YearMean, bool) {
	if len(means) < 2 {
		return domain.YearMean{}, domain.YearMean{}, false
	}
	return means[0], means[len(means)-1], true
}

func dominantCategory(counts domain.CategoryCounts) (domain.RatingCategory, int, bool) {
	var (
		best domain.RatingCategory
		n    int
	)
	for _, c := range domain.RatingCategories {
		if counts.Counts[c] > n {
			best, n = c, counts.Counts[c]
		}
	}
	return best, n, n > 0
}

// maxYear returns the year with the highest count; the earliest wins ties.
func maxYear(counts []domain.YearCount) (domain.YearCount, bool) {
	if len(counts) == 0 {
		return domain.YearCount{}, false
	}
	best := counts[0]
	for _, c := range counts[1:] {
		if c.Count > best.Count || (c.Count == best.Count && c.Year < best.Year) {
			best = c
		}
	}
	return best, true
}
