package dataprocessing

import (
	"errors"

	"moviescope/internal/config"
)

// ErrUnclassifiedRating is returned for vote averages outside every rating bin.
var ErrUnclassifiedRating = errors.New("vote average outside rating bins")

// SummaryOptions configures the sizes of ranked aggregations
type SummaryOptions struct {
	TopYears      int
	TopTitles     int
	HistogramBins int
}

// DefaultSummaryOptions returns default summary options
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{
		TopYears:      config.DefaultTopYears,
		TopTitles:     config.DefaultTopTitles,
		HistogramBins: config.DefaultHistogramBins,
	}
}

// SummaryOptionsFrom maps the report section of the application config.
func SummaryOptionsFrom(cfg config.ReportConfig) SummaryOptions {
	opts := DefaultSummaryOptions()
	if cfg.TopYears > 0 {
		opts.TopYears = cfg.TopYears
	}
	if cfg.TopTitles > 0 {
		opts.TopTitles = cfg.TopTitles
	}
	if cfg.HistogramBins > 0 {
		opts.HistogramBins = cfg.HistogramBins
	}
	return opts
}
