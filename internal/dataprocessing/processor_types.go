package dataprocessing

import (
	"log/slog"

	"moviescope/internal/config"
	"moviescope/pkg/contracts/domain"
)

// Cleaning operation kinds
const (
	OpDropRow      = "drop_row"
	OpFillSentinel = "fill_sentinel"
	OpTruncate     = "truncate"
	OpDeduplicate  = "drop_duplicate"
)

// Cleaning reasons
const (
	ReasonMissingIMDbID    = "missing_imdb_id"
	ReasonMissingValue     = "missing_value"
	ReasonUnparseableValue = "unparseable_value"
	ReasonFractionalAmount = "fractional_adjusted_amount"
	ReasonDuplicateRow     = "duplicate_row"
)

// CleaningOperation records a single change made to the dataset, either by
// the loader under the drop policy or by one of the cleaning steps.
type CleaningOperation struct {
	RowIdentifier string // record id, or "line N" when the row never parsed
	ColumnName    string // column that was changed; empty for whole-row drops
	OriginalValue string
	NewValue      string
	Operation     string // e.g. "fill_sentinel"
	Reason        string // e.g. "missing_value"
}

// CleanOptions configures the cleaner
type CleanOptions struct {
	// Sentinel replaces missing text values
	Sentinel string

	// ParsePolicy is config.ParsePolicyFail or config.ParsePolicyDrop
	ParsePolicy string

	// DateLayouts are tried in order when parsing release dates
	DateLayouts []string
}

// DefaultCleanOptions returns default cleaning options
func DefaultCleanOptions() CleanOptions {
	return CleanOptions{
		Sentinel:    domain.NotAvailable,
		ParsePolicy: config.ParsePolicyFail,
		DateLayouts: []string{"1/2/06", "1/2/2006", domain.DateLayout},
	}
}

// CleanOptionsFrom maps the cleaning section of the application config.
func CleanOptionsFrom(cfg config.CleaningConfig) CleanOptions {
	opts := DefaultCleanOptions()
	if cfg.Sentinel != "" {
		opts.Sentinel = cfg.Sentinel
	}
	if cfg.ParseErrorPolicy != "" {
		opts.ParsePolicy = cfg.ParseErrorPolicy
	}
	if len(cfg.DateLayouts) > 0 {
		opts.DateLayouts = cfg.DateLayouts
	}
	return opts
}

// CleanStatistics counts what each cleaning step did
type CleanStatistics struct {
	InputRecords           int
	DroppedMissingIMDbID   int
	FilledValues           int
	DroppedUnparseableDate int
	TruncatedValues        int
	DroppedDuplicates      int
	OutputRecords          int
}

// CleanResult is the cleaned table plus its audit trail
type CleanResult struct {
	Table      domain.MovieTable
	Operations []CleaningOperation
	Stats      CleanStatistics
}

// LoadOptions configures the loader
type LoadOptions struct {
	// ParsePolicy is config.ParsePolicyFail or config.ParsePolicyDrop
	ParsePolicy string
	Logger      *slog.Logger
}

// LoadResult is the raw table read from a dataset file
type LoadResult struct {
	Table      domain.MovieTable
	RowsRead   int
	Operations []CleaningOperation
}

// Dropped returns the number of rows skipped under the drop policy
func (r *LoadResult) Dropped() int {
	return r.RowsRead - r.Table.Len()
}
