package dataprocessing

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"moviescope/internal/config"
	apperrors "moviescope/internal/errors"
	"moviescope/pkg/contracts/domain"
)

// Cleaner applies the fixed cleaning sequence to a raw movie table:
// drop rows without an IMDb id, fill missing text, parse release dates,
// truncate inflation-adjusted amounts, then drop full-row duplicates.
//
// Clean is idempotent; cleaning its own output changes nothing.
type Cleaner struct {
	opts   CleanOptions
	logger *slog.Logger
}

// NewCleaner creates a cleaner. Zero-valued options fall back to defaults.
func NewCleaner(opts CleanOptions, logger *slog.Logger) *Cleaner {
	defaults := DefaultCleanOptions()
	if opts.Sentinel == "" {
		opts.Sentinel = defaults.Sentinel
	}
	if opts.ParsePolicy == "" {
		opts.ParsePolicy = defaults.ParsePolicy
	}
	if len(opts.DateLayouts) == 0 {
		opts.DateLayouts = defaults.DateLayouts
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		opts:   opts,
		logger: logger.With(slog.String("component", "cleaner")),
	}
}

// Clean returns a new cleaned table; the input is not modified.
func (c *Cleaner) Clean(table domain.MovieTable) (*CleanResult, error) {
	result := &CleanResult{}
	result.Stats.InputRecords = table.Len()

	records := table.Records()

	records = c.dropMissingIMDbID(records, result)
	records = c.fillMissingText(records, result)

	records, err := c.parseReleaseDates(records, result)
	if err != nil {
		return nil, err
	}

	records = c.truncateAdjusted(records, result)
	records = c.dropDuplicates(records, result)

	result.Stats.OutputRecords = len(records)
	result.Table = domain.NewMovieTable(records)

	c.logger.Info("Cleaning complete",
		slog.Int("input_records", result.Stats.InputRecords),
		slog.Int("dropped_missing_imdb_id", result.Stats.DroppedMissingIMDbID),
		slog.Int("filled_values", result.Stats.FilledValues),
		slog.Int("dropped_unparseable_date", result.Stats.DroppedUnparseableDate),
		slog.Int("truncated_values", result.Stats.TruncatedValues),
		slog.Int("dropped_duplicates", result.Stats.DroppedDuplicates),
		slog.Int("output_records", result.Stats.OutputRecords))

	return result, nil
}

func (c *Cleaner) dropMissingIMDbID(records []domain.MovieRecord, result *CleanResult) []domain.MovieRecord {
	kept := records[:0]
	for _, r := range records {
		if r.IMDbID.Valid && strings.TrimSpace(r.IMDbID.String) != "" {
			kept = append(kept, r)
			continue
		}
		result.Stats.DroppedMissingIMDbID++
		result.Operations = append(result.Operations, CleaningOperation{
			RowIdentifier: rowID(r),
			ColumnName:    domain.ColIMDbID,
			OriginalValue: r.IMDbID.String,
			Operation:     OpDropRow,
			Reason:        ReasonMissingIMDbID,
		})
	}
	c.logger.Debug("Dropped records without imdb_id", slog.Int("dropped", result.Stats.DroppedMissingIMDbID))
	return kept
}

func (c *Cleaner) fillMissingText(records []domain.MovieRecord, result *CleanResult) []domain.MovieRecord {
	for i := range records {
		for _, field := range records[i].TextFields() {
			if field.Value.Valid && field.Value.String != "" {
				continue
			}
			field.Value.String = c.opts.Sentinel
			field.Value.Valid = true

			result.Stats.FilledValues++
			result.Operations = append(result.Operations, CleaningOperation{
				RowIdentifier: rowID(records[i]),
				ColumnName:    field.Column,
				NewValue:      c.opts.Sentinel,
				Operation:     OpFillSentinel,
				Reason:        ReasonMissingValue,
			})
		}
	}
	return records
}

func (c *Cleaner) parseReleaseDates(records []domain.MovieRecord, result *CleanResult) ([]domain.MovieRecord, error) {
	kept := records[:0]
	for _, r := range records {
		date, err := ParseReleaseDate(r.ReleaseDateRaw.String, r.ReleaseYear, c.opts.DateLayouts)
		if err == nil {
			r.ReleaseDate = date
			kept = append(kept, r)
			continue
		}

		if c.opts.ParsePolicy != config.ParsePolicyDrop {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("record %s: column %s: cannot parse %q", rowID(r), domain.ColReleaseDate, r.ReleaseDateRaw.String), err).
				WithContext("id", r.ID).
				WithContext("column", domain.ColReleaseDate).
				WithContext("value", r.ReleaseDateRaw.String)
		}

		c.logger.Warn("Dropping record with unparseable release date",
			slog.Int64("id", r.ID),
			slog.String("value", r.ReleaseDateRaw.String))

		result.Stats.DroppedUnparseableDate++
		result.Operations = append(result.Operations, CleaningOperation{
			RowIdentifier: rowID(r),
			ColumnName:    domain.ColReleaseDate,
			OriginalValue: r.ReleaseDateRaw.String,
			Operation:     OpDropRow,
			Reason:        ReasonUnparseableValue,
		})
	}
	return kept, nil
}

func (c *Cleaner) truncateAdjusted(records []domain.MovieRecord, result *CleanResult) []domain.MovieRecord {
	for i := range records {
		r := &records[i]
		for _, f := range []struct {
			column string
			value  *float64
		}{
			{domain.ColBudgetAdj, &r.BudgetAdj},
			{domain.ColRevenueAdj, &r.RevenueAdj},
		} {
			truncated := math.Trunc(*f.value)
			if truncated == *f.value {
				continue
			}
			result.Stats.TruncatedValues++
			result.Operations = append(result.Operations, CleaningOperation{
				RowIdentifier: rowID(*r),
				ColumnName:    f.column,
				OriginalValue: strconv.FormatFloat(*f.value, 'f', -1, 64),
				NewValue:      strconv.FormatFloat(truncated, 'f', -1, 64),
				Operation:     OpTruncate,
				Reason:        ReasonFractionalAmount,
			})
			*f.value = truncated
		}
	}
	return records
}

func (c *Cleaner) dropDuplicates(records []domain.MovieRecord, result *CleanResult) []domain.MovieRecord {
	seen := make(map[string]bool, len(records))
	kept := records[:0]
	for _, r := range records {
		key := r.Key()
		if seen[key] {
			result.Stats.DroppedDuplicates++
			result.Operations = append(result.Operations, CleaningOperation{
				RowIdentifier: rowID(r),
				Operation:     OpDeduplicate,
				Reason:        ReasonDuplicateRow,
			})
			continue
		}
		seen[key] = true
		kept = append(kept, r)
	}
	return kept
}

// ParseReleaseDate parses raw with the first matching layout. When a
// two-digit-year layout lands in a different century than releaseYear, the
// date is moved into releaseYear's century.
func ParseReleaseDate(raw string, releaseYear int, layouts []string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range layouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if isTwoDigitYear(layout) && releaseYear > 0 {
			if diff := releaseYear - t.Year(); diff != 0 && diff%100 == 0 {
				t = time.Date(t.Year()+diff, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			}
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("no layout of %v matches %q", layouts, raw)
}

func isTwoDigitYear(layout string) bool {
	return strings.Contains(layout, "06") && !strings.Contains(layout, "2006")
}

func rowID(r domain.MovieRecord) string {
	return strconv.FormatInt(r.ID, 10)
}
