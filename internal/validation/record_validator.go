package validation

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "moviescope/internal/errors"
	"moviescope/pkg/contracts/domain"
)

// maxReportedViolations caps how many field errors are listed in one error.
const maxReportedViolations = 10

// RecordValidator checks that a cleaned table satisfies the guarantees the
// cleaner promises to later stages.
type RecordValidator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewRecordValidator creates a validator for cleaned movie records
func NewRecordValidator(logger *slog.Logger) *RecordValidator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New(validator.WithRequiredStructEnabled())

	// Nullable text validates as its string when present, as nil otherwise
	v.RegisterCustomTypeFunc(nullStringValue, sql.NullString{})
	v.RegisterValidation("whole", isWholeNumber)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &RecordValidator{
		validate: v,
		logger:   logger.With(slog.String("component", "record_validator")),
	}
}

// ValidateRecord checks one record against its struct tags.
func (v *RecordValidator) ValidateRecord(r domain.MovieRecord) error {
	return v.validate.Struct(r)
}

// ValidateTable checks every record and the table-level uniqueness guarantee.
// Any violation is returned as an INVARIANT error.
func (v *RecordValidator) ValidateTable(table domain.MovieTable) error {
	var violations []string
	seen := make(map[string]int, table.Len())

	table.Each(func(i int, r domain.MovieRecord) {
		if err := v.ValidateRecord(r); err != nil {
			fieldErrs, ok := err.(validator.ValidationErrors)
			if !ok {
				violations = append(violations, fmt.Sprintf("row %d: %v", i, err))
				return
			}
			for _, fe := range fieldErrs {
				violations = append(violations, fmt.Sprintf("row %d: %s", i, formatFieldError(fe)))
			}
		}

		key := r.Key()
		if first, dup := seen[key]; dup {
			violations = append(violations, fmt.Sprintf("row %d: duplicates row %d", i, first))
			return
		}
		seen[key] = i
	})

	if len(violations) == 0 {
		v.logger.Debug("Cleaned table validated", slog.Int("records", table.Len()))
		return nil
	}

	v.logger.Error("Cleaned table violates invariants",
		slog.Int("violations", len(violations)),
		slog.String("first", violations[0]))

	shown := violations
	if len(shown) > maxReportedViolations {
		shown = shown[:maxReportedViolations]
	}
	return apperrors.NewInvariantError(strings.Join(shown, "; ")).
		WithContext("violations", len(violations))
}

// formatFieldError formats validation error messages
func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "whole":
		return fmt.Sprintf("%s must be a whole number, got %v", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func nullStringValue(field reflect.Value) interface{} {
	if valuer, ok := field.Interface().(driver.Valuer); ok {
		val, err := valuer.Value()
		if err == nil {
			return val
		}
	}
	return nil
}

// isWholeNumber accepts floats with no fractional part
func isWholeNumber(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0) && math.Trunc(f) == f
}
