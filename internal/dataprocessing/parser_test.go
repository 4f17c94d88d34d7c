package dataprocessing

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviescope/internal/config"
	apperrors "moviescope/internal/errors"
	"moviescope/pkg/contracts/domain"
)

func TestLoadCSV(t *testing.T) {
	data := csvData(t, domain.MovieColumns,
		movieRow(nil),
		movieRow(map[string]string{
			domain.ColID:       "2",
			domain.ColHomepage: "",
			domain.ColTagline:  "",
		}),
	)

	result, err := NewLoader(LoadOptions{}).LoadCSV(data)
	require.NoError(t, err)
	require.Equal(t, 2, result.Table.Len())
	assert.Equal(t, 2, result.RowsRead)
	assert.Zero(t, result.Dropped())
	assert.Empty(t, result.Operations)

	r := result.Table.At(0)
	assert.Equal(t, int64(135397), r.ID)
	assert.Equal(t, text("tt0369610"), r.IMDbID)
	assert.InDelta(t, 32.985763, r.Popularity, 1e-9)
	assert.Equal(t, int64(150000000), r.Budget)
	assert.Equal(t, int64(1513528810), r.Revenue)
	assert.Equal(t, "Jurassic World", r.Title())
	assert.Equal(t, 124, r.Runtime)
	assert.Equal(t, text("6/9/15"), r.ReleaseDateRaw)
	assert.True(t, r.ReleaseDate.IsZero(), "dates are parsed by the cleaner")
	assert.Equal(t, int64(5562), r.VoteCount)
	assert.Equal(t, 6.5, r.VoteAverage)
	assert.Equal(t, 2015, r.ReleaseYear)
	assert.Equal(t, 137999939.3, r.BudgetAdj)

	second := result.Table.At(1)
	assert.False(t, second.Homepage.Valid, "empty text cell is missing")
	assert.False(t, second.Tagline.Valid)
	assert.True(t, second.Cast.Valid)
}

func TestLoadCSV_HeaderOrderAndBOM(t *testing.T) {
	header := make([]string, len(domain.MovieColumns))
	copy(header, domain.MovieColumns)
	// Reverse the columns; values follow their header
	for i, j := 0, len(header)-1; i < j; i, j = i+1, j-1 {
		header[i], header[j] = header[j], header[i]
	}
	row := make([]string, len(header))
	for i, c := range header {
		row[i] = baseRow[c]
	}
	header[0] = "\ufeff" + header[0]

	result, err := NewLoader(LoadOptions{}).LoadCSV(csvData(t, header, row))
	require.NoError(t, err)
	require.Equal(t, 1, result.Table.Len())
	assert.Equal(t, 1392445893.0, result.Table.At(0).RevenueAdj)
	assert.Equal(t, int64(135397), result.Table.At(0).ID)
}

func TestLoadCSV_HeaderErrors(t *testing.T) {
	withExtra := append(append([]string{}, domain.MovieColumns...), "extra")
	withDup := append(append([]string{}, domain.MovieColumns[:20]...), domain.ColID)

	tests := []struct {
		name   string
		header []string
		want   string
	}{
		{"missing column", domain.MovieColumns[:20], "missing columns: revenue_adj"},
		{"extra column", withExtra, `unexpected column "extra"`},
		{"duplicate column", withDup, `duplicate column "id"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(LoadOptions{}).LoadCSV(csvData(t, tt.header))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, apperrors.IsType(err, apperrors.ErrTypeLoad))
		})
	}
}

func TestLoadCSV_Empty(t *testing.T) {
	_, err := NewLoader(LoadOptions{}).LoadCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeLoad))
}

func TestLoadCSV_RaggedRow(t *testing.T) {
	short := movieRow(nil)[:20]
	data := csvData(t, domain.MovieColumns, movieRow(nil), short)

	_, err := NewLoader(LoadOptions{ParsePolicy: config.ParsePolicyDrop}).LoadCSV(data)
	require.Error(t, err, "ragged rows fail the load under every policy")
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeLoad))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 3, appErr.Context["line"])
}

func TestLoadCSV_ParsePolicy(t *testing.T) {
	rows := [][]string{
		movieRow(nil),
		movieRow(map[string]string{domain.ColID: "2", domain.ColBudget: "lots"}),
		movieRow(map[string]string{domain.ColID: "3", domain.ColVoteCount: ""}),
		movieRow(map[string]string{domain.ColID: "4"}),
	}

	t.Run("fail", func(t *testing.T) {
		_, err := NewLoader(LoadOptions{ParsePolicy: config.ParsePolicyFail}).
			LoadCSV(csvData(t, domain.MovieColumns, rows...))
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, 3, appErr.Context["line"])
		assert.Equal(t, domain.ColBudget, appErr.Context["column"])
		assert.Equal(t, "lots", appErr.Context["value"])
	})

	t.Run("drop", func(t *testing.T) {
		result, err := NewLoader(LoadOptions{ParsePolicy: config.ParsePolicyDrop}).
			LoadCSV(csvData(t, domain.MovieColumns, rows...))
		require.NoError(t, err)

		assert.Equal(t, 4, result.RowsRead)
		assert.Equal(t, 2, result.Table.Len())
		assert.Equal(t, 2, result.Dropped())
		require.Len(t, result.Operations, 2)
		assert.Equal(t, CleaningOperation{
			RowIdentifier: "line 3",
			ColumnName:    domain.ColBudget,
			OriginalValue: "lots",
			Operation:     OpDropRow,
			Reason:        ReasonUnparseableValue,
		}, result.Operations[0])
		assert.Equal(t, domain.ColVoteCount, result.Operations[1].ColumnName)
	})
}

func TestLoadCSV_NumericForms(t *testing.T) {
	tests := []struct {
		name    string
		column  string
		value   string
		wantErr bool
	}{
		{"integral float for int column", domain.ColBudget, "1.5E+08", false},
		{"fractional float for int column", domain.ColRuntime, "90.5", true},
		{"NaN rejected", domain.ColVoteAverage, "NaN", true},
		{"infinity rejected", domain.ColPopularity, "Inf", true},
		{"surrounding spaces", domain.ColVoteCount, " 12 ", false},
		{"int64 overflow", domain.ColVoteCount, "9223372036854775808", true},
		{"int64 overflow in exponent form", domain.ColBudget, "1E+19", true},
		{"int64 underflow", domain.ColRevenue, "-9223372036854775809", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := csvData(t, domain.MovieColumns, movieRow(map[string]string{tt.column: tt.value}))
			_, err := NewLoader(LoadOptions{}).LoadCSV(data)
			if tt.wantErr {
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("csv", func(t *testing.T) {
		path := filepath.Join(dir, "tmdb-movies.csv")
		require.NoError(t, os.WriteFile(path, csvData(t, domain.MovieColumns, movieRow(nil)).Bytes(), 0644))

		result, err := NewLoader(LoadOptions{}).LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Table.Len())
	})

	t.Run("xlsx", func(t *testing.T) {
		path := writeWorkbook(t, domain.MovieColumns,
			movieRow(nil),
			movieRow(map[string]string{domain.ColID: "2", domain.ColRevenueAdj: "0"}),
		)

		result, err := NewLoader(LoadOptions{}).LoadFile(path)
		require.NoError(t, err)
		require.Equal(t, 2, result.Table.Len())
		assert.Equal(t, int64(2), result.Table.At(1).ID)
		assert.Equal(t, "Jurassic World", result.Table.At(1).Title())
	})

	t.Run("xlsx with missing trailing text", func(t *testing.T) {
		// The workbook reader omits trailing empty cells
		header := append([]string{}, domain.MovieColumns...)
		header[15], header[20] = header[20], header[15] // release_date last
		row := make([]string, len(header))
		for i, c := range header {
			row[i] = baseRow[c]
		}
		row[20] = ""

		result, err := NewLoader(LoadOptions{}).LoadXLSX(writeWorkbook(t, header, row))
		require.NoError(t, err)
		require.Equal(t, 1, result.Table.Len())
		assert.False(t, result.Table.At(0).ReleaseDateRaw.Valid)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader(LoadOptions{}).LoadFile(filepath.Join(dir, "absent.csv"))
		assert.True(t, apperrors.IsType(err, apperrors.ErrTypeLoad))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := NewLoader(LoadOptions{}).LoadFile(filepath.Join(dir, "movies.parquet"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported dataset format")
	})
}
