package dataprocessing

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"moviescope/pkg/contracts/domain"
)

// baseRow holds a valid value for every column of the export.
var baseRow = map[string]string{
	domain.ColID:                  "135397",
	domain.ColIMDbID:              "tt0369610",
	domain.ColPopularity:          "32.985763",
	domain.ColBudget:              "150000000",
	domain.ColRevenue:             "1513528810",
	domain.ColOriginalTitle:       "Jurassic World",
	domain.ColCast:                "Chris Pratt|Bryce Dallas Howard",
	domain.ColHomepage:            "http://www.jurassicworld.com/",
	domain.ColDirector:            "Colin Trevorrow",
	domain.ColTagline:             "The park is open.",
	domain.ColKeywords:            "monster|dna|tyrannosaurus rex",
	domain.ColOverview:            "Twenty-two years after the events of Jurassic Park.",
	domain.ColRuntime:             "124",
	domain.ColGenres:              "Action|Adventure|Science Fiction|Thriller",
	domain.ColProductionCompanies: "Universal Studios|Amblin Entertainment",
	domain.ColReleaseDate:         "6/9/15",
	domain.ColVoteCount:           "5562",
	domain.ColVoteAverage:         "6.5",
	domain.ColReleaseYear:         "2015",
	domain.ColBudgetAdj:           "137999939.3",
	domain.ColRevenueAdj:          "1392445893",
}

// movieRow returns baseRow in MovieColumns order with overrides applied.
func movieRow(overrides map[string]string) []string {
	row := make([]string, len(domain.MovieColumns))
	for i, c := range domain.MovieColumns {
		row[i] = baseRow[c]
		if v, ok := overrides[c]; ok {
			row[i] = v
		}
	}
	return row
}

func csvData(t *testing.T, header []string, rows ...[]string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(header))
	for _, row := range rows {
		require.NoError(t, w.Write(row))
	}
	w.Flush()
	require.NoError(t, w.Error())
	return &buf
}

func writeWorkbook(t *testing.T, header []string, rows ...[]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	writeRow := func(n int, values []string) {
		cells := make([]interface{}, len(values))
		for i, v := range values {
			cells[i] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, n)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &cells))
	}

	writeRow(1, header)
	for i, row := range rows {
		writeRow(i+2, row)
	}

	path := filepath.Join(t.TempDir(), "movies.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func text(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// rawRecord builds a loader-shaped record with every text value present.
func rawRecord(id int64, imdb string, year int, voteCount int64, voteAverage float64) domain.MovieRecord {
	return domain.MovieRecord{
		ID:                  id,
		IMDbID:              text(imdb),
		Popularity:          1,
		OriginalTitle:       text("Title " + imdb),
		Cast:                text("Cast"),
		Homepage:            text("http://example.com"),
		Director:            text("Director"),
		Tagline:             text("Tagline"),
		Keywords:            text("keyword"),
		Overview:            text("Overview"),
		Runtime:             90,
		Genres:              text("Drama"),
		ProductionCompanies: text("Studio"),
		ReleaseDateRaw:      text(time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC).Format("1/2/2006")),
		VoteCount:           voteCount,
		VoteAverage:         voteAverage,
		ReleaseYear:         year,
	}
}

// cleanTable runs the default cleaner and fails the test on error.
func cleanTable(t *testing.T, records ...domain.MovieRecord) domain.MovieTable {
	t.Helper()
	result, err := NewCleaner(DefaultCleanOptions(), nil).Clean(domain.NewMovieTable(records))
	require.NoError(t, err)
	return result.Table
}
