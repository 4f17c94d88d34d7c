package exporter

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviescope/internal/config"
	"moviescope/internal/dataprocessing"
	"moviescope/pkg/contracts/domain"
)

func text(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

// cleanedMovie returns a record in the shape the cleaner produces
func cleanedMovie(id int64, title string, year int, voteAverage float64) domain.MovieRecord {
	date := time.Date(year, time.September, 9, 0, 0, 0, 0, time.UTC)
	return domain.MovieRecord{
		ID:                  id,
		IMDbID:              text("tt" + title),
		Popularity:          12.5,
		Budget:              150000000,
		Revenue:             0,
		OriginalTitle:       text(title),
		Cast:                text("Chris Pratt|Bryce Dallas Howard"),
		Homepage:            text(domain.NotAvailable),
		Director:            text("Colin Trevorrow"),
		Tagline:             text("The park is open, again"),
		Keywords:            text("monster|dna"),
		Overview:            text(`Twenty-two years after the events of "Jurassic Park"`),
		Runtime:             124,
		Genres:              text("Action|Adventure"),
		ProductionCompanies: text("Universal Studios"),
		ReleaseDateRaw:      text(date.Format("1/2/06")),
		ReleaseDate:         date,
		VoteCount:           5562,
		VoteAverage:         voteAverage,
		ReleaseYear:         year,
		BudgetAdj:           137999939,
		RevenueAdj:          1392445892,
	}
}

func setupPaths(t *testing.T) *config.Paths {
	t.Helper()
	dir := t.TempDir()
	paths := config.NewPaths(filepath.Join(dir, "reports"), filepath.Join(dir, "logs"))
	require.NoError(t, paths.EnsureDirectories())
	return paths
}

func TestDatasetExporter_ExportDatasetLoadsBack(t *testing.T) {
	paths := setupPaths(t)
	table := domain.NewMovieTable([]domain.MovieRecord{
		cleanedMovie(135397, "Jurassic World", 2015, 6.5),
		cleanedMovie(76341, "Mad Max: Fury Road", 2015, 7.1),
	})

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	path, err := NewDatasetExporter(paths, logger).ExportDataset(table)
	require.NoError(t, err)
	assert.Equal(t, paths.CleanedCSV, path)
	assert.Contains(t, logs.String(), `"record_count":2`)

	loaded, err := dataprocessing.NewLoader(dataprocessing.LoadOptions{}).LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, table.Len(), loaded.Table.Len())

	for i := 0; i < table.Len(); i++ {
		assert.Equal(t, table.At(i).Row(), loaded.Table.At(i).Row(), "row %d", i)
	}
	assert.Equal(t, "2015-09-09", loaded.Table.At(0).ReleaseDateRaw.String, "dates are written as ISO")
}

func TestDatasetExporter_ExportDatasetEmpty(t *testing.T) {
	paths := setupPaths(t)

	_, err := NewDatasetExporter(paths, nil).ExportDataset(domain.NewMovieTable(nil))
	require.NoError(t, err)

	rows := readCSV(t, paths.CleanedCSV)
	assert.Equal(t, [][]string{domain.MovieColumns}, rows)
}

func TestDatasetExporter_ExportCleaningLog(t *testing.T) {
	paths := setupPaths(t)
	ops := []dataprocessing.CleaningOperation{
		{RowIdentifier: "42", Operation: dataprocessing.OpDropRow, Reason: dataprocessing.ReasonMissingIMDbID},
		{
			RowIdentifier: "7",
			ColumnName:    domain.ColTagline,
			NewValue:      domain.NotAvailable,
			Operation:     dataprocessing.OpFillSentinel,
			Reason:        dataprocessing.ReasonMissingValue,
		},
	}

	path, err := NewDatasetExporter(paths, nil).ExportCleaningLog(ops)
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, CleaningLogHeaders, rows[0])
	assert.Equal(t, []string{"42", "", "", "", "drop_row", "missing_imdb_id"}, rows[1])
	assert.Equal(t, []string{"7", "tagline", "", "Not Available", "fill_sentinel", "missing_value"}, rows[2])
}

func TestAggregateExporter_ExportAggregates(t *testing.T) {
	paths := setupPaths(t)

	written, err := NewAggregateExporter(paths, nil).ExportAggregates(sampleReport())
	require.NoError(t, err)
	assert.Len(t, written, len(AggregateTables(sampleReport())))

	rows := readCSV(t, paths.GetAggregatePath("top_years"))
	assert.Equal(t, [][]string{{"release_year", "count"}, {"2015", "3"}, {"2014", "2"}}, rows)

	rows = readCSV(t, paths.GetAggregatePath("mean_vote_count_by_year"))
	assert.Equal(t, []string{"2014", "200"}, rows[2])
}

// readCSV reads a whole CSV file, dropping a leading BOM
func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}
	r := csv.NewReader(bytes.NewReader(data))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}
