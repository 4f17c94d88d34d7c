package exporter

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviescope/internal/config"
	"moviescope/internal/dataprocessing"
	apperrors "moviescope/internal/errors"
	"moviescope/pkg/contracts/domain"
)

func renderInput() RenderInput {
	return RenderInput{
		Report: sampleReport(),
		Table: domain.NewMovieTable([]domain.MovieRecord{
			cleanedMovie(1, "Jurassic World", 2015, 6.5),
		}),
		Operations: []dataprocessing.CleaningOperation{
			{RowIdentifier: "2", Operation: dataprocessing.OpDeduplicate, Reason: dataprocessing.ReasonDuplicateRow},
		},
	}
}

func formats(artifacts []Artifact) map[domain.ReportFormat]int {
	out := map[domain.ReportFormat]int{}
	for _, a := range artifacts {
		out[a.Format]++
	}
	return out
}

func TestReporter_Render(t *testing.T) {
	paths := setupPaths(t)
	var stdout bytes.Buffer

	reporter := NewReporter(paths, config.Default().Report, &stdout, nil, nil)
	artifacts, err := reporter.Render(context.Background(), renderInput())
	require.NoError(t, err)

	assert.Equal(t, map[domain.ReportFormat]int{
		domain.ReportFormatDataset: 1,
		domain.ReportFormatLog:     1,
		domain.ReportFormatCSV:     len(AggregateTables(sampleReport())),
		domain.ReportFormatExcel:   1,
		domain.ReportFormatText:    1,
	}, formats(artifacts))

	for _, a := range artifacts {
		if a.Path != "" {
			assert.FileExists(t, a.Path)
		}
	}
	assert.FileExists(t, paths.Workbook)
	assert.FileExists(t, paths.CleanedCSV)
	assert.FileExists(t, paths.CleaningLog)
	assert.FileExists(t, filepath.Join(paths.AggregatesDir, "count_by_month.csv"))
	assert.Contains(t, stdout.String(), "Conclusions")

	again, err := reporter.Render(context.Background(), renderInput())
	require.NoError(t, err)
	assert.Equal(t, artifacts, again, "artifact order is deterministic")
}

func TestReporter_RenderHonoursToggles(t *testing.T) {
	paths := setupPaths(t)
	cfg := config.Default().Report
	cfg.Workbook = false
	cfg.CSV = false
	cfg.CleanedDataset = false

	artifacts, err := NewReporter(paths, cfg, nil, nil, nil).Render(context.Background(), renderInput())
	require.NoError(t, err)

	assert.Equal(t, map[domain.ReportFormat]int{domain.ReportFormatLog: 1}, formats(artifacts),
		"the cleaning log is always written")
	assert.NoFileExists(t, paths.Workbook)
	assert.NoFileExists(t, paths.CleanedCSV)
}

func TestReporter_RenderRequiresReport(t *testing.T) {
	_, err := NewReporter(setupPaths(t), config.Default().Report, nil, nil, nil).
		Render(context.Background(), RenderInput{})
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestReporter_RenderCancelled(t *testing.T) {
	paths := setupPaths(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewReporter(paths, config.Default().Report, nil, nil, nil).Render(ctx, renderInput())
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, paths.Workbook)
}

func TestReporter_RenderStorageFailure(t *testing.T) {
	paths := setupPaths(t)
	// a directory where the workbook file should go
	require.NoError(t, os.MkdirAll(paths.Workbook, 0755))

	_, err := NewReporter(paths, config.Default().Report, nil, nil, nil).Render(context.Background(), renderInput())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeStorage))
}
