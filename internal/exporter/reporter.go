package exporter

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"moviescope/internal/config"
	"moviescope/internal/dataprocessing"
	apperrors "moviescope/internal/errors"
	"moviescope/internal/infrastructure"
	"moviescope/pkg/contracts/domain"
)

// RenderInput is everything the reporter needs from a finished run
type RenderInput struct {
	Report     *domain.MovieReport
	Table      domain.MovieTable
	Operations []dataprocessing.CleaningOperation
}

// Artifact is one written output
type Artifact struct {
	Format domain.ReportFormat
	Path   string // empty for the text report
}

// Reporter writes every enabled artifact of a run
type Reporter struct {
	paths   *config.Paths
	cfg     config.ReportConfig
	out     io.Writer
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// NewReporter creates a reporter. The text report goes to out; a nil out
// skips it. metrics may be nil.
func NewReporter(paths *config.Paths, cfg config.ReportConfig, out io.Writer, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Reporter {
	return &Reporter{
		paths:   paths,
		cfg:     cfg,
		out:     out,
		logger:  infrastructure.WithComponent(logger, "reporter"),
		metrics: metrics,
	}
}

// Render writes the artifacts concurrently. Each artifact is its own file,
// and the table is only read. The first failure cancels the writers that
// have not started yet.
func (r *Reporter) Render(ctx context.Context, in RenderInput) ([]Artifact, error) {
	if in.Report == nil {
		return nil, apperrors.NewAppValidationError("render requires a report")
	}
	if err := r.paths.EnsureDirectories(); err != nil {
		return nil, apperrors.NewStorageError("failed to create output directories", err)
	}

	var (
		mu        sync.Mutex
		artifacts []Artifact
	)
	done := func(format domain.ReportFormat, paths ...string) {
		mu.Lock()
		defer mu.Unlock()
		if len(paths) == 0 {
			paths = []string{""}
		}
		for _, p := range paths {
			artifacts = append(artifacts, Artifact{Format: format, Path: p})
			r.metrics.RecordArtifact(ctx, string(format))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	run := func(format domain.ReportFormat, fn func() error) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := fn(); err != nil {
				r.logger.ErrorContext(ctx, "Artifact failed",
					slog.String("format", string(format)),
					slog.String("error", err.Error()))
				return err
			}
			return nil
		})
	}

	datasets := NewDatasetExporter(r.paths, r.logger)
	if r.cfg.CleanedDataset {
		run(domain.ReportFormatDataset, func() error {
			path, err := datasets.ExportDataset(in.Table)
			if err == nil {
				done(domain.ReportFormatDataset, path)
			}
			return err
		})
	}

	run(domain.ReportFormatLog, func() error {
		path, err := datasets.ExportCleaningLog(in.Operations)
		if err == nil {
			done(domain.ReportFormatLog, path)
		}
		return err
	})

	if r.cfg.CSV {
		run(domain.ReportFormatCSV, func() error {
			paths, err := NewAggregateExporter(r.paths, r.logger).ExportAggregates(in.Report)
			if err == nil {
				done(domain.ReportFormatCSV, paths...)
			}
			return err
		})
	}

	if r.cfg.Workbook {
		run(domain.ReportFormatExcel, func() error {
			err := NewWorkbookReporter(r.logger).Write(in.Report, r.paths.Workbook)
			if err == nil {
				done(domain.ReportFormatExcel, r.paths.Workbook)
			}
			return err
		})
	}

	if r.out != nil {
		run(domain.ReportFormatText, func() error {
			err := NewTextReporter(r.out).Write(in.Report)
			if err == nil {
				done(domain.ReportFormatText)
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// completion order is not deterministic
	sort.SliceStable(artifacts, func(i, j int) bool {
		if artifacts[i].Format != artifacts[j].Format {
			return artifacts[i].Format < artifacts[j].Format
		}
		return artifacts[i].Path < artifacts[j].Path
	})

	r.logger.InfoContext(ctx, "Report rendered", slog.Int("artifacts", len(artifacts)))
	return artifacts, nil
}
