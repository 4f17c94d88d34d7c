package operations

import (
	"io"
	"log/slog"

	"moviescope/internal/config"
	"moviescope/internal/dataprocessing"
	apperrors "moviescope/internal/errors"
	"moviescope/internal/exporter"
)

// PipelineOptions wires the analysis pipeline
type PipelineOptions struct {
	Config *config.Config
	// Paths defaults to the executable-relative layout
	Paths  *config.Paths
	// Out receives the text report; nil skips it
	Out    io.Writer
	Tracer *OperationTracer
	Logger *slog.Logger
}

// NewPipeline registers the six analysis steps in order:
// validate input, load, clean, validate, aggregate, report.
func NewPipeline(opts PipelineOptions) (*Manager, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	paths := opts.Paths
	if paths == nil {
		p, err := config.GetPaths()
		if err != nil {
			return nil, apperrors.NewConfigError("failed to resolve paths", err)
		}
		paths = p.WithMetricsFile(cfg.Telemetry.MetricsTextfile)
	}
	tracer := orDefaultTracer(opts.Tracer)

	registry := NewRegistry()
	steps := []Step{
		NewValidateInputStage(paths.ReportsDir, opts.Logger),
		NewLoadStage(cfg.Cleaning.ParseErrorPolicy, tracer, opts.Logger),
		NewCleanStage(dataprocessing.CleanOptionsFrom(cfg.Cleaning), tracer, opts.Logger),
		NewValidateStage(opts.Logger),
		NewAggregateStage(dataprocessing.SummaryOptionsFrom(cfg.Report)),
		NewReportStage(exporter.NewReporter(paths, cfg.Report, opts.Out, opts.Logger, tracer.Metrics())),
	}
	for _, step := range steps {
		if err := registry.Register(step); err != nil {
			return nil, err
		}
	}

	return NewManager(registry, tracer, opts.Logger), nil
}
