package operations

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"moviescope/internal/dataprocessing"
	"moviescope/internal/exporter"
	"moviescope/internal/infrastructure"
	"moviescope/internal/validation"
)

// orDefaultTracer returns tracer, or a global-tracer fallback without metrics
func orDefaultTracer(tracer *OperationTracer) *OperationTracer {
	if tracer != nil {
		return tracer
	}
	t, _ := NewOperationTracer(nil)
	return t
}

// ValidateInputStage checks the input file and output directory before any
// data is read
type ValidateInputStage struct {
	BaseStage
	files     *validation.FileValidator
	outputDir string
}

// NewValidateInputStage creates the input check step
func NewValidateInputStage(outputDir string, logger *slog.Logger) *ValidateInputStage {
	return &ValidateInputStage{
		BaseStage: NewBaseStage(StageIDValidateInput, StageNameValidateInput),
		files:     validation.NewFileValidator(infrastructure.WithComponent(logger, StageIDValidateInput)),
		outputDir: outputDir,
	}
}

// Validate requires an input path
func (s *ValidateInputStage) Validate(state *OperationState) error {
	if state.InputFile == "" {
		return fmt.Errorf("no input file given")
	}
	return nil
}

// Execute checks the input file and probes the output directory
func (s *ValidateInputStage) Execute(ctx context.Context, state *OperationState) error {
	if err := s.files.ValidateDatasetFile(state.InputFile); err != nil {
		return err
	}
	if s.outputDir != "" {
		if err := s.files.ValidateOutputDirectory(s.outputDir); err != nil {
			return err
		}
	}
	return nil
}

// LoadStage reads the dataset into a raw table
type LoadStage struct {
	BaseStage
	loader *dataprocessing.Loader
	tracer *OperationTracer
}

// NewLoadStage creates the loading step
func NewLoadStage(parsePolicy string, tracer *OperationTracer, logger *slog.Logger) *LoadStage {
	logger = infrastructure.WithComponent(logger, StageIDLoad)
	return &LoadStage{
		BaseStage: NewBaseStage(StageIDLoad, StageNameLoad),
		loader:    dataprocessing.NewLoader(dataprocessing.LoadOptions{ParsePolicy: parsePolicy, Logger: logger}),
		tracer:    orDefaultTracer(tracer),
	}
}

// Execute loads state.InputFile
func (s *LoadStage) Execute(ctx context.Context, state *OperationState) error {
	result, err := s.loader.LoadFile(state.InputFile)
	if err != nil {
		return err
	}
	state.Loaded = result

	s.tracer.RecordRecords(ctx, OutcomeLoaded, result.RowsRead)
	s.tracer.RecordRecords(ctx, OutcomeDropped, result.Dropped())

	state.setStepMetadata(s.ID(), "rows_read", result.RowsRead)
	state.setStepMetadata(s.ID(), "rows_dropped", result.Dropped())
	return nil
}

// CleanStage applies the cleaning sequence to the raw table
type CleanStage struct {
	BaseStage
	cleaner *dataprocessing.Cleaner
	tracer  *OperationTracer
}

// NewCleanStage creates the cleaning step
func NewCleanStage(opts dataprocessing.CleanOptions, tracer *OperationTracer, logger *slog.Logger) *CleanStage {
	return &CleanStage{
		BaseStage: NewBaseStage(StageIDClean, StageNameClean),
		cleaner:   dataprocessing.NewCleaner(opts, infrastructure.WithComponent(logger, StageIDClean)),
		tracer:    orDefaultTracer(tracer),
	}
}

// Validate requires a loaded table
func (s *CleanStage) Validate(state *OperationState) error {
	if state.Loaded == nil {
		return fmt.Errorf("no loaded table")
	}
	return nil
}

// Execute cleans the loaded table
func (s *CleanStage) Execute(ctx context.Context, state *OperationState) error {
	result, err := s.cleaner.Clean(state.Loaded.Table)
	if err != nil {
		return err
	}
	state.Cleaned = result

	stats := result.Stats
	dropped := stats.DroppedMissingIMDbID + stats.DroppedUnparseableDate + stats.DroppedDuplicates
	s.tracer.RecordRecords(ctx, OutcomeDropped, dropped)
	s.tracer.RecordRecords(ctx, OutcomeFilled, stats.FilledValues)
	s.tracer.RecordRecords(ctx, OutcomeTruncated, stats.TruncatedValues)
	s.tracer.RecordRecords(ctx, OutcomeKept, stats.OutputRecords)

	state.setStepMetadata(s.ID(), "rows_in", stats.InputRecords)
	state.setStepMetadata(s.ID(), "rows_out", stats.OutputRecords)
	state.setStepMetadata(s.ID(), "operations", len(result.Operations))
	return nil
}

// ValidateStage asserts the cleaned-table guarantees
type ValidateStage struct {
	BaseStage
	validator *validation.RecordValidator
}

// NewValidateStage creates the invariant check step
func NewValidateStage(logger *slog.Logger) *ValidateStage {
	return &ValidateStage{
		BaseStage: NewBaseStage(StageIDValidate, StageNameValidate),
		validator: validation.NewRecordValidator(infrastructure.WithComponent(logger, StageIDValidate)),
	}
}

// Validate requires a cleaned table
func (s *ValidateStage) Validate(state *OperationState) error {
	if state.Cleaned == nil {
		return fmt.Errorf("no cleaned table")
	}
	return nil
}

// Execute checks every cleaned record
func (s *ValidateStage) Execute(ctx context.Context, state *OperationState) error {
	return s.validator.ValidateTable(state.Cleaned.Table)
}

// AggregateStage computes the report from the cleaned table
type AggregateStage struct {
	BaseStage
	opts dataprocessing.SummaryOptions
	now  func() time.Time
}

// NewAggregateStage creates the aggregation step
func NewAggregateStage(opts dataprocessing.SummaryOptions) *AggregateStage {
	return &AggregateStage{
		BaseStage: NewBaseStage(StageIDAggregate, StageNameAggregate),
		opts:      opts,
		now:       time.Now,
	}
}

// Validate requires a loaded and cleaned table
func (s *AggregateStage) Validate(state *OperationState) error {
	if state.Loaded == nil || state.Cleaned == nil {
		return fmt.Errorf("no cleaned table")
	}
	return nil
}

// Execute summarizes the cleaned table and profiles both tables
func (s *AggregateStage) Execute(ctx context.Context, state *OperationState) error {
	report, err := dataprocessing.NewAggregator(state.Cleaned.Table).Summarize(s.opts)
	if err != nil {
		return err
	}

	report.GeneratedAt = s.now()
	report.SourceFile = filepath.Base(state.InputFile)
	report.RawProfile = dataprocessing.Profile(state.Loaded.Table)
	report.CleanedProfile = dataprocessing.Profile(state.Cleaned.Table)

	state.Report = report
	return nil
}

// ReportStage writes every artifact of the run
type ReportStage struct {
	BaseStage
	reporter *exporter.Reporter
}

// NewReportStage creates the reporting step
func NewReportStage(reporter *exporter.Reporter) *ReportStage {
	return &ReportStage{
		BaseStage: NewBaseStage(StageIDReport, StageNameReport),
		reporter:  reporter,
	}
}

// Validate requires a report
func (s *ReportStage) Validate(state *OperationState) error {
	if state.Report == nil || state.Cleaned == nil {
		return fmt.Errorf("no report to render")
	}
	return nil
}

// Execute renders the report. Loader drops come first in the cleaning log.
func (s *ReportStage) Execute(ctx context.Context, state *OperationState) error {
	var ops []dataprocessing.CleaningOperation
	if state.Loaded != nil {
		ops = append(ops, state.Loaded.Operations...)
	}
	ops = append(ops, state.Cleaned.Operations...)

	artifacts, err := s.reporter.Render(ctx, exporter.RenderInput{
		Report:     state.Report,
		Table:      state.Cleaned.Table,
		Operations: ops,
	})
	if err != nil {
		return err
	}
	state.Artifacts = artifacts
	state.setStepMetadata(s.ID(), "artifacts", len(artifacts))
	return nil
}
