package operations

import (
	"time"

	"moviescope/internal/exporter"
)

// Pipeline step identifiers
const (
	StageIDValidateInput = "validate_input"
	StageIDLoad          = "load"
	StageIDClean         = "clean"
	StageIDValidate      = "validate"
	StageIDAggregate     = "aggregate"
	StageIDReport        = "report"
)

// Pipeline step names
const (
	StageNameValidateInput = "Input Check"
	StageNameLoad          = "Data Loading"
	StageNameClean         = "Data Cleaning"
	StageNameValidate      = "Invariant Check"
	StageNameAggregate     = "Aggregation"
	StageNameReport        = "Reporting"
)

// Record outcomes reported to pipeline_records_total
const (
	OutcomeLoaded    = "loaded"
	OutcomeDropped   = "dropped"
	OutcomeFilled    = "filled"
	OutcomeTruncated = "truncated"
	OutcomeKept      = "kept"
)

// OperationRequest represents a request to run the pipeline on one file
type OperationRequest struct {
	ID        string `json:"id"`
	InputFile string `json:"input_file"`
}

// OperationResponse represents the result of a pipeline run
type OperationResponse struct {
	ID          string                `json:"id"`
	SpanTraceID string                `json:"span_trace_id,omitempty"`
	Status      OperationStatusValue  `json:"status"`
	Duration    time.Duration         `json:"duration"`
	Steps       map[string]*StepState `json:"steps"`
	Error       string                `json:"error,omitempty"`

	Artifacts []exporter.Artifact `json:"artifacts,omitempty"`
}
