package operations

import (
	"sync"
	"time"

	"moviescope/internal/dataprocessing"
	"moviescope/internal/exporter"
	"moviescope/pkg/contracts/domain"
)

// OperationStatusValue represents the overall operation status enum
type OperationStatusValue string

const (
	OperationStatusPending   OperationStatusValue = "pending"
	OperationStatusRunning   OperationStatusValue = "running"
	OperationStatusCompleted OperationStatusValue = "completed"
	OperationStatusFailed    OperationStatusValue = "failed"
	OperationStatusCancelled OperationStatusValue = "cancelled"
)

// OperationState represents the complete state of one pipeline run. Each
// step reads what earlier steps stored and adds its own result.
type OperationState struct {
	mu sync.RWMutex

	ID string `json:"id"`
	// SpanTraceID is the OpenTelemetry trace of the run, empty when tracing is off
	SpanTraceID string               `json:"span_trace_id,omitempty"`
	Status      OperationStatusValue `json:"status"`
	StartTime   time.Time            `json:"start_time"`
	EndTime     *time.Time           `json:"end_time,omitempty"`

	Steps map[string]*StepState `json:"steps"`

	InputFile string `json:"input_file"`

	// Step results
	Loaded    *dataprocessing.LoadResult  `json:"-"`
	Cleaned   *dataprocessing.CleanResult `json:"-"`
	Report    *domain.MovieReport         `json:"-"`
	Artifacts []exporter.Artifact         `json:"artifacts,omitempty"`

	Error error `json:"-"`
}

// NewOperationState creates a new operation state
func NewOperationState(id, inputFile string) *OperationState {
	return &OperationState{
		ID:        id,
		Status:    OperationStatusPending,
		StartTime: time.Now(),
		Steps:     make(map[string]*StepState),
		InputFile: inputFile,
	}
}

// Start marks the operation as running
func (p *OperationState) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Status = OperationStatusRunning
	p.StartTime = time.Now()
}

// Complete marks the operation as completed
func (p *OperationState) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCompleted
}

// Fail marks the operation as failed
func (p *OperationState) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusFailed
	p.Error = err
}

// Cancel marks the operation as cancelled
func (p *OperationState) Cancel(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.EndTime = &now
	p.Status = OperationStatusCancelled
	p.Error = err
}

// GetStage returns the state of a specific Step
func (p *OperationState) GetStage(stageID string) *StepState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.Steps[stageID]
}

// SetStage updates the state of a specific Step
func (p *OperationState) SetStage(stageID string, state *StepState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Steps[stageID] = state
}

// Duration returns the run time so far, or the total once finished
func (p *OperationState) Duration() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.EndTime != nil {
		return p.EndTime.Sub(p.StartTime)
	}
	return time.Since(p.StartTime)
}

// setStepMetadata records a result on a registered step; unknown ids are ignored
func (p *OperationState) setStepMetadata(stageID, key string, value interface{}) {
	if st := p.GetStage(stageID); st != nil {
		st.SetMetadata(key, value)
	}
}
