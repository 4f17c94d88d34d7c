package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moviescope/internal/infrastructure"
)

// Manager runs the registered steps of a pipeline strictly in order. A
// failing step stops the run and every later step is marked skipped. There
// are no retries.
type Manager struct {
	registry *Registry
	tracer   *OperationTracer
	logger   *slog.Logger
}

// NewManager creates a manager. A nil tracer falls back to the global one.
func NewManager(registry *Registry, tracer *OperationTracer, logger *slog.Logger) *Manager {
	return &Manager{
		registry: registry,
		tracer:   orDefaultTracer(tracer),
		logger:   infrastructure.WithComponent(logger, "operations"),
	}
}

// GetRegistry returns the step registry
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Execute runs the pipeline once for req.InputFile
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	if req.ID == "" {
		req.ID = infrastructure.GetTraceID(ctx)
	}
	if req.ID == "" {
		req.ID = infrastructure.GenerateTraceID()
	}
	ctx = infrastructure.WithTraceID(ctx, req.ID)

	state := NewOperationState(req.ID, req.InputFile)
	steps := m.registry.List()
	for _, step := range steps {
		state.SetStage(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	ctx, span := m.tracer.TraceOperationExecution(ctx, req.ID, req.InputFile)
	state.SpanTraceID = infrastructure.TraceIDFromContext(ctx)

	m.logger.InfoContext(ctx, "operation_start",
		slog.String("operation_id", req.ID),
		slog.String("input_file", req.InputFile),
		slog.String("span_trace_id", state.SpanTraceID),
		slog.Int("step_count", len(steps)))

	state.Start()
	err := m.executeSequential(ctx, state, steps)

	switch {
	case err == nil:
		state.Complete()
		m.logger.InfoContext(ctx, "operation_completed",
			slog.String("operation_id", req.ID),
			slog.Duration("duration", state.Duration()),
			slog.Int("artifacts", len(state.Artifacts)))
	case GetErrorType(err) == ErrorTypeCancellation:
		state.Cancel(err)
		infrastructure.WithError(m.logger, err).WarnContext(ctx, "operation_cancelled",
			slog.String("operation_id", req.ID))
	default:
		state.Fail(err)
		infrastructure.WithError(m.logger, err).ErrorContext(ctx, "operation_failed",
			slog.String("operation_id", req.ID),
			slog.String("step", FailedStep(err)))
	}

	m.tracer.RecordOperationCompletion(span, state.Status, state.Duration(), err)
	return m.createResponse(state), err
}

// executeSequential executes steps one by one
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			m.skipRemaining(state, steps[i:], "operation cancelled")
			return NewCancellationError(step.ID(), err)
		}

		m.logger.InfoContext(ctx, "executing_stage",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("stage_number", i+1),
			slog.Int("total_stages", len(steps)))

		if err := m.executeStage(ctx, state, step); err != nil {
			m.skipRemaining(state, steps[i+1:], fmt.Sprintf("previous step %s failed", step.ID()))
			return err
		}
	}
	return nil
}

// executeStage validates and runs a single step inside its own span
func (m *Manager) executeStage(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStage(step.ID())
	if stepState == nil {
		return NewFatalError("step state not found", nil)
	}

	if err := step.Validate(state); err != nil {
		infrastructure.WithError(m.logger, err).WarnContext(ctx, "validation_failed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()))
		stepState.Skip(fmt.Sprintf("validation failed: %v", err))
		return NewValidationError(step.ID(), err.Error())
	}

	stepCtx, span := m.tracer.TraceStageExecution(ctx, state.ID, step.ID())
	stepState.Start()
	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)
	m.tracer.RecordStageCompletion(stepCtx, span, step.ID(), duration, err)

	if err != nil {
		stepState.Fail(err)
		infrastructure.WithError(m.logger, err).ErrorContext(ctx, "stage_execution_failed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Duration("duration", duration))
		if ctx.Err() != nil {
			return NewCancellationError(step.ID(), err)
		}
		return WrapError(err, step.ID(), "step execution failed")
	}

	stepState.Complete()
	m.logger.InfoContext(ctx, "stage_completed",
		slog.String("operation_id", state.ID),
		slog.String("step", step.ID()),
		slog.Duration("duration", duration))
	return nil
}

// skipRemaining marks steps that never ran as skipped
func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if st := state.GetStage(step.ID()); st != nil && st.GetStatus() == StepStatusPending {
			st.Skip(reason)
		}
	}
}

func (m *Manager) createResponse(state *OperationState) *OperationResponse {
	resp := &OperationResponse{
		ID:          state.ID,
		SpanTraceID: state.SpanTraceID,
		Status:      state.Status,
		Duration:    state.Duration(),
		Steps:       state.Steps,
		Artifacts:   state.Artifacts,
	}
	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	return resp
}
