// Package operations runs the movie analysis as a fixed sequence of steps.
//
// Core Components:
//
// Manager: runs the registered steps in order, one at a time. Each step gets
// its own trace span and step metrics. The first failure stops the run and
// marks the remaining steps skipped; nothing is retried.
//
// Step: one unit of work. Validate checks that earlier steps left what the
// step needs in OperationState; Execute does the work and stores its result
// there.
//
// Registry: holds the steps in registration order.
//
// OperationState: the run id, per-step states and the typed results handed
// from step to step (raw table, cleaned table, report, artifacts).
//
// Steps, in order:
//
//	validate_input → load → clean → validate → aggregate → report
//
// Example usage:
//
//	manager, err := operations.NewPipeline(operations.PipelineOptions{
//	    Config: cfg,
//	    Paths:  paths,
//	    Out:    os.Stdout,
//	    Tracer: tracer,
//	    Logger: logger,
//	})
//	if err != nil {
//	    return err
//	}
//
//	resp, err := manager.Execute(ctx, operations.OperationRequest{InputFile: "tmdb-movies.csv"})
//
// Errors returned by Execute are *OperationError values naming the failed
// step; the step's own error (for example a LOAD or INVARIANT AppError) is
// kept as the cause.
package operations
