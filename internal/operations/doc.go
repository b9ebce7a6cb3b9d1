// Package operations runs an ordered list of steps over a shared state.
//
// A Step is one unit of work of a run. Steps are registered in the order they
// execute; each one sees the state left behind by the steps before it.
//
//	registry := operations.NewRegistry[*story.State]()
//	registry.Register(loadStep)
//	registry.Register(normalizeStep)
//
//	runner := operations.NewRunner(registry, logger, tracer, metrics)
//	result, err := runner.Run(ctx, state)
//
// Execution is sequential and all-or-nothing: the first failing step ends the
// run and the remaining steps are marked skipped. A step may end the run
// early without failing it by returning ErrStop (possibly wrapped).
//
// Every step gets its own span and is counted in the step metrics. Counts a
// step wants reported go through SetStepMetadata and end up on its StepState
// and in the "Step completed" record.
package operations
