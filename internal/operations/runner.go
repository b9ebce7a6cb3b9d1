package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"fxstory/internal/infrastructure"
)

// RunResult describes how every registered step ended
type RunResult struct {
	Steps []*StepState
	// Stopped is set when a step ended the run early with ErrStop.
	Stopped   bool
	StoppedBy string
	Duration  time.Duration
}

// Step returns the state of the step with the given ID, or nil.
func (r *RunResult) Step(id string) *StepState {
	for _, s := range r.Steps {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Runner executes the steps of a registry in order
type Runner[S any] struct {
	registry *Registry[S]
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *infrastructure.PipelineMetrics
}

// NewRunner creates a runner. A nil tracer or metrics disables that signal.
func NewRunner[S any](registry *Registry[S], logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *Runner[S] {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = tracenoop.NewTracerProvider().Tracer("operations")
	}
	return &Runner[S]{
		registry: registry,
		logger:   infrastructure.WithComponent(logger, "runner"),
		tracer:   tracer,
		metrics:  metrics,
	}
}

// Run executes every step against state. It returns an *OperationError for
// the first step that fails; the steps after it are skipped. A step
// returning ErrStop ends the run with a nil error and Stopped set.
func (r *Runner[S]) Run(ctx context.Context, state S) (*RunResult, error) {
	steps := r.registry.List()
	result := &RunResult{Steps: make([]*StepState, len(steps))}
	for i, step := range steps {
		result.Steps[i] = NewStepState(step.ID(), step.Name())
	}

	start := time.Now()
	defer func() { result.Duration = time.Since(start) }()

	r.logger.InfoContext(ctx, "Run started", slog.Int("steps", len(steps)))

	for i, step := range steps {
		st := result.Steps[i]
		if result.Stopped {
			st.Skip(fmt.Sprintf("run stopped by %s", result.StoppedBy))
			continue
		}

		err := r.runStep(ctx, step, st, state)
		switch {
		case err == nil:
		case IsStop(err):
			result.Stopped = true
			result.StoppedBy = step.ID()
		default:
			for _, rest := range result.Steps[i+1:] {
				rest.Skip(fmt.Sprintf("step %s failed", step.ID()))
			}
			return result, err
		}
	}

	r.logger.InfoContext(ctx, "Run finished",
		slog.Bool("stopped", result.Stopped),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

func (r *Runner[S]) runStep(ctx context.Context, step Step[S], st *StepState, state S) error {
	ctx, span := r.tracer.Start(ctx, "step."+step.ID(),
		trace.WithAttributes(
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		))
	defer span.End()
	ctx = withStepState(ctx, st)

	logger := r.logger.With(slog.String("step", step.ID()))
	st.Start()
	logger.DebugContext(ctx, "Step started", slog.String("name", step.Name()))

	err := step.Validate(state)
	if err != nil {
		err = NewValidationError(step.ID(), err)
	} else {
		err = step.Execute(ctx, state)
		if IsStop(err) {
			st.Complete(err.Error())
			infrastructure.RecordStepMetrics(ctx, r.metrics, step.ID(), st.Duration(), nil)
			logger.InfoContext(ctx, "Run stopped early", slog.String("reason", err.Error()))
			return err
		}
		if err != nil {
			err = NewExecutionError(step.ID(), err)
		}
	}

	if err != nil {
		st.Fail(err)
		infrastructure.RecordError(ctx, err)
		infrastructure.RecordStepMetrics(ctx, r.metrics, step.ID(), st.Duration(), err)
		infrastructure.WithError(logger, err).ErrorContext(ctx, "Step failed",
			slog.Duration("duration", st.Duration()))
		return err
	}

	st.Complete("")
	infrastructure.RecordStepMetrics(ctx, r.metrics, step.ID(), st.Duration(), nil)
	logger.With(st.metadataAttrs()...).InfoContext(ctx, "Step completed",
		slog.String("name", step.Name()),
		slog.Duration("duration", st.Duration()))
	return nil
}
