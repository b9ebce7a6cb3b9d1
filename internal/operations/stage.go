package operations

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Step represents a single step of a run over state of type S
type Step[S any] interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Validate checks if the step can be executed with the current state
	Validate(state S) error

	// Execute runs the step with the given context and state
	Execute(ctx context.Context, state S) error
}

// StepStatus represents the current status of a Step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState represents the runtime state of a Step
type StepState struct {
	mu        sync.RWMutex
	ID        string
	Name      string
	Status    StepStatus
	StartTime *time.Time
	EndTime   *time.Time
	Message   string
	Error     error
	Metadata  map[string]interface{}
}

// NewStepState creates a new Step state with default values
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:       id,
		Name:     name,
		Status:   StepStatusPending,
		Metadata: make(map[string]interface{}),
	}
}

// Start marks the Step as active and sets the start time
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the Step as completed and sets the end time
func (s *StepState) Complete(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
	s.Message = message
}

// Fail marks the Step as failed with the given error
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// Skip marks the Step as skipped with the given reason
func (s *StepState) Skip(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Status = StepStatusSkipped
	s.Message = reason
}

// SetMetadata records a value describing the step's outcome
func (s *StepState) SetMetadata(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Metadata[key] = value
}

// GetMetadata returns the value recorded under key
func (s *StepState) GetMetadata(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.Metadata[key]
	return v, ok
}

// metadataAttrs snapshots the metadata as log attributes
func (s *StepState) metadataAttrs() []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attrs := make([]any, 0, len(s.Metadata))
	for k, v := range s.Metadata {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

type stepStateKey struct{}

func withStepState(ctx context.Context, st *StepState) context.Context {
	return context.WithValue(ctx, stepStateKey{}, st)
}

// SetStepMetadata records key=value on the step the runner is executing
// with ctx. It does nothing when ctx does not belong to a running step.
func SetStepMetadata(ctx context.Context, key string, value interface{}) {
	if st, ok := ctx.Value(stepStateKey{}).(*StepState); ok {
		st.SetMetadata(key, value)
	}
}

// GetStatus returns the current status
func (s *StepState) GetStatus() StepStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Status
}

// Duration returns the duration of the Step execution
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}

// BaseStep provides the identity half of a Step. Embed it and implement Execute.
type BaseStep[S any] struct {
	id   string
	name string
}

// NewBaseStep creates a new base Step
func NewBaseStep[S any](id, name string) BaseStep[S] {
	return BaseStep[S]{id: id, name: name}
}

// ID returns the Step ID
func (b BaseStep[S]) ID() string { return b.id }

// Name returns the Step name
func (b BaseStep[S]) Name() string { return b.name }

// Validate provides a default validation that always passes
func (b BaseStep[S]) Validate(S) error { return nil }
