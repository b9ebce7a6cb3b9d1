package operations

import "context"

// stepFunc adapts a function into a Step.
type stepFunc[S any] struct {
	BaseStep[S]
	fn func(ctx context.Context, state S) error
}

func newStepFunc[S any](id, name string, fn func(ctx context.Context, state S) error) *stepFunc[S] {
	return &stepFunc[S]{BaseStep: NewBaseStep[S](id, name), fn: fn}
}

func (s *stepFunc[S]) Execute(ctx context.Context, state S) error {
	return s.fn(ctx, state)
}
