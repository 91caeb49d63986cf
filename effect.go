package chainz

import (
	"context"
	"time"
)

// Effect wraps a callable that takes one input and yields nothing: a
// side effect such as logging, auditing, or notifying. Because an
// effect has no output, composing it with a later stage forwards the
// effect's own input, not a result.
type Effect[T any] struct {
	fn   func(context.Context, T) error
	name Name
}

// NewEffect lifts fn into an Effect. It panics if fn is nil.
func NewEffect[T any](name Name, fn func(context.Context, T) error) Effect[T] {
	if fn == nil {
		panic("NewEffect requires a non-nil function")
	}
	return Effect[T]{
		name: name,
		fn: func(ctx context.Context, arg T) (err error) {
			start := time.Now()
			defer recoverDereference(&err, name, arg, start)
			if err = fn(ctx, arg); err != nil {
				return wrapStageErr(err, name, arg, start)
			}
			return nil
		},
	}
}

// Accept invokes the wrapped callable with arg.
func (e Effect[T]) Accept(ctx context.Context, arg T) error {
	return e.fn(ctx, arg)
}

// Name returns the effect's name for debugging and error reporting.
func (e Effect[T]) Name() Name {
	return e.name
}

// Then composes two effects over the same input: both receive the
// original argument, in order.
func (e Effect[T]) Then(next Effect[T]) Effect[T] {
	if e.fn == nil || next.fn == nil {
		panic("Then requires wrapped callables")
	}
	return Effect[T]{
		name: joinNames(e.name, next.name),
		fn: func(ctx context.Context, arg T) error {
			if err := e.fn(ctx, arg); err != nil {
				return err
			}
			return next.fn(ctx, arg)
		},
	}
}
