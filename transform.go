package chainz

import (
	"context"
	"time"
)

// Transformer wraps a callable that takes one input and yields a value.
// It is the workhorse shape: parsing, formatting, lookups keyed by the
// incoming value.
//
// The wrapped function receives a context for cancellation support and
// may fail with an error. A nil-dereference panic inside the function is
// recovered and surfaced as ErrDereference; every other panic and every
// other error propagates unchanged.
//
// Example:
//
//	upper := chainz.NewTransformer("upper", func(ctx context.Context, s string) (string, error) {
//	    return strings.ToUpper(s), nil
//	})
//	loud, err := upper.Apply(ctx, "hello")
type Transformer[T, R any] struct {
	fn   func(context.Context, T) (R, error)
	name Name
}

// NewTransformer lifts fn into a Transformer. It panics if fn is nil;
// the precondition fails at construction time, not at invocation time.
//
// Wrapping performs no invocation.
func NewTransformer[T, R any](name Name, fn func(context.Context, T) (R, error)) Transformer[T, R] {
	if fn == nil {
		panic("NewTransformer requires a non-nil function")
	}
	return Transformer[T, R]{
		name: name,
		fn: func(ctx context.Context, arg T) (result R, err error) {
			start := time.Now()
			defer recoverDereference(&err, name, arg, start)
			result, err = fn(ctx, arg)
			if err != nil {
				var zero R
				return zero, wrapStageErr(err, name, arg, start)
			}
			return result, nil
		},
	}
}

// Apply invokes the wrapped callable with arg.
func (t Transformer[T, R]) Apply(ctx context.Context, arg T) (R, error) {
	return t.fn(ctx, arg)
}

// Name returns the transformer's name for debugging and error reporting.
func (t Transformer[T, R]) Name() Name {
	return t.name
}

// Then composes the transformer with a same-type transformer over its
// result. For a transformer that changes the result type, use the
// package-level Compose.
func (t Transformer[T, R]) Then(next Transformer[R, R]) Transformer[T, R] {
	return Compose(t, next)
}

// ThenEffect composes the transformer with an effect, yielding an
// Effect: the transformed value is consumed and nothing remains to
// forward.
func (t Transformer[T, R]) ThenEffect(next Effect[R]) Effect[T] {
	if t.fn == nil || next.fn == nil {
		panic("ThenEffect requires wrapped callables")
	}
	return Effect[T]{
		name: joinNames(t.name, next.name),
		fn: func(ctx context.Context, arg T) error {
			v, err := t.fn(ctx, arg)
			if err != nil {
				return err
			}
			return next.fn(ctx, v)
		},
	}
}
