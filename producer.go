package chainz

import (
	"context"
	"time"
)

// Producer wraps a callable that takes no input and yields a value.
// It is the usual head of a pipeline: a lookup, a fetch, a constant.
//
// The wrapped function receives a context for cancellation support and
// may fail with an error. A nil-dereference panic inside the function is
// recovered and surfaced as ErrDereference; every other panic and every
// other error propagates unchanged.
//
// Example:
//
//	fetch := chainz.NewProducer("fetch-greeting", func(ctx context.Context) (string, error) {
//	    return store.Greeting(ctx)
//	})
//	greeting, err := fetch.Get(ctx)
type Producer[R any] struct {
	fn   func(context.Context) (R, error)
	name Name
}

// NewProducer lifts fn into a Producer. It panics if fn is nil - a
// pipeline must never be built around nothing, and the failure belongs
// at construction time, not at invocation time.
//
// Wrapping performs no invocation.
func NewProducer[R any](name Name, fn func(context.Context) (R, error)) Producer[R] {
	if fn == nil {
		panic("NewProducer requires a non-nil function")
	}
	return Producer[R]{
		name: name,
		fn: func(ctx context.Context) (result R, err error) {
			start := time.Now()
			defer recoverDereference(&err, name, nil, start)
			result, err = fn(ctx)
			if err != nil {
				var zero R
				return zero, wrapStageErr(err, name, nil, start)
			}
			return result, nil
		},
	}
}

// Get invokes the wrapped callable.
func (p Producer[R]) Get(ctx context.Context) (R, error) {
	return p.fn(ctx)
}

// Name returns the producer's name for debugging and error reporting.
func (p Producer[R]) Name() Name {
	return p.name
}

// Then composes the producer with a same-type transformer: the
// producer's output becomes the transformer's input. For a transformer
// that changes the value's type, use the package-level Map.
func (p Producer[R]) Then(next Transformer[R, R]) Producer[R] {
	return Map(p, next)
}

// ThenEffect composes the producer with an effect, yielding an Action:
// the produced value is consumed by the effect and nothing remains to
// forward.
func (p Producer[R]) ThenEffect(next Effect[R]) Action {
	if p.fn == nil || next.fn == nil {
		panic("ThenEffect requires wrapped callables")
	}
	return Action{
		name: joinNames(p.name, next.name),
		fn: func(ctx context.Context) error {
			v, err := p.fn(ctx)
			if err != nil {
				return err
			}
			return next.fn(ctx, v)
		},
	}
}

// ThenAction composes the producer with an action, yielding an Action:
// the produced value is discarded, then the action runs.
func (p Producer[R]) ThenAction(next Action) Action {
	if p.fn == nil || next.fn == nil {
		panic("ThenAction requires wrapped callables")
	}
	return Action{
		name: joinNames(p.name, next.name),
		fn: func(ctx context.Context) error {
			if _, err := p.fn(ctx); err != nil {
				return err
			}
			return next.fn(ctx)
		},
	}
}
