package chainz

import (
	"context"
	"time"
)

// Action wraps a callable that takes no input and yields nothing. It is
// the terminal shape: a fully assembled pipeline that only needs to be
// run.
type Action struct {
	fn   func(context.Context) error
	name Name
}

// NewAction lifts fn into an Action. It panics if fn is nil.
func NewAction(name Name, fn func(context.Context) error) Action {
	if fn == nil {
		panic("NewAction requires a non-nil function")
	}
	return Action{
		name: name,
		fn: func(ctx context.Context) (err error) {
			start := time.Now()
			defer recoverDereference(&err, name, nil, start)
			if err = fn(ctx); err != nil {
				return wrapStageErr(err, name, nil, start)
			}
			return nil
		},
	}
}

// Run invokes the wrapped callable.
func (a Action) Run(ctx context.Context) error {
	return a.fn(ctx)
}

// Name returns the action's name for debugging and error reporting.
func (a Action) Name() Name {
	return a.name
}

// Then composes two actions in order.
func (a Action) Then(next Action) Action {
	if a.fn == nil || next.fn == nil {
		panic("Then requires wrapped callables")
	}
	return Action{
		name: joinNames(a.name, next.name),
		fn: func(ctx context.Context) error {
			if err := a.fn(ctx); err != nil {
				return err
			}
			return next.fn(ctx)
		},
	}
}
