package chainz

import (
	"context"
	"errors"
)

// WithDefault decorates the producer so that an absent result is
// replaced by def. Three outcomes are possible on invocation:
//
//   - the wrapped callable yields a present value: returned unchanged,
//     def is never consulted;
//   - the wrapped callable yields an absent (nil) value: def is
//     returned;
//   - the invocation fails with ErrDereference: the failure is swallowed
//     and def is returned.
//
// Every other failure kind propagates unchanged - the decorator
// tolerates exactly one failure class so it cannot mask programming
// errors unrelated to absence.
//
// Apply WithDefault to the final composed wrapper: a dereference partway
// through a pipeline unwinds to this boundary and later stages never
// run.
func (p Producer[R]) WithDefault(def R) Producer[R] {
	if p.fn == nil {
		panic("WithDefault requires a wrapped callable")
	}
	return Producer[R]{
		name: p.name,
		fn: func(ctx context.Context) (R, error) {
			v, err := p.fn(ctx)
			if err != nil {
				if errors.Is(err, ErrDereference) {
					return def, nil
				}
				var zero R
				return zero, err
			}
			if isAbsent(v) {
				return def, nil
			}
			return v, nil
		},
	}
}

// WithDefault decorates the transformer so that an absent result is
// replaced by def. The semantics match Producer.WithDefault: present
// values pass through, absent values and ErrDereference failures yield
// def, and every other failure propagates unchanged.
func (t Transformer[T, R]) WithDefault(def R) Transformer[T, R] {
	if t.fn == nil {
		panic("WithDefault requires a wrapped callable")
	}
	return Transformer[T, R]{
		name: t.name,
		fn: func(ctx context.Context, arg T) (R, error) {
			v, err := t.fn(ctx, arg)
			if err != nil {
				if errors.Is(err, ErrDereference) {
					return def, nil
				}
				var zero R
				return zero, err
			}
			if isAbsent(v) {
				return def, nil
			}
			return v, nil
		},
	}
}

// Tolerant decorates the effect so that an ErrDereference failure is
// silently discarded. There is no value to substitute; every other
// failure propagates unchanged.
func (e Effect[T]) Tolerant() Effect[T] {
	if e.fn == nil {
		panic("Tolerant requires a wrapped callable")
	}
	return Effect[T]{
		name: e.name,
		fn: func(ctx context.Context, arg T) error {
			if err := e.fn(ctx, arg); err != nil && !errors.Is(err, ErrDereference) {
				return err
			}
			return nil
		},
	}
}

// Tolerant decorates the action so that an ErrDereference failure is
// silently discarded. Every other failure propagates unchanged.
func (a Action) Tolerant() Action {
	if a.fn == nil {
		panic("Tolerant requires a wrapped callable")
	}
	return Action{
		name: a.name,
		fn: func(ctx context.Context) error {
			if err := a.fn(ctx); err != nil && !errors.Is(err, ErrDereference) {
				return err
			}
			return nil
		},
	}
}
