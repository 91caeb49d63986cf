package chainz

import (
	"context"
	"fmt"
	"time"
)

// Stage is a shape-tagged, type-erased pipeline stage for use with
// Chain. Stages are lifted from the statically typed wrappers; the
// shape tag drives the resolution table and the forwarding rule, and
// the input type is re-checked at invocation time since the dynamic
// chain cannot verify it at composition time.
type Stage struct {
	run   func(context.Context, any) (any, error)
	name  Name
	shape Shape
}

// Name returns the stage's name.
func (s Stage) Name() Name {
	return s.name
}

// Shape returns the stage's shape tag.
func (s Stage) Shape() Shape {
	return s.shape
}

// ProducerStage lifts a Producer into a dynamic stage.
func ProducerStage[R any](p Producer[R]) Stage {
	if p.fn == nil {
		panic("ProducerStage requires a wrapped producer")
	}
	return Stage{
		name:  p.name,
		shape: ShapeProducer,
		run: func(ctx context.Context, _ any) (any, error) {
			v, err := p.fn(ctx)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// TransformerStage lifts a Transformer into a dynamic stage. At
// invocation time the incoming value must be assignable to T; a
// mismatch fails with ErrStageMismatch. A nil incoming value is applied
// as T's zero value.
func TransformerStage[T, R any](t Transformer[T, R]) Stage {
	if t.fn == nil {
		panic("TransformerStage requires a wrapped transformer")
	}
	return Stage{
		name:  t.name,
		shape: ShapeTransformer,
		run: func(ctx context.Context, in any) (any, error) {
			arg, err := castStageInput[T](t.name, in)
			if err != nil {
				return nil, err
			}
			v, err := t.fn(ctx, arg)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// EffectStage lifts an Effect into a dynamic stage. Input typing
// follows the same rules as TransformerStage.
func EffectStage[T any](e Effect[T]) Stage {
	if e.fn == nil {
		panic("EffectStage requires a wrapped effect")
	}
	return Stage{
		name:  e.name,
		shape: ShapeEffect,
		run: func(ctx context.Context, in any) (any, error) {
			arg, err := castStageInput[T](e.name, in)
			if err != nil {
				return nil, err
			}
			return nil, e.fn(ctx, arg)
		},
	}
}

// ActionStage lifts an Action into a dynamic stage.
func ActionStage(a Action) Stage {
	if a.fn == nil {
		panic("ActionStage requires a wrapped action")
	}
	return Stage{
		name:  a.name,
		shape: ShapeAction,
		run: func(ctx context.Context, _ any) (any, error) {
			return nil, a.fn(ctx)
		},
	}
}

// castStageInput converts a dynamic stage input to the stage's declared
// type. nil maps to the zero value so that typed-nil results flowing
// through a chain behave like absent values rather than mismatches.
func castStageInput[T any](name Name, in any) (T, error) {
	var arg T
	if in == nil {
		return arg, nil
	}
	cast, ok := in.(T)
	if !ok {
		return arg, &Error{
			Path:      []Name{name},
			InputData: in,
			Err:       fmt.Errorf("%w: stage %q takes %T, got %T", ErrStageMismatch, name, arg, in),
			Timestamp: time.Now(),
		}
	}
	return cast, nil
}
