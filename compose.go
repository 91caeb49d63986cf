package chainz

import "context"

// The functions in this file are the type-changing half of the
// composition table. Go methods cannot introduce new type parameters,
// so any pairing whose result involves a type the receiver does not
// already carry lives here as a package-level generic function. The
// type-preserving pairings are methods on the shapes themselves.
//
// Pairings with no entry in the table - Producer with Producer,
// Transformer with Producer or Action, Effect with Action, Action with
// Transformer or Effect - have no function and no method. They do not
// compile.

// Map composes a producer with a transformer: the produced value is fed
// into the transformer and the combination is itself a Producer.
//
//	fetch := chainz.NewProducer("fetch", fetchUser)      // Producer[User]
//	brief := chainz.NewTransformer("brief", summarize)   // Transformer[User, Summary]
//	pipeline := chainz.Map(fetch, brief)                 // Producer[Summary]
func Map[R, S any](p Producer[R], next Transformer[R, S]) Producer[S] {
	if p.fn == nil || next.fn == nil {
		panic("Map requires wrapped callables")
	}
	return Producer[S]{
		name: joinNames(p.name, next.name),
		fn: func(ctx context.Context) (S, error) {
			v, err := p.fn(ctx)
			if err != nil {
				var zero S
				return zero, err
			}
			return next.fn(ctx, v)
		},
	}
}

// Compose chains two transformers: the first's output becomes the
// second's input. Composition is associative - Compose(Compose(a, b), c)
// and Compose(a, Compose(b, c)) invoke the same callables in the same
// order with the same values.
func Compose[T, R, S any](t Transformer[T, R], next Transformer[R, S]) Transformer[T, S] {
	if t.fn == nil || next.fn == nil {
		panic("Compose requires wrapped callables")
	}
	return Transformer[T, S]{
		name: joinNames(t.name, next.name),
		fn: func(ctx context.Context, arg T) (S, error) {
			v, err := t.fn(ctx, arg)
			if err != nil {
				var zero S
				return zero, err
			}
			return next.fn(ctx, v)
		},
	}
}

// Before composes an effect with a transformer over the same input.
// The effect yields nothing, so there is no result to forward: the
// transformer receives the original argument, after the effect has
// observed it.
func Before[T, R any](e Effect[T], next Transformer[T, R]) Transformer[T, R] {
	if e.fn == nil || next.fn == nil {
		panic("Before requires wrapped callables")
	}
	return Transformer[T, R]{
		name: joinNames(e.name, next.name),
		fn: func(ctx context.Context, arg T) (R, error) {
			if err := e.fn(ctx, arg); err != nil {
				var zero R
				return zero, err
			}
			return next.fn(ctx, arg)
		},
	}
}

// Supply composes an effect with a producer: the effect consumes the
// argument, then the producer supplies the result. The combination
// takes an input and yields a value, so it is a Transformer.
func Supply[T, R any](e Effect[T], next Producer[R]) Transformer[T, R] {
	if e.fn == nil || next.fn == nil {
		panic("Supply requires wrapped callables")
	}
	return Transformer[T, R]{
		name: joinNames(e.name, next.name),
		fn: func(ctx context.Context, arg T) (R, error) {
			if err := e.fn(ctx, arg); err != nil {
				var zero R
				return zero, err
			}
			return next.fn(ctx)
		},
	}
}

// After composes an action with a producer: the action runs first, then
// the producer yields the result.
func After[R any](a Action, next Producer[R]) Producer[R] {
	if a.fn == nil || next.fn == nil {
		panic("After requires wrapped callables")
	}
	return Producer[R]{
		name: joinNames(a.name, next.name),
		fn: func(ctx context.Context) (R, error) {
			if err := a.fn(ctx); err != nil {
				var zero R
				return zero, err
			}
			return next.fn(ctx)
		},
	}
}
