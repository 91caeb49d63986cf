// Package chainz provides a small, type-safe algebra for composing
// single-argument callables into pipelines in Go.
//
// # Overview
//
// chainz classifies every unary callable by its shape - whether it takes
// an input and whether it yields an output - and defines exactly which
// shapes may be chained together and what shape the combination has.
// Composition is resolved by the type system, not by runtime inspection,
// so an impossible pairing simply does not compile.
//
// # Installation
//
//	go get github.com/zoobzio/chainz
//
// Requires Go 1.23+.
//
// # The four shapes
//
// Every wrapper is an immutable value created by a constructor:
//
//	greet := chainz.NewProducer("greet", func(ctx context.Context) (string, error) {
//	    return "hello", nil
//	})                                                   // Producer[string]: yields, takes nothing
//
//	upper := chainz.NewTransformer("upper", func(ctx context.Context, s string) (string, error) {
//	    return strings.ToUpper(s), nil
//	})                                                   // Transformer[string, string]: takes and yields
//
//	show := chainz.NewEffect("show", func(ctx context.Context, s string) error {
//	    _, err := fmt.Println(s)
//	    return err
//	})                                                   // Effect[string]: takes, yields nothing
//
//	flush := chainz.NewAction("flush", func(ctx context.Context) error {
//	    return out.Flush()
//	})                                                   // Action: takes and yields nothing
//
// # Composition
//
// Type-preserving pairings are methods; pairings that change a type
// parameter are package-level functions, because Go methods cannot
// introduce new type parameters:
//
//	pipeline := chainz.Map(greet, upper).ThenEffect(show) // Action
//	err := pipeline.Run(ctx)
//
// The forwarding rule is the heart of the algebra: shapes that yield a
// value (Producer, Transformer) feed that value into the next stage,
// while shapes that yield nothing (Effect, Action) forward their
// original input unchanged. Composing an Effect with a Transformer runs
// both against the same argument:
//
//	audit := chainz.Before(logIt, upper) // logIt(x); then upper(x)
//
// # Null tolerance
//
// A value-yielding wrapper can be decorated so that a nil result, or a
// failure satisfying errors.Is(err, ErrDereference), is replaced by a
// caller-supplied default. Every other failure propagates unchanged:
//
//	name := chainz.NewProducer("lookup", lookupName).WithDefault("anonymous")
//
// Void shapes support the degenerate form, Tolerant, which swallows only
// the dereference failure without substituting anything.
//
// # Dynamic chains
//
// Chain is the runtime counterpart of the static algebra. Stages carry a
// Shape tag, And validates each pairing against the same resolution
// table and rejects undefined ones with ErrInvalidComposition, and
// Process threads values between stages using the forwarding rule above.
// Chains can also be assembled declaratively from YAML through a
// Registry of named stages.
//
// Chain provides observability through metrics (stage counts, durations,
// default substitutions), tracing spans, and typed events emitted via
// hooks. Every Process invocation is tagged with a UUID so concurrent
// invocations can be correlated in event streams.
//
// # Concurrency
//
// Wrappers are stateless function values: the same composed wrapper may
// be invoked from any number of goroutines as long as the underlying
// callables tolerate it. Chain is thread-safe for concurrent And and
// Process calls. Nothing in this package spawns goroutines, blocks, or
// retries; an invocation either returns, or fails, synchronously.
package chainz
