package chainz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Metric keys for Chain observability.
const (
	ChainProcessedTotal = metricz.Key("chain.processed.total")
	ChainSuccessesTotal = metricz.Key("chain.successes.total")
	ChainFailuresTotal  = metricz.Key("chain.failures.total")
	ChainDefaultsTotal  = metricz.Key("chain.defaults.total")
	ChainStagesTotal    = metricz.Key("chain.stages.total")
	ChainDurationMs     = metricz.Key("chain.duration.ms")
)

// Span names for Chain.
const (
	ChainProcessSpan = tracez.Key("chain.process")
	ChainStageSpan   = tracez.Key("chain.stage")
)

// Span tags for Chain.
const (
	ChainTagShape       = tracez.Tag("chain.shape")
	ChainTagStageCount  = tracez.Tag("chain.stage_count")
	ChainTagStageNumber = tracez.Tag("chain.stage_number")
	ChainTagStageName   = tracez.Tag("chain.stage_name")
	ChainTagSuccess     = tracez.Tag("chain.success")
	ChainTagError       = tracez.Tag("chain.error")
	ChainTagDefaultUsed = tracez.Tag("chain.default_used")
)

// Hook event keys for Chain.
const (
	ChainEventStageComplete = hookz.Key("chain.stage_complete")
	ChainEventDefaultUsed   = hookz.Key("chain.default_used")
	ChainEventComplete      = hookz.Key("chain.complete")
)

// ChainEvent represents a chain processing event. It is emitted via
// hooks as stages complete, when the null-tolerant boundary substitutes
// a default, and when an invocation finishes. The InvocationID ties
// together every event emitted by one Process call, so concurrent
// invocations of the same chain can be told apart.
type ChainEvent struct {
	Err          error
	Name         Name
	StageName    Name
	InvocationID uuid.UUID
	StageNumber  int
	TotalStages  int
	StageShape   Shape
	Success      bool
	DefaultUsed  bool
	Duration     time.Duration
	Timestamp    time.Time
}

// Chain is the dynamic counterpart of the static composition algebra.
// It holds shape-tagged stages, validates every pairing against the
// resolution table at composition time, and threads values between
// stages with the same forwarding rule the static API compiles in:
// producers and transformers pass their output forward, effects and
// actions pass their original input forward.
//
// Use Chain when the pipeline layout is not known at compile time -
// assembled from configuration, built per request, or validated
// table-first. When the layout is static, prefer the typed wrappers;
// they reject invalid pairings at compile time and skip the runtime
// type checks.
//
// A Chain has a current shape: the shape of the composition so far.
// And fails with ErrInvalidComposition when the next stage's shape has
// no entry for the current shape in the table, and the chain is left
// unchanged.
//
// Example:
//
//	chain := chainz.NewChain("greeting", chainz.ProducerStage(fetch))
//	if err := chain.And(chainz.TransformerStage(upper)); err != nil {
//	    return err
//	}
//	out, err := chain.Process(ctx, nil)
//
// # Observability
//
// Chain provides comprehensive observability through metrics, tracing,
// and events:
//
// Metrics:
//   - chain.processed.total: Counter of chain invocations
//   - chain.successes.total: Counter of successful completions
//   - chain.failures.total: Counter of failed invocations
//   - chain.defaults.total: Counter of default substitutions
//   - chain.stages.total: Gauge of registered stages
//   - chain.duration.ms: Gauge of last invocation duration
//
// Traces:
//   - chain.process: Parent span for the whole invocation
//   - chain.stage: Child span per stage
//
// Events (via hooks):
//   - chain.stage_complete: Fired as each stage finishes
//   - chain.default_used: Fired when the boundary substitutes a default
//   - chain.complete: Fired when an invocation finishes
//
// Chain is thread-safe: And and Process may be called concurrently.
type Chain struct {
	def        any
	clock      clockz.Clock
	metrics    *metricz.Registry
	tracer     *tracez.Tracer
	hooks      *hookz.Hooks[ChainEvent]
	name       Name
	stages     []Stage
	shape      Shape
	hasDefault bool
	tolerant   bool
	mu         sync.RWMutex
}

// NewChain creates a Chain whose composition starts with head. The
// chain's initial shape is the head stage's shape. It panics if head is
// not a lifted stage.
func NewChain(name Name, head Stage) *Chain {
	if head.run == nil {
		panic("NewChain requires a wrapped head stage")
	}

	metrics := metricz.New()
	metrics.Counter(ChainProcessedTotal)
	metrics.Counter(ChainSuccessesTotal)
	metrics.Counter(ChainFailuresTotal)
	metrics.Counter(ChainDefaultsTotal)
	metrics.Gauge(ChainStagesTotal)
	metrics.Gauge(ChainDurationMs)

	return &Chain{
		name:    name,
		stages:  []Stage{head},
		shape:   head.shape,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[ChainEvent](),
	}
}

// And appends a stage to the chain. The pairing of the chain's current
// shape with the stage's shape must appear in the resolution table;
// otherwise And returns ErrInvalidComposition and the chain is
// unmodified. Composition never invokes anything.
//
// A decorated chain (WithDefault or Tolerant) cannot be extended: the
// decorator wraps the final composed callable.
func (c *Chain) And(stage Stage) error {
	if stage.run == nil {
		panic("And requires a wrapped stage")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.hasDefault || c.tolerant {
		return fmt.Errorf("%w: chain %q is already decorated", ErrInvalidComposition, c.name)
	}
	result, ok := compositionTable[c.shape][stage.shape]
	if !ok {
		return fmt.Errorf("%w: %s cannot be followed by %s", ErrInvalidComposition, c.shape, stage.shape)
	}
	c.stages = append(c.stages, stage)
	c.shape = result
	return nil
}

// WithDefault installs a null-tolerant boundary on a value-yielding
// chain: an absent final value or an ErrDereference failure anywhere in
// the chain yields def instead. Void chains have no value to default;
// use Tolerant for those.
func (c *Chain) WithDefault(def any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.shape.Yields() {
		return fmt.Errorf("%w: %s chain yields no value to default", ErrInvalidComposition, c.shape)
	}
	c.def = def
	c.hasDefault = true
	return nil
}

// Tolerant installs the degenerate null-tolerant boundary on a void
// chain: an ErrDereference failure is silently discarded. Value-yielding
// chains must use WithDefault so callers still receive a value.
func (c *Chain) Tolerant() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.shape.Yields() {
		return fmt.Errorf("%w: %s chain yields a value, use WithDefault", ErrInvalidComposition, c.shape)
	}
	c.tolerant = true
	return nil
}

// WithClock sets a custom clock for testing.
func (c *Chain) WithClock(clock clockz.Clock) *Chain {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock = clock
	return c
}

// getClock returns the clock to use.
func (c *Chain) getClock() clockz.Clock {
	if c.clock == nil {
		return clockz.RealClock
	}
	return c.clock
}

// Shape returns the shape of the composition so far.
func (c *Chain) Shape() Shape {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shape
}

// Len returns the number of stages in the chain.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.stages)
}

// Name returns the name of this chain.
func (c *Chain) Name() Name {
	return c.name
}

// Process invokes the chain. For chains whose shape takes an input
// (transformer, effect) the input argument seeds the first stage; other
// chains ignore it. Value-yielding chains return the final value; void
// chains return nil.
//
// Execution is fail-fast: the first failing stage stops the chain. If
// the failure is the distinguished ErrDereference and the chain is
// decorated, the default is substituted (or the failure discarded);
// stages after the failing one are never invoked. Any other failure is
// returned with this chain's name prepended to its path.
func (c *Chain) Process(ctx context.Context, input any) (result any, err error) {
	c.mu.RLock()
	stages := make([]Stage, len(c.stages))
	copy(stages, c.stages)
	shape := c.shape
	def := c.def
	hasDefault := c.hasDefault
	tolerant := c.tolerant
	c.mu.RUnlock()

	if ctx == nil {
		ctx = context.Background()
	}
	clock := c.getClock()
	id := uuid.New()
	start := clock.Now()

	c.metrics.Counter(ChainProcessedTotal).Inc()
	c.metrics.Gauge(ChainStagesTotal).Set(float64(len(stages)))

	ctx, span := c.tracer.StartSpan(ctx, ChainProcessSpan)
	span.SetTag(ChainTagShape, shape.String())
	span.SetTag(ChainTagStageCount, fmt.Sprintf("%d", len(stages)))
	defer func() {
		elapsed := clock.Now().Sub(start)
		c.metrics.Gauge(ChainDurationMs).Set(float64(elapsed.Milliseconds()))
		if err == nil {
			span.SetTag(ChainTagSuccess, "true")
			c.metrics.Counter(ChainSuccessesTotal).Inc()
		} else {
			span.SetTag(ChainTagSuccess, "false")
			span.SetTag(ChainTagError, err.Error())
			c.metrics.Counter(ChainFailuresTotal).Inc()
		}
		span.Finish()

		_ = c.hooks.Emit(ctx, ChainEventComplete, ChainEvent{ //nolint:errcheck
			Name:         c.name,
			InvocationID: id,
			TotalStages:  len(stages),
			Success:      err == nil,
			Err:          err,
			Duration:     elapsed,
			Timestamp:    clock.Now(),
		})
	}()

	// substituteDefault applies the null-tolerant boundary and records it.
	substituteDefault := func() (any, error) {
		c.metrics.Counter(ChainDefaultsTotal).Inc()
		span.SetTag(ChainTagDefaultUsed, "true")

		_ = c.hooks.Emit(ctx, ChainEventDefaultUsed, ChainEvent{ //nolint:errcheck
			Name:         c.name,
			InvocationID: id,
			Success:      true,
			DefaultUsed:  true,
			Timestamp:    clock.Now(),
		})

		if !hasDefault {
			return nil, nil
		}
		return def, nil
	}

	var cur any
	if stages[0].shape.Takes() {
		cur = input
	}

	for i, stage := range stages {
		stageCtx, stageSpan := c.tracer.StartSpan(ctx, ChainStageSpan)
		stageSpan.SetTag(ChainTagStageNumber, fmt.Sprintf("%d", i+1))
		stageSpan.SetTag(ChainTagStageName, stage.name)
		stageSpan.SetTag(ChainTagShape, stage.shape.String())

		stageStart := clock.Now()
		out, stageErr := stage.run(stageCtx, cur)
		stageDuration := clock.Now().Sub(stageStart)
		if stageErr != nil {
			stageSpan.SetTag(ChainTagSuccess, "false")
			stageSpan.SetTag(ChainTagError, stageErr.Error())
		} else {
			stageSpan.SetTag(ChainTagSuccess, "true")
		}
		stageSpan.Finish()

		_ = c.hooks.Emit(ctx, ChainEventStageComplete, ChainEvent{ //nolint:errcheck
			Name:         c.name,
			InvocationID: id,
			StageName:    stage.name,
			StageShape:   stage.shape,
			StageNumber:  i + 1,
			TotalStages:  len(stages),
			Success:      stageErr == nil,
			Err:          stageErr,
			Duration:     stageDuration,
			Timestamp:    clock.Now(),
		})

		if stageErr != nil {
			if (hasDefault || tolerant) && errors.Is(stageErr, ErrDereference) {
				return substituteDefault()
			}
			return nil, prependPath(stageErr, c.name, input, start)
		}

		// Forwarding rule: value-yielding stages replace the current
		// value, effects pass it through, actions clear it.
		switch stage.shape {
		case ShapeProducer, ShapeTransformer:
			cur = out
		case ShapeEffect:
		case ShapeAction:
			cur = nil
		}
	}

	if !shape.Yields() {
		return nil, nil
	}
	if hasDefault && isAbsent(cur) {
		return substituteDefault()
	}
	return cur, nil
}

// Metrics returns the metrics registry for this chain.
func (c *Chain) Metrics() *metricz.Registry {
	return c.metrics
}

// Tracer returns the tracer for this chain.
func (c *Chain) Tracer() *tracez.Tracer {
	return c.tracer
}

// OnStageComplete registers a handler fired as each stage finishes,
// successfully or not. Handlers run asynchronously.
func (c *Chain) OnStageComplete(handler func(context.Context, ChainEvent) error) error {
	_, err := c.hooks.Hook(ChainEventStageComplete, handler)
	return err
}

// OnDefaultUsed registers a handler fired when the null-tolerant
// boundary substitutes the default or discards a dereference failure.
func (c *Chain) OnDefaultUsed(handler func(context.Context, ChainEvent) error) error {
	_, err := c.hooks.Hook(ChainEventDefaultUsed, handler)
	return err
}

// OnComplete registers a handler fired when an invocation finishes.
func (c *Chain) OnComplete(handler func(context.Context, ChainEvent) error) error {
	_, err := c.hooks.Hook(ChainEventComplete, handler)
	return err
}

// Close gracefully shuts down observability components.
func (c *Chain) Close() error {
	if c.tracer != nil {
		c.tracer.Close()
	}
	c.hooks.Close()
	return nil
}
