package chainz

// Shape classifies a callable by its arity: whether it takes an input
// and whether it yields an output. A wrapper's shape is fixed at
// construction; composition derives the combined shape from the
// resolution table below and nothing else can change it.
type Shape uint8

const (
	// ShapeProducer takes nothing and yields a value.
	ShapeProducer Shape = iota
	// ShapeTransformer takes an input and yields a value.
	ShapeTransformer
	// ShapeEffect takes an input and yields nothing.
	ShapeEffect
	// ShapeAction takes nothing and yields nothing.
	ShapeAction
)

// String returns the shape's name.
func (s Shape) String() string {
	switch s {
	case ShapeProducer:
		return "producer"
	case ShapeTransformer:
		return "transformer"
	case ShapeEffect:
		return "effect"
	case ShapeAction:
		return "action"
	default:
		return "unknown"
	}
}

// Takes reports whether the shape consumes an input value.
func (s Shape) Takes() bool {
	return s == ShapeTransformer || s == ShapeEffect
}

// Yields reports whether the shape produces an output value.
func (s Shape) Yields() bool {
	return s == ShapeProducer || s == ShapeTransformer
}

// compositionTable is the single source of truth for which shape
// pairings compose and what shape the combination has. The static API
// in compose.go and the shape methods mirror these entries exactly; a
// pairing missing here is rejected with ErrInvalidComposition by the
// dynamic Chain and does not exist at all in the static API.
//
// The forwarding rule behind the table: producers and transformers feed
// their output to the next stage, effects and actions have no output
// and forward their original input instead.
var compositionTable = map[Shape]map[Shape]Shape{
	ShapeProducer: {
		ShapeTransformer: ShapeProducer,
		ShapeEffect:      ShapeAction,
		ShapeAction:      ShapeAction,
	},
	ShapeTransformer: {
		ShapeTransformer: ShapeTransformer,
		ShapeEffect:      ShapeEffect,
	},
	ShapeEffect: {
		ShapeProducer:    ShapeTransformer,
		ShapeTransformer: ShapeTransformer,
		ShapeEffect:      ShapeEffect,
	},
	ShapeAction: {
		ShapeProducer: ShapeProducer,
		ShapeAction:   ShapeAction,
	},
}
