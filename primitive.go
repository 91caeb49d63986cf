package chainz

// Aliases for the int-valued shapes. Generic instantiation already
// specializes these at compile time; the aliases exist for readability
// in numeric pipelines, not for performance.
type (
	// IntProducer yields an int.
	IntProducer = Producer[int]
	// IntOperator transforms an int into an int.
	IntOperator = Transformer[int, int]
	// IntEffect consumes an int.
	IntEffect = Effect[int]
)
