package position

// Numeric tolerances used across the engine. They live here, in the one
// package every other package imports, so no component re-derives its own
// copy. All distances are millimetres.
const (
	// Epsilon is the position-equality and update-dedup tolerance.
	Epsilon = 1e-4

	// RoundDecimals is the precision machine positions are committed at.
	// Rounding absorbs floating accumulation and telemetry jitter.
	RoundDecimals = 4

	// WorkCheckTolerance bounds the allowed drift between a controller
	// reported work position and the one derived from local state.
	WorkCheckTolerance = 1e-3

	// ConversionSanityBound is the largest per-axis delta a machine/work
	// conversion may produce before it is flagged as suspect.
	ConversionSanityBound = 50000

	// LargeOffsetThreshold marks a WCS offset as unusually large.
	LargeOffsetThreshold = 10000

	// LongJogThreshold marks a single jog movement as unusually long.
	LongJogThreshold = 1000

	// DefaultRapidDistance is the default straight-line limit for rapid
	// movement checks.
	DefaultRapidDistance = 100
)
