// Package position provides the Position value type used throughout jogcore
// together with pure arithmetic helpers (add, subtract, distance, clamping,
// bounds tests, rounding) and the module's tolerance constants.
//
// Position is a plain value type: it is passed and returned by value, so
// callers can never alias internal state of a component that hands one out.
// None of the helpers raise errors; callers validate external input with
// IsValid before trusting it.
package position
