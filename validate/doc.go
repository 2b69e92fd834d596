// Package validate provides advisory checks of positions, offsets, jogs and
// coordinate conversions against configurable machine bounds and safety
// limits.
//
// Nothing in this package raises an error or panics: every check returns a
// Result carrying a validity flag and human-readable error strings. The
// decision of whether to reject, warn or ignore belongs to the caller (the
// coordinate manager rejects on the user path and warns on the telemetry
// path).
package validate
