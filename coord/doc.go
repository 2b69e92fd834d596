// Package coord implements the coordinate-tracking engine: the single
// authoritative machine position, the work position derived from the active
// work coordinate system, and the typed event channel broadcasting state
// changes.
//
// Manager is the orchestrator and sole writer of raw machine position. It
// composes a wcs.Manager (offset ownership) and a validate.Validator
// (advisory bounds checks), deduplicates redundant updates so every distinct
// state is observed exactly once, and parses controller telemetry strings
// into position state.
//
// The engine is single-threaded and synchronous by contract: callers
// serialize inbound telemetry one message at a time, every public method
// runs validate → commit-or-reject → emit to completion before returning,
// and listeners fire synchronously in subscription order. A panicking
// listener is caught, logged and never blocks delivery to the others.
package coord
