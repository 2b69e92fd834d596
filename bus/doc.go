// Package bus defines the event-bus capability the coordinate manager uses
// to talk to an out-of-process transport layer, plus an in-memory
// implementation for single-process applications and tests.
package bus
