// Package wcs owns the six G54–G59 work coordinate system offsets and the
// active-system selector.
//
// Manager is the single owner of offset state. Every getter returns value
// copies, so callers can never alias internal state. Mutations are
// validate-then-commit: structurally invalid input (non-finite positions,
// unknown systems, incomplete operations) is rejected with an error before
// any state changes, and redundant writes are no-ops that produce no
// notification. Subscribers are notified synchronously, in subscription
// order, after each effective change; a panicking subscriber is isolated and
// logged without blocking delivery to the others.
//
// Profiles and exported configurations are plain value snapshots of the six
// offsets, suitable for persistence by an outer layer. JSON forms are
// schema-validated before a single offset is applied.
package wcs
