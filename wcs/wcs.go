package wcs

import (
	"fmt"

	"github.com/whttlr/jogcore/logging"
	"github.com/whttlr/jogcore/position"
)

// System names one of the six work coordinate systems from the G-code
// standard.
type System string

// The closed set of work coordinate systems.
const (
	G54 System = "G54"
	G55 System = "G55"
	G56 System = "G56"
	G57 System = "G57"
	G58 System = "G58"
	G59 System = "G59"
)

// Systems returns all six systems in canonical order.
func Systems() []System {
	return []System{G54, G55, G56, G57, G58, G59}
}

// Valid reports whether s is one of the six known systems.
func (s System) Valid() bool {
	switch s {
	case G54, G55, G56, G57, G58, G59:
		return true
	default:
		return false
	}
}

// Offsets maps every system to its offset. A well-formed Offsets value is
// always fully populated; use NewOffsets to obtain one.
type Offsets map[System]position.Position

// NewOffsets returns a fully populated all-zero offset table.
func NewOffsets() Offsets {
	o := make(Offsets, 6)
	for _, s := range Systems() {
		o[s] = position.Position{}
	}
	return o
}

// Clone returns an independent copy of o, filling in any missing systems
// with zero.
func (o Offsets) Clone() Offsets {
	c := NewOffsets()
	for s, p := range o {
		if s.Valid() {
			c[s] = p
		}
	}
	return c
}

// Equal reports whether every offset in o matches q within tolerance.
func (o Offsets) Equal(q Offsets, tolerance float64) bool {
	for _, s := range Systems() {
		if !o[s].Equal(q[s], tolerance) {
			return false
		}
	}
	return true
}

// Sentinel errors returned by Manager mutations. Callers are expected to
// handle these directly rather than have them swallowed internally.
var (
	ErrInvalidPosition = fmt.Errorf("wcs: invalid position")
	ErrUnknownSystem   = fmt.Errorf("wcs: unknown coordinate system")
	ErrMissingPayload  = fmt.Errorf("wcs: operation missing required payload")
	ErrUnknownOp       = fmt.Errorf("wcs: unknown operation")
)

// Change is the payload delivered to subscribers after each effective
// mutation. Both fields are copies.
type Change struct {
	Active  System
	Offsets Offsets
}

// State is a value snapshot of the manager.
type State struct {
	Active  System
	Offsets Offsets
}

type subscriber struct {
	id int
	fn func(Change)
}

// Manager owns the offset table and the active-system selector.
// It is single-threaded by contract: callers serialize access.
type Manager struct {
	active  System
	offsets Offsets

	subscribers []subscriber
	nextSubID   int

	logger logging.Logger
}

// NewManager creates a Manager with all-zero offsets and G54 active.
// A nil logger is replaced with a no-op.
func NewManager(logger logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Manager{active: G54, offsets: NewOffsets(), logger: logger}
}

// ActiveSystem returns the currently selected system.
func (m *Manager) ActiveSystem() System { return m.active }

// ActiveOffset returns the offset of the active system.
func (m *Manager) ActiveOffset() position.Position { return m.offsets[m.active] }

// Offset returns the offset stored for s. Unknown systems read as zero.
func (m *Manager) Offset(s System) position.Position { return m.offsets[s] }

// AllOffsets returns a copy of the full offset table.
func (m *Manager) AllOffsets() Offsets { return m.offsets.Clone() }

// State returns a value snapshot of the active system and all offsets.
func (m *Manager) State() State {
	return State{Active: m.active, Offsets: m.offsets.Clone()}
}

// SetActive selects s. Selecting the already-active system is a no-op.
func (m *Manager) SetActive(s System) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSystem, s)
	}
	if s == m.active {
		return nil
	}
	m.active = s
	m.notify()
	return nil
}

// SetOffset stores pos as the offset for s. Non-finite positions are
// rejected before any state changes; writing the current value is a no-op.
func (m *Manager) SetOffset(s System, pos position.Position) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSystem, s)
	}
	if !pos.IsValid() {
		return fmt.Errorf("%w: %s offset %+v", ErrInvalidPosition, s, pos)
	}
	if pos == m.offsets[s] {
		return nil
	}
	m.offsets[s] = pos
	m.notify()
	return nil
}

// ZeroActive sets the active system's offset to machinePos, so the work
// position at that instant reads zero.
func (m *Manager) ZeroActive(machinePos position.Position) error {
	return m.Zero(m.active, machinePos)
}

// Zero sets the offset of s to machinePos.
func (m *Manager) Zero(s System, machinePos position.Position) error {
	if !machinePos.IsValid() {
		return fmt.Errorf("%w: machine position %+v", ErrInvalidPosition, machinePos)
	}
	return m.SetOffset(s, machinePos)
}

// CopyOffset copies the offset of from into to. Copying a system onto
// itself is a no-op.
func (m *Manager) CopyOffset(from, to System) error {
	if !from.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSystem, from)
	}
	if !to.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSystem, to)
	}
	if from == to {
		return nil
	}
	return m.SetOffset(to, m.offsets[from])
}

// Reset sets the offset of s back to zero.
func (m *Manager) Reset(s System) error {
	return m.SetOffset(s, position.Position{})
}

// ResetAll zeroes every offset. A single notification is delivered if
// anything actually changed.
func (m *Manager) ResetAll() {
	changed := false
	for _, s := range Systems() {
		if m.offsets[s] != (position.Position{}) {
			m.offsets[s] = position.Position{}
			changed = true
		}
	}
	if changed {
		m.notify()
	}
}

// Subscribe registers fn for change notifications and returns an
// unsubscribe handle. Delivery is synchronous and in subscription order.
func (m *Manager) Subscribe(fn func(Change)) func() {
	m.nextSubID++
	id := m.nextSubID
	m.subscribers = append(m.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range m.subscribers {
			if s.id == id {
				// Removal never touches the old backing array, so an
				// in-flight notify still reaches every subscriber
				// exactly once.
				next := make([]subscriber, 0, len(m.subscribers)-1)
				next = append(next, m.subscribers[:i]...)
				m.subscribers = append(next, m.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) notify() {
	change := Change{Active: m.active, Offsets: m.offsets.Clone()}
	for _, s := range m.subscribers {
		m.deliver(s, change)
	}
}

func (m *Manager) deliver(s subscriber, change Change) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("wcs subscriber panicked", "error", r)
		}
	}()
	s.fn(change)
}

// HasNonZeroOffsets reports whether any system carries a non-zero offset.
func (m *Manager) HasNonZeroOffsets() bool {
	for _, s := range Systems() {
		if m.offsets[s] != (position.Position{}) {
			return true
		}
	}
	return false
}

// ActiveSystems returns the systems carrying a non-zero offset on any axis,
// in canonical order.
func (m *Manager) ActiveSystems() []System {
	var out []System
	for _, s := range Systems() {
		if m.offsets[s] != (position.Position{}) {
			out = append(out, s)
		}
	}
	return out
}

// Summary is a read-only digest of manager state for diagnostics.
type Summary struct {
	Active          System   `json:"active"`
	NonZeroSystems  []System `json:"nonZeroSystems"`
	SubscriberCount int      `json:"subscriberCount"`
}

// Summary returns a diagnostic digest.
func (m *Manager) Summary() Summary {
	return Summary{
		Active:          m.active,
		NonZeroSystems:  m.ActiveSystems(),
		SubscriberCount: len(m.subscribers),
	}
}
