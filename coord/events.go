package coord

import (
	"time"

	"github.com/whttlr/jogcore/logging"
	"github.com/whttlr/jogcore/position"
	"github.com/whttlr/jogcore/wcs"
)

// EventKind discriminates the events the manager emits. The string values
// double as the topics used on the external event bus.
type EventKind string

// Event kinds, emitted in this fixed order after each effective change.
const (
	EventPositionUpdated EventKind = "coordinates:position-updated"
	EventMachinePosition EventKind = "coordinates:machine-position"
	EventWorkPosition    EventKind = "coordinates:work-position"
	EventWCSChanged      EventKind = "coordinates:wcs-changed"
	EventError           EventKind = "coordinates:error"
)

// Bus topics beyond the event kinds above.
const (
	// TopicRequestWCSUpdate is emitted outward when reported and derived
	// work positions drift apart, asking the transport layer to re-query
	// the controller's authoritative offsets.
	TopicRequestWCSUpdate = "coordinates:requestWCSUpdate"

	// TopicMachinePositionChanged is consumed from the bus to self-update
	// machine position.
	TopicMachinePositionChanged = "machine:position-changed"

	// TopicMachineWCSChanged is consumed from the bus to self-update
	// offsets from a coordinate-system report.
	TopicMachineWCSChanged = "machine:wcs-changed"
)

// Snapshot is an immutable bundle of coordinate state used for change
// detection and broadcast.
type Snapshot struct {
	Machine   position.Position `json:"machine"`
	Work      position.Position `json:"work"`
	ActiveWCS wcs.System        `json:"activeWCS"`
	Offsets   wcs.Offsets       `json:"wcsOffsets"`
	Timestamp time.Time         `json:"timestamp"`
}

// sameState reports whether two snapshots describe the same coordinate
// state: positions within Epsilon, WCS selection exact, offsets within
// Epsilon. Timestamps are ignored.
func (s Snapshot) sameState(o Snapshot) bool {
	return s.Machine.Equal(o.Machine, position.Epsilon) &&
		s.Work.Equal(o.Work, position.Epsilon) &&
		s.ActiveWCS == o.ActiveWCS &&
		s.Offsets.Equal(o.Offsets, position.Epsilon)
}

// ErrorKind classifies a coordinate error for machine-readable handling.
type ErrorKind string

// Error kinds.
const (
	ErrorValidation    ErrorKind = "validation"
	ErrorConversion    ErrorKind = "conversion"
	ErrorBounds        ErrorKind = "bounds"
	ErrorCommunication ErrorKind = "communication"
)

// Error is the payload of EventError. Kind carries the machine-readable
// discriminator so presentation layers need not parse Message.
type Error struct {
	ID        string         `json:"id"`
	Kind      ErrorKind      `json:"type"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// WCSChange is the payload of EventWCSChanged.
type WCSChange struct {
	Active  wcs.System  `json:"active"`
	Offsets wcs.Offsets `json:"offsets"`
}

// Event is the sum type delivered to listeners. Exactly one payload field is
// set, matching Kind.
type Event struct {
	Kind     EventKind
	Snapshot *Snapshot          // EventPositionUpdated
	Position *position.Position // EventMachinePosition, EventWorkPosition
	WCS      *WCSChange         // EventWCSChanged
	Err      *Error             // EventError
}

// Listener receives events synchronously.
type Listener func(Event)

type eventSub struct {
	id int
	fn Listener
}

// dispatcher keeps per-kind subscriber lists with in-order synchronous
// delivery, unsubscribe-by-handle and per-listener panic isolation.
type dispatcher struct {
	subs   map[EventKind][]eventSub
	nextID int
	logger logging.Logger
}

func newDispatcher(logger logging.Logger) *dispatcher {
	return &dispatcher{subs: map[EventKind][]eventSub{}, logger: logger}
}

func (d *dispatcher) on(kind EventKind, fn Listener) func() {
	d.nextID++
	id := d.nextID
	d.subs[kind] = append(d.subs[kind], eventSub{id: id, fn: fn})
	return func() {
		list := d.subs[kind]
		for i, s := range list {
			if s.id == id {
				// Removal never touches the old backing array, so a
				// delivery loop holding the previous slice still sees
				// every subscriber exactly once.
				next := make([]eventSub, 0, len(list)-1)
				next = append(next, list[:i]...)
				d.subs[kind] = append(next, list[i+1:]...)
				return
			}
		}
	}
}

func (d *dispatcher) emit(ev Event) {
	for _, s := range d.subs[ev.Kind] {
		d.deliver(s, ev)
	}
}

func (d *dispatcher) deliver(s eventSub, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("coordinate listener panicked", "event", ev.Kind, "error", r)
		}
	}()
	s.fn(ev)
}

func (d *dispatcher) count(kind EventKind) int { return len(d.subs[kind]) }

func (d *dispatcher) counts() map[EventKind]int {
	out := make(map[EventKind]int, len(d.subs))
	for k, list := range d.subs {
		if len(list) > 0 {
			out[k] = len(list)
		}
	}
	return out
}

func (d *dispatcher) clear() { d.subs = map[EventKind][]eventSub{} }
