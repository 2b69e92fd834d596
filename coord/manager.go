package coord

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/whttlr/jogcore/bus"
	"github.com/whttlr/jogcore/config"
	"github.com/whttlr/jogcore/logging"
	"github.com/whttlr/jogcore/position"
	"github.com/whttlr/jogcore/validate"
	"github.com/whttlr/jogcore/wcs"
)

// Manager is the single source of truth for machine position. All mutations
// go through its methods; every getter returns value copies.
type Manager struct {
	cfg       config.Config
	machine   position.Position
	wcs       *wcs.Manager
	validator *validate.Validator

	listeners   *dispatcher
	lastEmitted *Snapshot
	lastUpdate  time.Time

	bus    bus.Bus
	logger logging.Logger

	unsubWCS func()
	disposed bool
	// suppress holds back emission while a compound mutation (reset) is in
	// flight, so transient intermediate states are never observed.
	suppress bool
}

type options struct {
	cfg       config.Config
	logger    logging.Logger
	bus       bus.Bus
	initial   *position.Position
	activeWCS wcs.System
}

// Option configures a Manager at construction.
type Option func(*options)

// WithConfig supplies the immutable engine configuration (bounds, safety
// limits).
func WithConfig(cfg config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger injects a logger. Defaults to a no-op.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithBus attaches an external event bus. The manager forwards its events
// outward on it and self-updates from machine:* topics.
func WithBus(b bus.Bus) Option {
	return func(o *options) { o.bus = b }
}

// WithInitialPosition seeds the machine position. Invalid positions are
// ignored.
func WithInitialPosition(p position.Position) Option {
	return func(o *options) { o.initial = &p }
}

// WithActiveWCS selects the initial work coordinate system. Unknown systems
// are ignored and G54 stays active.
func WithActiveWCS(s wcs.System) Option {
	return func(o *options) { o.activeWCS = s }
}

// NewManager constructs a Manager with a fresh wcs.Manager and Validator.
func NewManager(opts ...Option) *Manager {
	o := options{cfg: config.Default(), logger: logging.NoOpLogger{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NoOpLogger{}
	}

	m := &Manager{
		cfg:       o.cfg,
		wcs:       wcs.NewManager(o.logger),
		validator: validate.New(o.cfg.MachineBounds, o.cfg.SafetyLimits),
		listeners: newDispatcher(o.logger),
		bus:       o.bus,
		logger:    o.logger,
	}

	if o.activeWCS.Valid() {
		_ = m.wcs.SetActive(o.activeWCS)
	}
	if o.initial != nil && o.initial.IsValid() {
		m.machine = o.initial.Round(position.RoundDecimals)
	}

	// Offset state lives in the wcs manager; what subscribers observe is
	// this manager's concern. The bridge between the two is this single
	// subscription.
	m.unsubWCS = m.wcs.Subscribe(func(wcs.Change) { m.emitPositionUpdate() })

	if m.bus != nil {
		m.bus.On(TopicMachinePositionChanged, func(data any) {
			switch p := data.(type) {
			case position.Position:
				m.UpdateMachinePosition(p, "event-bus")
			case *position.Position:
				if p != nil {
					m.UpdateMachinePosition(*p, "event-bus")
				}
			case string:
				m.ProcessMachineStatus(p)
			}
		})
		m.bus.On(TopicMachineWCSChanged, func(data any) {
			if raw, ok := data.(string); ok {
				m.ProcessCoordinateSystemReport(raw)
			}
		})
	}
	return m
}

// On subscribes fn to events of the given kind and returns an unsubscribe
// handle. Delivery is synchronous and in subscription order.
func (m *Manager) On(kind EventKind, fn Listener) func() {
	return m.listeners.on(kind, fn)
}

// UpdateMachinePosition is the only mutator of raw machine position. Invalid
// positions are reported via EventError and never reach state; updates
// within Epsilon of the current position are silently absorbed.
func (m *Manager) UpdateMachinePosition(pos position.Position, source string) {
	if m.disposed {
		return
	}
	if res := m.validator.ValidatePosition(pos, nil); !res.Valid {
		m.emitError(ErrorValidation, "machine position update rejected", map[string]any{
			"source":   source,
			"position": pos,
			"errors":   res.Errors,
		})
		return
	}

	rounded := pos.Round(position.RoundDecimals)
	if rounded.Equal(m.machine, position.Epsilon) {
		return
	}

	m.machine = rounded
	m.lastUpdate = time.Now()
	m.emitPositionUpdate()
}

// MachinePosition returns the current raw machine position.
func (m *Manager) MachinePosition() position.Position { return m.machine }

// WorkPosition returns the machine position expressed in the active work
// coordinate system.
func (m *Manager) WorkPosition() position.Position {
	return m.MachineToWork(m.machine, m.wcs.ActiveOffset())
}

// ActiveWCS returns the selected work coordinate system.
func (m *Manager) ActiveWCS() wcs.System { return m.wcs.ActiveSystem() }

// WCSOffsets returns a copy of the full offset table.
func (m *Manager) WCSOffsets() wcs.Offsets { return m.wcs.AllOffsets() }

// Snapshot returns a fresh snapshot of the full coordinate state.
func (m *Manager) Snapshot() Snapshot { return m.snapshot() }

func (m *Manager) snapshot() Snapshot {
	return Snapshot{
		Machine:   m.machine,
		Work:      m.MachineToWork(m.machine, m.wcs.ActiveOffset()),
		ActiveWCS: m.wcs.ActiveSystem(),
		Offsets:   m.wcs.AllOffsets(),
		Timestamp: time.Now().UTC(),
	}
}

// MachineToWork converts a machine position to a work position under the
// given offset. A failed sanity check is logged, never blocking: telemetry
// flow must not stall on a soft warning.
func (m *Manager) MachineToWork(pos, offset position.Position) position.Position {
	out := pos.Sub(offset).Round(position.RoundDecimals)
	if res := m.validator.ValidateCoordinateConversion(pos, out, "machine-to-work", 0); !res.Valid {
		m.logger.Warn("suspect machine-to-work conversion", "errors", res.Errors)
	}
	return out
}

// WorkToMachine converts a work position back to machine space under the
// given offset. Inverse of MachineToWork within Epsilon.
func (m *Manager) WorkToMachine(pos, offset position.Position) position.Position {
	out := pos.Add(offset).Round(position.RoundDecimals)
	if res := m.validator.ValidateCoordinateConversion(pos, out, "work-to-machine", 0); !res.Valid {
		m.logger.Warn("suspect work-to-machine conversion", "errors", res.Errors)
	}
	return out
}

// SetActiveWCS selects the active work coordinate system.
func (m *Manager) SetActiveWCS(s wcs.System) error { return m.wcs.SetActive(s) }

// ZeroActiveWCS zeroes the work position of the active system at the
// current machine position.
func (m *Manager) ZeroActiveWCS() error { return m.wcs.ZeroActive(m.machine) }

// ZeroWCS zeroes the work position of s at the current machine position.
func (m *Manager) ZeroWCS(s wcs.System) error { return m.wcs.Zero(s, m.machine) }

// SetWCSOffset stores a user-originated offset after a pre-commit check.
// On validation failure it emits EventError and never touches the wcs
// manager, so offsets are never partially applied.
func (m *Manager) SetWCSOffset(s wcs.System, offset position.Position) error {
	res := m.validator.ValidateWCSOffset(offset, m.machine, s)
	if !res.Valid {
		m.emitError(ErrorValidation, fmt.Sprintf("%s offset rejected", s), map[string]any{
			"system": s,
			"offset": offset,
			"errors": res.Errors,
		})
		return fmt.Errorf("coord: %s offset rejected: %s", s, strings.Join(res.Errors, "; "))
	}
	return m.wcs.SetOffset(s, offset)
}

// JogTarget computes the position a single-axis jog from the current
// machine position would reach, plus its validity. It never mutates state;
// acting on the target belongs to an external motion layer. Long rapids are
// additionally logged.
func (m *Manager) JogTarget(distance float64, axis position.Axis) validate.JogResult {
	jr := m.validator.ValidateJogMovement(m.machine, distance, axis)
	if jr.Valid {
		if rapid := m.validator.ValidateRapidMovement(m.machine, jr.Target, 0); !rapid.Valid {
			m.logger.Warn("jog target exceeds rapid movement limits", "errors", rapid.Errors)
		}
	}
	return jr
}

// WCS profile and configuration surfaces, delegated to the composed
// wcs.Manager so offset ownership stays in one place.

// CreateWCSProfile snapshots the current offsets under a named profile.
func (m *Manager) CreateWCSProfile(name, description string) wcs.Profile {
	return m.wcs.CreateProfile(name, description)
}

// LoadWCSProfile applies a profile's offsets.
func (m *Manager) LoadWCSProfile(p wcs.Profile) error { return m.wcs.LoadProfile(p) }

// ExportWCSConfiguration returns the offset state as a transferable value.
func (m *Manager) ExportWCSConfiguration() wcs.ExportedConfig {
	return m.wcs.ExportConfiguration()
}

// ImportWCSConfiguration applies a previously exported configuration,
// validating everything before anything is applied.
func (m *Manager) ImportWCSConfiguration(cfg wcs.ExportedConfig) error {
	return m.wcs.ImportConfiguration(cfg)
}

// ExecuteWCSOperation dispatches a tagged wcs command.
func (m *Manager) ExecuteWCSOperation(op wcs.Operation) error { return m.wcs.Execute(op) }

// emitPositionUpdate rebuilds the snapshot and broadcasts it unless it
// matches the last emitted state, so every distinct state is observed
// exactly once.
func (m *Manager) emitPositionUpdate() {
	if m.disposed || m.suppress {
		return
	}
	snap := m.snapshot()
	if m.lastEmitted != nil && snap.sameState(*m.lastEmitted) {
		return
	}
	cached := snap
	cached.Offsets = snap.Offsets.Clone()
	m.lastEmitted = &cached

	m.dispatch(Event{Kind: EventPositionUpdated, Snapshot: &snap})
	machine := snap.Machine
	m.dispatch(Event{Kind: EventMachinePosition, Position: &machine})
	work := snap.Work
	m.dispatch(Event{Kind: EventWorkPosition, Position: &work})
	change := WCSChange{Active: snap.ActiveWCS, Offsets: snap.Offsets.Clone()}
	m.dispatch(Event{Kind: EventWCSChanged, WCS: &change})
}

func (m *Manager) dispatch(ev Event) {
	m.listeners.emit(ev)
	if m.bus == nil {
		return
	}
	switch ev.Kind {
	case EventPositionUpdated:
		m.bus.Emit(string(ev.Kind), *ev.Snapshot)
	case EventMachinePosition, EventWorkPosition:
		m.bus.Emit(string(ev.Kind), *ev.Position)
	case EventWCSChanged:
		m.bus.Emit(string(ev.Kind), *ev.WCS)
	case EventError:
		m.bus.Emit(string(ev.Kind), *ev.Err)
	}
}

func (m *Manager) emitError(kind ErrorKind, msg string, details map[string]any) {
	e := Error{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   msg,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
	m.logger.Debug("coordinate error", "kind", kind, "message", msg)
	m.dispatch(Event{Kind: EventError, Err: &e})
}

// Reset restores machine position to the origin, zeroes all offsets,
// reselects G54, clears the dedup cache and re-emits.
func (m *Manager) Reset() {
	if m.disposed {
		return
	}
	m.machine = position.Position{}
	m.suppress = true
	m.wcs.ResetAll()
	_ = m.wcs.SetActive(wcs.G54)
	m.suppress = false
	m.lastEmitted = nil
	m.emitPositionUpdate()
	m.lastUpdate = time.Now()
}

// Dispose clears all listeners and halts further emission. The manager is
// inert afterwards.
func (m *Manager) Dispose() {
	if m.disposed {
		return
	}
	m.disposed = true
	if m.unsubWCS != nil {
		m.unsubWCS()
	}
	m.listeners.clear()
}

// Summary is a read-only digest of coordinate state.
type Summary struct {
	Machine           position.Position `json:"machine"`
	Work              position.Position `json:"work"`
	ActiveWCS         wcs.System        `json:"activeWCS"`
	HasNonZeroOffsets bool              `json:"hasNonZeroOffsets"`
	LastUpdate        time.Time         `json:"lastUpdate"`
}

// Diagnostics extends Summary with listener and configuration details.
type Diagnostics struct {
	Summary        Summary           `json:"summary"`
	ListenerCounts map[EventKind]int `json:"listenerCounts"`
	WCS            wcs.Summary       `json:"wcs"`
	Validator      validate.Config   `json:"-"`
	Disposed       bool              `json:"disposed"`
}

// Summary returns a digest of current state.
func (m *Manager) Summary() Summary {
	return Summary{
		Machine:           m.machine,
		Work:              m.WorkPosition(),
		ActiveWCS:         m.wcs.ActiveSystem(),
		HasNonZeroOffsets: m.wcs.HasNonZeroOffsets(),
		LastUpdate:        m.lastUpdate,
	}
}

// Diagnostics returns introspection data for debugging and dashboards.
func (m *Manager) Diagnostics() Diagnostics {
	return Diagnostics{
		Summary:        m.Summary(),
		ListenerCounts: m.listeners.counts(),
		WCS:            m.wcs.Summary(),
		Validator:      m.validator.Configuration(),
		Disposed:       m.disposed,
	}
}
