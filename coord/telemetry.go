package coord

import (
	"regexp"
	"strconv"

	"github.com/whttlr/jogcore/position"
	"github.com/whttlr/jogcore/wcs"
)

// Telemetry parsing. These are pure functions over controller report
// strings; non-matching input yields a no-match result, never an error.
// Status lines look like
//
//	<Idle|MPos:30.000,260.000,-31.000|WPos:0.000,0.000,0.000|...>
//
// and coordinate-system reports like
//
//	$# G54:0.000,0.000,0.000 G55:10.000,20.000,5.000 ...
//
// with no guarantee on subset or ordering of the G5x groups.
var (
	stateRe = regexp.MustCompile(`^<([A-Za-z][A-Za-z0-9:]*)[|>]`)
	mposRe  = regexp.MustCompile(`MPos:([-\d.]+),([-\d.]+),([-\d.]+)`)
	wposRe  = regexp.MustCompile(`WPos:([-\d.]+),([-\d.]+),([-\d.]+)`)
	coordRe = regexp.MustCompile(`(G5[4-9]):([-\d.]+),([-\d.]+),([-\d.]+)`)
)

// StatusReport is a parsed machine status line. Work is nil when the line
// carries no WPos group.
type StatusReport struct {
	State   string
	Machine position.Position
	Work    *position.Position
}

// ParseStatusReport extracts the machine state, MPos and optional WPos
// triplets from a raw status line. The second return is false when raw
// carries no parseable MPos group.
func ParseStatusReport(raw string) (StatusReport, bool) {
	mpos, ok := parseTriplet(mposRe.FindStringSubmatch(raw))
	if !ok {
		return StatusReport{}, false
	}
	rep := StatusReport{Machine: mpos}
	if m := stateRe.FindStringSubmatch(raw); m != nil {
		rep.State = m[1]
	}
	if wpos, ok := parseTriplet(wposRe.FindStringSubmatch(raw)); ok {
		rep.Work = &wpos
	}
	return rep, true
}

// OffsetReport is one G5x group from a coordinate-system report.
type OffsetReport struct {
	System wcs.System
	Offset position.Position
}

// ParseCoordinateReport extracts every G54–G59 triplet present in raw,
// preserving their order of appearance. Groups with unparseable numbers are
// skipped; no match yields nil.
func ParseCoordinateReport(raw string) []OffsetReport {
	var out []OffsetReport
	for _, m := range coordRe.FindAllStringSubmatch(raw, -1) {
		p, ok := parseTriplet(m[1:])
		if !ok {
			continue
		}
		out = append(out, OffsetReport{System: wcs.System(m[1]), Offset: p})
	}
	return out
}

// parseTriplet converts the trailing three submatches of m to a Position.
func parseTriplet(m []string) (position.Position, bool) {
	if len(m) < 4 {
		return position.Position{}, false
	}
	var vals [3]float64
	for i, s := range m[len(m)-3:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return position.Position{}, false
		}
		vals[i] = v
	}
	return position.Position{X: vals[0], Y: vals[1], Z: vals[2]}, true
}

// ProcessMachineStatus feeds a raw status line into the engine. A parse miss
// is a silent no-op. When the line also reports a work position, it is
// cross-checked against the locally derived one; drift beyond the check
// tolerance asks the transport layer to re-query authoritative offsets.
func (m *Manager) ProcessMachineStatus(raw string) {
	if m.disposed {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("machine status processing panicked", "error", r)
		}
	}()

	rep, ok := ParseStatusReport(raw)
	if !ok {
		return
	}
	m.UpdateMachinePosition(rep.Machine, "machine-feedback")

	if rep.Work == nil {
		return
	}
	derived := m.MachineToWork(m.machine, m.wcs.ActiveOffset())
	if !derived.Equal(*rep.Work, position.WorkCheckTolerance) {
		m.logger.Warn("reported work position drifts from derived state",
			"reported", *rep.Work, "derived", derived, "state", rep.State)
		if m.bus != nil {
			m.bus.Emit(TopicRequestWCSUpdate, nil)
		}
	}
}

// ProcessCoordinateSystemReport applies every offset in a controller
// coordinate-system report directly into the wcs manager. Controller-origin
// offsets are authoritative and bypass the user-path offset validation; the
// parser's numeric pattern already guarantees finiteness. A parse miss is a
// silent no-op.
func (m *Manager) ProcessCoordinateSystemReport(raw string) {
	if m.disposed {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("coordinate report processing panicked", "error", r)
		}
	}()

	for _, rep := range ParseCoordinateReport(raw) {
		if err := m.wcs.SetOffset(rep.System, rep.Offset); err != nil {
			m.logger.Error("failed to apply controller offset",
				"system", rep.System, "error", err)
		}
	}
}
