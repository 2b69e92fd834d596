package coord

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whttlr/jogcore/bus"
	"github.com/whttlr/jogcore/internal/testutil"
	"github.com/whttlr/jogcore/position"
	"github.com/whttlr/jogcore/wcs"
)

func TestParseStatusReport(t *testing.T) {
	rep, ok := ParseStatusReport("<Idle|MPos:30.000,260.000,-31.000|WPos:0.000,0.000,0.000>")
	assert.True(t, ok)
	assert.Equal(t, "Idle", rep.State)
	assert.Equal(t, testutil.Pos(30, 260, -31), rep.Machine)
	if assert.NotNil(t, rep.Work) {
		assert.Equal(t, testutil.Pos(0, 0, 0), *rep.Work)
	}
}

func TestParseStatusReport_Variants(t *testing.T) {
	// no WPos group
	rep, ok := ParseStatusReport("<Run|MPos:1.5,-2.5,3.5|FS:500,8000>")
	assert.True(t, ok)
	assert.Equal(t, "Run", rep.State)
	assert.Nil(t, rep.Work)

	// MPos without angle-bracket framing still parses, state stays empty
	rep, ok = ParseStatusReport("MPos:1.000,2.000,3.000")
	assert.True(t, ok)
	assert.Empty(t, rep.State)

	// sub-state like Hold:0
	rep, ok = ParseStatusReport("<Hold:0|MPos:0.000,0.000,0.000>")
	assert.True(t, ok)
	assert.Equal(t, "Hold:0", rep.State)
}

func TestParseStatusReport_NoMatch(t *testing.T) {
	for _, raw := range []string{
		"",
		"INVALID_RESPONSE",
		"<Idle|WPos:1.000,2.000,3.000>", // no MPos
		"<Idle|MPos:1.000,2.000>",       // two coordinates only
		"MPos:a,b,c",
		"MPos:1..2,3,--4",
	} {
		_, ok := ParseStatusReport(raw)
		assert.False(t, ok, "raw=%q", raw)
	}
}

func TestParseCoordinateReport(t *testing.T) {
	raw := "$# G54:0.000,0.000,0.000 G56:7.000,8.000,9.000 G55:10.000,20.000,5.000"
	reps := ParseCoordinateReport(raw)
	assert.Len(t, reps, 3)
	// order of appearance preserved
	assert.Equal(t, wcs.G54, reps[0].System)
	assert.Equal(t, wcs.G56, reps[1].System)
	assert.Equal(t, testutil.Pos(10, 20, 5), reps[2].Offset)

	assert.Nil(t, ParseCoordinateReport("ok"))
	assert.Nil(t, ParseCoordinateReport("$# G53:1.000,2.000,3.000"))
}

func TestProcessMachineStatus_Scenario(t *testing.T) {
	m := NewManager()
	m.ProcessMachineStatus("<Idle|MPos:30.000,260.000,-31.000|WPos:0.000,0.000,0.000>")
	assert.Equal(t, testutil.Pos(30, 260, -31), m.MachinePosition())
}

func TestProcessMachineStatus_MalformedIsNoOp(t *testing.T) {
	m := NewManager()
	m.UpdateMachinePosition(testutil.Pos(1, 2, 3), "test")

	emissions := 0
	m.On(EventPositionUpdated, func(Event) { emissions++ })
	m.On(EventError, func(Event) { emissions++ })

	assert.NotPanics(t, func() { m.ProcessMachineStatus("INVALID_RESPONSE") })
	assert.Equal(t, testutil.Pos(1, 2, 3), m.MachinePosition())
	assert.Zero(t, emissions)
}

func TestProcessMachineStatus_DriftRequestsWCSUpdate(t *testing.T) {
	b := bus.NewInMemory()
	requests := 0
	b.On(TopicRequestWCSUpdate, func(any) { requests++ })

	m := NewManager(WithBus(b))

	// consistent: machine 30,260,-31 with zero offsets -> work equals machine
	m.ProcessMachineStatus("<Idle|MPos:30.000,260.000,-31.000|WPos:30.000,260.000,-31.000>")
	assert.Zero(t, requests)

	// reported work drifts beyond 1e-3 from derived state
	m.ProcessMachineStatus("<Idle|MPos:30.000,260.000,-31.000|WPos:29.000,260.000,-31.000>")
	assert.Equal(t, 1, requests)

	// drift within tolerance stays quiet
	m.ProcessMachineStatus("<Idle|MPos:31.000,260.000,-31.000|WPos:31.0005,260.000,-31.000>")
	assert.Equal(t, 1, requests)
}

func TestProcessMachineStatus_DisposedIsInert(t *testing.T) {
	b := bus.NewInMemory()
	requests := 0
	b.On(TopicRequestWCSUpdate, func(any) { requests++ })

	m := NewManager(WithBus(b))
	m.UpdateMachinePosition(testutil.Pos(10, 10, 10), "test")
	m.Dispose()

	// drifting WPos after disposal must neither move state nor signal
	// the transport layer
	m.ProcessMachineStatus("<Idle|MPos:50.000,50.000,50.000|WPos:99.000,0.000,0.000>")
	assert.Zero(t, requests)
	assert.Equal(t, testutil.Pos(10, 10, 10), m.MachinePosition())
}

func TestProcessCoordinateSystemReport(t *testing.T) {
	m := NewManager()
	m.ProcessCoordinateSystemReport("$# G54:0.000,0.000,0.000 G55:10.000,20.000,5.000 G59:-1.000,0.000,0.500")

	offsets := m.WCSOffsets()
	assert.Equal(t, testutil.Pos(10, 20, 5), offsets[wcs.G55])
	assert.Equal(t, testutil.Pos(-1, 0, 0.5), offsets[wcs.G59])
	assert.Equal(t, position.Position{}, offsets[wcs.G54])
}

func TestProcessCoordinateSystemReport_BypassesUserPathChecks(t *testing.T) {
	// an offset this large would be flagged on the user path
	m := NewManager()
	assert.Error(t, m.SetWCSOffset(wcs.G54, testutil.Pos(20000, 0, 0)))

	// the controller-origin path applies it regardless
	m.ProcessCoordinateSystemReport("$# G54:20000.000,0.000,0.000")
	assert.Equal(t, testutil.Pos(20000, 0, 0), m.WCSOffsets()[wcs.G54])
}

func TestProcessCoordinateSystemReport_MalformedIsNoOp(t *testing.T) {
	m := NewManager()
	assert.NotPanics(t, func() { m.ProcessCoordinateSystemReport("garbage") })
	assert.False(t, m.Diagnostics().WCS.Active != wcs.G54)

	offsets := m.WCSOffsets()
	for _, s := range wcs.Systems() {
		assert.Equal(t, position.Position{}, offsets[s])
	}
}

func TestStatusLineBuilderMatchesParser(t *testing.T) {
	work := testutil.Pos(0, 0, 0)
	raw := testutil.StatusLine("Idle", testutil.Pos(30, 260, -31), &work)
	rep, ok := ParseStatusReport(raw)
	assert.True(t, ok)
	assert.Equal(t, testutil.Pos(30, 260, -31), rep.Machine)
}
