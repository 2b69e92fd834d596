package jogcore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whttlr/jogcore/bus"
	"github.com/whttlr/jogcore/coord"
	"github.com/whttlr/jogcore/logging"
	"github.com/whttlr/jogcore/position"
	"github.com/whttlr/jogcore/wcs"
)

func TestNewDefaults(t *testing.T) {
	m := New(Options{Logger: logging.NoOpLogger{}})
	assert.Equal(t, position.Position{}, m.MachinePosition())
	assert.Equal(t, wcs.G54, m.ActiveWCS())
}

func TestNewWithOptions(t *testing.T) {
	b := bus.NewInMemory()
	initial := position.Position{X: 10, Y: 20, Z: 5}
	m := New(Options{
		Logger:          logging.NoOpLogger{},
		Bus:             b,
		InitialPosition: &initial,
		ActiveWCS:       wcs.G57,
	})
	assert.Equal(t, initial, m.MachinePosition())
	assert.Equal(t, wcs.G57, m.ActiveWCS())

	// the bus is wired both ways
	received := 0
	b.On(string(coord.EventMachinePosition), func(any) { received++ })
	b.Emit(coord.TopicMachinePositionChanged, position.Position{X: 1, Y: 1, Z: 1})
	assert.Equal(t, position.Position{X: 1, Y: 1, Z: 1}, m.MachinePosition())
	assert.Equal(t, 1, received)
}
