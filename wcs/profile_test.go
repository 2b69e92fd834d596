package wcs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whttlr/jogcore/position"
)

func TestProfileRoundTrip(t *testing.T) {
	m := NewManager(nil)
	assert.NoError(t, m.SetOffset(G54, pos(10, 20, 5)))
	assert.NoError(t, m.SetOffset(G56, pos(-1, 0, 3)))

	p := m.CreateProfile("fixture-a", "vise on left table")
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "fixture-a", p.Name)
	assert.False(t, p.CreatedAt.IsZero())
	assert.Equal(t, pos(10, 20, 5), p.Offsets[G54])

	// profile is a value snapshot, detached from manager state
	m.ResetAll()
	assert.Equal(t, pos(-1, 0, 3), p.Offsets[G56])

	q := m.CreateProfile("fixture-b", "")
	assert.NotEqual(t, p.ID, q.ID)
}

func TestLoadProfile(t *testing.T) {
	m := NewManager(nil)
	assert.NoError(t, m.SetOffset(G54, pos(10, 20, 5)))
	p := m.CreateProfile("fixture-a", "")

	m.ResetAll()
	assert.False(t, m.HasNonZeroOffsets())

	assert.NoError(t, m.LoadProfile(p))
	assert.Equal(t, pos(10, 20, 5), m.Offset(G54))

	// mutating the profile afterwards must not touch manager state
	p.Offsets[G54] = pos(1, 1, 1)
	assert.Equal(t, pos(10, 20, 5), m.Offset(G54))
}

func TestImportConfiguration(t *testing.T) {
	m := NewManager(nil)
	assert.NoError(t, m.SetOffset(G55, pos(7, 8, 9)))
	cfg := m.ExportConfiguration()
	assert.Equal(t, G54, cfg.ActiveWCS)
	assert.False(t, cfg.ExportedAt.IsZero())

	fresh := NewManager(nil)
	assert.NoError(t, fresh.ImportConfiguration(cfg))
	assert.Equal(t, pos(7, 8, 9), fresh.Offset(G55))
	assert.Equal(t, G54, fresh.ActiveSystem())

	// active system untouched when omitted
	assert.NoError(t, fresh.SetActive(G58))
	assert.NoError(t, fresh.ImportConfiguration(ExportedConfig{Offsets: NewOffsets()}))
	assert.Equal(t, G58, fresh.ActiveSystem())
}

func TestImportValidatesBeforeApplying(t *testing.T) {
	m := NewManager(nil)
	assert.NoError(t, m.SetOffset(G54, pos(1, 1, 1)))

	bad := ExportedConfig{Offsets: Offsets{
		G54: pos(2, 2, 2),
		G57: position.Position{X: math.NaN()},
	}}
	err := m.ImportConfiguration(bad)
	assert.ErrorIs(t, err, ErrInvalidPosition)
	assert.ErrorContains(t, err, "G57")
	// nothing applied, not even the valid G54 entry
	assert.Equal(t, pos(1, 1, 1), m.Offset(G54))

	unknown := ExportedConfig{Offsets: Offsets{System("G60"): pos(1, 1, 1)}}
	assert.ErrorIs(t, m.ImportConfiguration(unknown), ErrUnknownSystem)
}

func TestParseProfileJSON(t *testing.T) {
	data := []byte(`{
		"name": "fixture-b",
		"offsets": {
			"G54": {"x": 1, "y": 2, "z": 3},
			"G55": {"x": 0, "y": 0, "z": 0}
		}
	}`)
	p, err := ParseProfileJSON(data)
	assert.NoError(t, err)
	assert.Equal(t, "fixture-b", p.Name)
	assert.Equal(t, pos(1, 2, 3), p.Offsets[G54])

	m := NewManager(nil)
	assert.NoError(t, m.LoadProfile(p))
	assert.Equal(t, pos(1, 2, 3), m.Offset(G54))
}

func TestParseProfileJSON_Rejections(t *testing.T) {
	cases := map[string]string{
		"not json":        `{`,
		"missing name":    `{"offsets": {}}`,
		"unknown system":  `{"name": "x", "offsets": {"G60": {"x": 1, "y": 2, "z": 3}}}`,
		"partial offset":  `{"name": "x", "offsets": {"G54": {"x": 1}}}`,
		"string offset":   `{"name": "x", "offsets": {"G54": {"x": "1", "y": 2, "z": 3}}}`,
		"offsets as list": `{"name": "x", "offsets": []}`,
	}
	for label, data := range cases {
		_, err := ParseProfileJSON([]byte(data))
		assert.Error(t, err, label)
	}
}

func TestParseConfigJSON(t *testing.T) {
	data := []byte(`{
		"activeWCS": "G55",
		"offsets": {"G55": {"x": 5, "y": 6, "z": 7}}
	}`)
	cfg, err := ParseConfigJSON(data)
	assert.NoError(t, err)
	assert.Equal(t, G55, cfg.ActiveWCS)

	m := NewManager(nil)
	assert.NoError(t, m.ImportConfiguration(cfg))
	assert.Equal(t, G55, m.ActiveSystem())
	assert.Equal(t, pos(5, 6, 7), m.Offset(G55))

	_, err = ParseConfigJSON([]byte(`{"activeWCS": "G99", "offsets": {}}`))
	assert.Error(t, err)
	_, err = ParseConfigJSON([]byte(`{"activeWCS": "G54"}`))
	assert.Error(t, err, "offsets are required")
}
