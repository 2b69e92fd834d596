package wcs

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/whttlr/jogcore/position"
)

// Profile is a named snapshot of all six offsets, suitable for persistence
// by an outer layer.
type Profile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Offsets     Offsets   `json:"offsets"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ExportedConfig is the transferable form of manager state.
type ExportedConfig struct {
	ActiveWCS  System    `json:"activeWCS,omitempty"`
	Offsets    Offsets   `json:"offsets"`
	ExportedAt time.Time `json:"exportedAt"`
}

// CreateProfile snapshots the current offsets under a new named profile.
func (m *Manager) CreateProfile(name, description string) Profile {
	now := time.Now().UTC()
	return Profile{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Offsets:     m.offsets.Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// LoadProfile replaces all offsets with the profile's. Every offset is
// validated before any of them is applied; the active system is untouched.
func (m *Manager) LoadProfile(p Profile) error {
	return m.applyOffsets(p.Offsets)
}

// ExportConfiguration returns the full manager state as a transferable
// value.
func (m *Manager) ExportConfiguration() ExportedConfig {
	return ExportedConfig{
		ActiveWCS:  m.active,
		Offsets:    m.offsets.Clone(),
		ExportedAt: time.Now().UTC(),
	}
}

// ImportConfiguration applies a previously exported configuration. Every
// supplied offset is validated before any of them is applied; the first
// invalid system is named in the returned error. The active system is left
// unchanged when cfg omits it.
func (m *Manager) ImportConfiguration(cfg ExportedConfig) error {
	if err := m.applyOffsets(cfg.Offsets); err != nil {
		return err
	}
	if cfg.ActiveWCS != "" {
		return m.SetActive(cfg.ActiveWCS)
	}
	return nil
}

func (m *Manager) applyOffsets(offsets Offsets) error {
	for s := range offsets {
		if !s.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownSystem, s)
		}
	}
	for _, s := range Systems() {
		if p, ok := offsets[s]; ok && !p.IsValid() {
			return fmt.Errorf("%w: %s offset %+v", ErrInvalidPosition, s, p)
		}
	}
	changed := false
	for _, s := range Systems() {
		p, ok := offsets[s]
		if !ok {
			p = position.Position{}
		}
		if m.offsets[s] != p {
			m.offsets[s] = p
			changed = true
		}
	}
	if changed {
		m.notify()
	}
	return nil
}

const positionSchema = `{
	"type": "object",
	"required": ["x", "y", "z"],
	"properties": {
		"x": {"type": "number"},
		"y": {"type": "number"},
		"z": {"type": "number"}
	}
}`

const offsetsSchema = `{
	"type": "object",
	"propertyNames": {"enum": ["G54", "G55", "G56", "G57", "G58", "G59"]},
	"additionalProperties": {"$ref": "mem://schemas/position.json"}
}`

const profileSchema = `{
	"type": "object",
	"required": ["name", "offsets"],
	"properties": {
		"id": {"type": "string"},
		"name": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"offsets": {"$ref": "mem://schemas/offsets.json"},
		"createdAt": {"type": "string"},
		"updatedAt": {"type": "string"}
	}
}`

const configSchema = `{
	"type": "object",
	"required": ["offsets"],
	"properties": {
		"activeWCS": {"enum": ["G54", "G55", "G56", "G57", "G58", "G59"]},
		"offsets": {"$ref": "mem://schemas/offsets.json"},
		"exportedAt": {"type": "string"}
	}
}`

var compiledProfileSchema, compiledConfigSchema = mustCompileSchemas()

func mustCompileSchemas() (*jsonschema.Schema, *jsonschema.Schema) {
	c := jsonschema.NewCompiler()
	for name, src := range map[string]string{
		"position": positionSchema,
		"offsets":  offsetsSchema,
		"profile":  profileSchema,
		"config":   configSchema,
	} {
		if err := c.AddResource("mem://schemas/"+name+".json", strings.NewReader(src)); err != nil {
			panic(fmt.Sprintf("wcs: add schema %s: %v", name, err))
		}
	}
	profile, err := c.Compile("mem://schemas/profile.json")
	if err != nil {
		panic(fmt.Sprintf("wcs: compile profile schema: %v", err))
	}
	config, err := c.Compile("mem://schemas/config.json")
	if err != nil {
		panic(fmt.Sprintf("wcs: compile config schema: %v", err))
	}
	return profile, config
}

// ParseProfileJSON validates data against the profile schema and decodes it.
// Nothing is applied to any manager; pass the result to LoadProfile.
func ParseProfileJSON(data []byte) (Profile, error) {
	if err := validateJSON(compiledProfileSchema, data); err != nil {
		return Profile{}, fmt.Errorf("wcs: invalid profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("wcs: decode profile: %w", err)
	}
	return p, nil
}

// ParseConfigJSON validates data against the exported-configuration schema
// and decodes it.
func ParseConfigJSON(data []byte) (ExportedConfig, error) {
	if err := validateJSON(compiledConfigSchema, data); err != nil {
		return ExportedConfig{}, fmt.Errorf("wcs: invalid configuration: %w", err)
	}
	var cfg ExportedConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ExportedConfig{}, fmt.Errorf("wcs: decode configuration: %w", err)
	}
	return cfg, nil
}

func validateJSON(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return schema.Validate(v)
}
