package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.MachineBounds != nil || c.SafetyLimits != nil {
		t.Fatal("expected no bounds by default")
	}
	if c.Logging.Level != "warn" || c.Logging.Format != "json" {
		t.Fatalf("unexpected logging defaults: %+v", c.Logging)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("JOGCORE_CONFIG", filepath.Join(t.TempDir(), "nope.toml"))
	c, err := Load()
	if err != nil {
		t.Fatalf("load with missing file: %v", err)
	}
	if c.MachineBounds != nil {
		t.Fatal("expected nil machine bounds")
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[machine_bounds]
enabled = true
min_x = -10
min_y = -20
min_z = -30
max_x = 100
max_y = 200
max_z = 0

[logging]
level = "debug"
format = "text"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("JOGCORE_CONFIG", path)

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MachineBounds == nil {
		t.Fatal("expected machine bounds")
	}
	if c.MachineBounds.Min.Y != -20 || c.MachineBounds.Max.X != 100 {
		t.Fatalf("unexpected bounds: %+v", *c.MachineBounds)
	}
	if c.SafetyLimits != nil {
		t.Fatal("safety limits should stay disabled")
	}
	if c.Logging.Level != "debug" || c.Logging.Format != "text" {
		t.Fatalf("unexpected logging: %+v", c.Logging)
	}
}
