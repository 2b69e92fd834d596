package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/whttlr/jogcore/position"
)

// Config is the immutable engine configuration. It is passed by value at
// construction; the engine never consults process-wide state.
type Config struct {
	// MachineBounds is the physical envelope. Nil disables envelope checks.
	MachineBounds *position.Bounds
	// SafetyLimits is an optionally tighter zone. Nil disables the check.
	SafetyLimits *position.Bounds
	// Logging controls the built-in slog logger when no Logger is injected.
	Logging LoggingConfig
}

// LoggingConfig holds presentation settings for the default logger.
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or text
}

// Default returns the baseline configuration: no bounds, json warn-level
// logging.
func Default() Config {
	return Config{Logging: LoggingConfig{Level: "warn", Format: "json"}}
}

// boundsConfig is the file/env shape of an axis-aligned box.
type boundsConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	MinX    float64 `mapstructure:"min_x"`
	MinY    float64 `mapstructure:"min_y"`
	MinZ    float64 `mapstructure:"min_z"`
	MaxX    float64 `mapstructure:"max_x"`
	MaxY    float64 `mapstructure:"max_y"`
	MaxZ    float64 `mapstructure:"max_z"`
}

func (b boundsConfig) toBounds() *position.Bounds {
	if !b.Enabled {
		return nil
	}
	return &position.Bounds{
		Min: position.Position{X: b.MinX, Y: b.MinY, Z: b.MinZ},
		Max: position.Position{X: b.MaxX, Y: b.MaxY, Z: b.MaxZ},
	}
}

type fileConfig struct {
	MachineBounds boundsConfig  `mapstructure:"machine_bounds"`
	SafetyLimits  boundsConfig  `mapstructure:"safety_limits"`
	Logging       LoggingConfig `mapstructure:"logging"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// JOGCORE_; JOGCORE_CONFIG points at an explicit config file, otherwise
// ~/.config/jogcore/config.toml is tried. A missing file yields defaults.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("machine_bounds.enabled", false)
	v.SetDefault("safety_limits.enabled", false)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "json")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("JOGCORE_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "jogcore"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("JOGCORE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return Config{
		MachineBounds: fc.MachineBounds.toBounds(),
		SafetyLimits:  fc.SafetyLimits.toBounds(),
		Logging:       fc.Logging,
	}, nil
}
