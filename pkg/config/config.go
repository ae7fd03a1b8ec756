// Package config loads and saves the editor configuration as TOML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/keelwright/pkg/hull"
	"github.com/chazu/keelwright/pkg/kernel/sdfx"
	"github.com/chazu/keelwright/pkg/proximity"
	"github.com/chazu/keelwright/pkg/smartmove"
)

// Config is the complete editor configuration.
type Config struct {
	Tolerance Tolerance `toml:"tolerance"`
	Mesh      Mesh      `toml:"mesh"`
	Move      Move      `toml:"move"`
	Editor    Editor    `toml:"editor"`
	Registry  string    `toml:"registry" comment:"part metadata YAML; empty uses the built-in hull entry"`
	Log       Log       `toml:"log"`
}

// Tolerance holds the comparison tolerances of the adjacency detectors.
type Tolerance struct {
	Position   float32 `toml:"position"`
	Separation float32 `toml:"separation"`
	Overlap    float32 `toml:"overlap"`
	Width      float32 `toml:"width"`
}

// Mesh controls tessellation.
type Mesh struct {
	Resolution int `toml:"resolution" comment:"samples around each hull cross-section"`
	ProxyCells int `toml:"proxy_cells" comment:"marching cubes cells for rigid part proxies"`
}

// Move controls placement.
type Move struct {
	Reach         float32 `toml:"reach" comment:"largest gap to a neighbor that still offers smart-move snaps"`
	SpawnDistance float32 `toml:"spawn_distance"`
}

// Editor holds the initial editor settings.
type Editor struct {
	EditNear  bool `toml:"edit_near"`
	GroupEdit bool `toml:"group_edit"`
	Floating  bool `toml:"floating"`
	WrapCycle bool `toml:"wrap_cycle"`
}

// Log configures the logger built by the CLI.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format" comment:"text or json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Tolerance: Tolerance{
			Position:   hull.DefaultTolerance.Position,
			Separation: proximity.DefaultTolerance.Separation,
			Overlap:    proximity.DefaultTolerance.Overlap,
			Width:      hull.DefaultTolerance.Width,
		},
		Mesh: Mesh{
			Resolution: hull.DefaultResolution,
			ProxyCells: sdfx.DefaultMeshCells,
		},
		Move: Move{
			Reach:         smartmove.DefaultReach,
			SpawnDistance: 100,
		},
		Editor: Editor{EditNear: true, WrapCycle: true},
		Log:    Log{Level: "info", Format: "text"},
	}
}

// Load reads the configuration at path over the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes c to path, creating its directory.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Validate rejects values the solvers cannot work with.
func (c *Config) Validate() error {
	switch {
	case c.Mesh.Resolution < 3:
		return fmt.Errorf("mesh.resolution must be at least 3, got %d", c.Mesh.Resolution)
	case c.Mesh.ProxyCells < 1:
		return fmt.Errorf("mesh.proxy_cells must be positive, got %d", c.Mesh.ProxyCells)
	case c.Tolerance.Position < 0 || c.Tolerance.Separation < 0 || c.Tolerance.Overlap < 0 || c.Tolerance.Width < 0:
		return errors.New("tolerances must not be negative")
	case c.Move.Reach < 0:
		return fmt.Errorf("move.reach must not be negative, got %g", c.Move.Reach)
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// HullTolerance returns the tolerance for hull adjacency.
func (c *Config) HullTolerance() hull.Tolerance {
	return hull.Tolerance{Position: c.Tolerance.Position, Width: c.Tolerance.Width}
}

// ProximityTolerance returns the tolerance for face proximity.
func (c *Config) ProximityTolerance() proximity.Tolerance {
	return proximity.Tolerance{Separation: c.Tolerance.Separation, Overlap: c.Tolerance.Overlap}
}

// SlogLevel parses Level.
func (l Log) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
