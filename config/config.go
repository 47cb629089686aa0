// Package config loads the ambient settings of cmd/gridsheet: grid
// bounds and a log verbosity level. It is TOML-backed, grounded on
// xucongyong-think-todo/internal/config/roles.go's BurntSushi/toml
// struct-tag pattern. Nothing in the sheet engine itself depends on
// this package — Bounds is passed in as a plain value.
package config

import (
	"github.com/BurntSushi/toml"
	gosheet "github.com/vogtb/gosheet"
)

// Config is the on-disk shape of a gridsheet config file.
type Config struct {
	Grid    GridConfig `toml:"grid"`
	Logging LogConfig  `toml:"logging"`
}

// GridConfig carries the sheet's grid bounds (spec.md §3: "bounds are
// configuration constants").
type GridConfig struct {
	MaxRows int `toml:"max_rows"`
	MaxCols int `toml:"max_cols"`
}

// LogConfig carries a log verbosity level read from the file.
// cmd/gridsheet does not apply it; its log verbosity is set by the -v
// flag alone.
type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

// Default returns the spec.md §3 default bounds (16384x16384) and
// verbosity 0.
func Default() *Config {
	return &Config{
		Grid: GridConfig{MaxRows: gosheet.DefaultMaxRows, MaxCols: gosheet.DefaultMaxCols},
	}
}

// Bounds converts the loaded grid configuration into a gosheet.Bounds,
// falling back to spec.md defaults for any zero field.
func (c *Config) Bounds() gosheet.Bounds {
	b := gosheet.DefaultBounds()
	if c.Grid.MaxRows > 0 {
		b.MaxRows = c.Grid.MaxRows
	}
	if c.Grid.MaxCols > 0 {
		b.MaxCols = c.Grid.MaxCols
	}
	return b
}

// Load reads a TOML config file at path. An empty path is not an error:
// Default() is returned instead, since spec.md's bounds are
// only ever "configuration constants", never a required input.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
