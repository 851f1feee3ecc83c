// Package playfield composes the obstacle field, the zone track, and the
// light sequencer into the simulation engine driven by the hub loop.
package playfield

import (
	"strings"

	"pinfield/server/internal/field"
	"pinfield/server/internal/track"
)

// Config describes one playfield build.
type Config struct {
	Seed     string  `json:"seed" yaml:"seed"`
	Width    float64 `json:"width" yaml:"width"`
	Depth    float64 `json:"depth" yaml:"depth"`
	SurfaceY float64 `json:"surfaceY" yaml:"surfaceY"`

	MinDistance float64 `json:"minDistance" yaml:"minDistance"`
	Density     float64 `json:"density" yaml:"density"`
	Margin      float64 `json:"margin" yaml:"margin"`
	MaxAttempts int     `json:"maxAttempts,omitempty" yaml:"maxAttempts,omitempty"`
	MaxPoints   int     `json:"maxPoints,omitempty" yaml:"maxPoints,omitempty"`

	Catalog []field.Kind `json:"catalog,omitempty" yaml:"catalog,omitempty"`

	Zones    track.PartitionConfig `json:"zones" yaml:"zones"`
	Sequence track.SequenceConfig  `json:"sequence" yaml:"sequence"`
}

// DefaultCatalog returns the built-in obstacle mix used when no catalog is
// configured.
func DefaultCatalog() []field.Kind {
	return []field.Kind{
		{ID: "peg", Weight: 4},
		{ID: "bumper", Weight: 3},
		{ID: "spinner", Weight: 2, MaxInstances: 4},
		{ID: "drop-target", Weight: 1, MaxInstances: 2},
	}
}

// DefaultConfig returns the prototype playfield.
func DefaultConfig() Config {
	return Config{
		Seed:        "prototype",
		Width:       120,
		Depth:       240,
		SurfaceY:    0.5,
		MinDistance: 12,
		Density:     0.8,
		Margin:      10,
		Catalog:     DefaultCatalog(),
		Zones: track.PartitionConfig{
			ZoneCount:        5,
			ScoringZoneCount: 2,
			Selection:        track.SelectFirstN,
		},
	}
}

func (c Config) normalized() Config {
	defaults := DefaultConfig()
	c.Seed = strings.TrimSpace(c.Seed)
	if c.Seed == "" {
		c.Seed = defaults.Seed
	}
	if c.Width <= 0 {
		c.Width = defaults.Width
	}
	if c.Depth <= 0 {
		c.Depth = defaults.Depth
	}
	if c.MinDistance <= 0 {
		c.MinDistance = defaults.MinDistance
	}
	if c.Density <= 0 {
		c.Density = defaults.Density
	}
	if c.Margin < 0 {
		c.Margin = 0
	}
	if len(c.Catalog) == 0 {
		c.Catalog = DefaultCatalog()
	}
	if c.Zones.ZoneCount <= 0 {
		c.Zones = defaults.Zones
	}
	return c
}

// Region returns the playfield bounds implied by the config.
func (c Config) Region() field.Region {
	return field.NewRegion(c.Width, c.Depth, c.SurfaceY)
}

func (c Config) fieldConfig(seed string) field.Config {
	return field.Config{
		Region:      c.Region(),
		MinDistance: c.MinDistance,
		Density:     c.Density,
		Margin:      c.Margin,
		MaxAttempts: c.MaxAttempts,
		MaxPoints:   c.MaxPoints,
		Seed:        seed,
		Catalog:     c.Catalog,
	}
}
