package playfield

import (
	"testing"

	"pinfield/server/internal/track"
)

func TestNormalizedFillsDefaults(t *testing.T) {
	cfg := Config{}.normalized()

	if cfg.Seed != "prototype" {
		t.Fatalf("expected default seed, got %q", cfg.Seed)
	}
	if cfg.Width != 120 || cfg.Depth != 240 {
		t.Fatalf("expected default bounds, got %gx%g", cfg.Width, cfg.Depth)
	}
	if cfg.MinDistance != 12 {
		t.Fatalf("expected default min distance, got %g", cfg.MinDistance)
	}
	if len(cfg.Catalog) == 0 {
		t.Fatal("expected default catalog")
	}
	if cfg.Zones.ZoneCount != 5 || cfg.Zones.ScoringZoneCount != 2 {
		t.Fatalf("expected default zone split, got %+v", cfg.Zones)
	}
	if cfg.Zones.Selection != track.SelectFirstN {
		t.Fatalf("expected first-n selection, got %q", cfg.Zones.Selection)
	}
}

func TestNormalizedKeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Seed:        "  tournament  ",
		Width:       90,
		Depth:       180,
		MinDistance: 8,
		Density:     1.2,
		Margin:      4,
		Zones:       track.PartitionConfig{ZoneCount: 7, ScoringZoneCount: 3, Selection: track.SelectRandom},
	}.normalized()

	if cfg.Seed != "tournament" {
		t.Fatalf("expected trimmed seed, got %q", cfg.Seed)
	}
	if cfg.Width != 90 || cfg.Depth != 180 {
		t.Fatalf("explicit bounds overwritten: %gx%g", cfg.Width, cfg.Depth)
	}
	if cfg.Zones.ZoneCount != 7 || cfg.Zones.Selection != track.SelectRandom {
		t.Fatalf("explicit zone config overwritten: %+v", cfg.Zones)
	}
}

func TestRegionMatchesBounds(t *testing.T) {
	cfg := DefaultConfig()
	region := cfg.Region()
	if region.Width() != cfg.Width || region.Depth() != cfg.Depth {
		t.Fatalf("region %gx%g does not match config %gx%g",
			region.Width(), region.Depth(), cfg.Width, cfg.Depth)
	}
	if region.SurfaceY != cfg.SurfaceY {
		t.Fatalf("surface height mismatch: %g vs %g", region.SurfaceY, cfg.SurfaceY)
	}
}
