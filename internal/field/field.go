// Package field generates deterministic obstacle layouts for a playfield via
// weighted Poisson-disk sampling. Generation is pure and synchronous; callers
// own the returned placements.
package field

import (
	"errors"
	"math"
	"math/rand"
)

const (
	// DefaultMaxAttempts bounds candidate probes around one active point
	// before the point is retired.
	DefaultMaxAttempts = 30
	// DefaultMaxPoints is the safety cap against runaway generation.
	DefaultMaxPoints = 1000
)

var (
	// ErrInvalidCatalog indicates no kind carries positive selection weight.
	ErrInvalidCatalog = errors.New("field: catalog has no selectable kind")
	// ErrDegenerateRegion indicates the margin consumed the whole region.
	ErrDegenerateRegion = errors.New("field: margin leaves no usable region")
)

// Config captures every input of a generation run. The same config always
// produces the same placements.
type Config struct {
	Region      Region  `json:"region" yaml:"region"`
	MinDistance float64 `json:"minDistance" yaml:"minDistance"`
	Density     float64 `json:"density" yaml:"density"`
	Margin      float64 `json:"margin" yaml:"margin"`
	MaxAttempts int     `json:"maxAttempts" yaml:"maxAttempts"`
	MaxPoints   int     `json:"maxPoints" yaml:"maxPoints"`
	Seed        string  `json:"seed" yaml:"seed"`
	Catalog     []Kind  `json:"catalog" yaml:"catalog"`
}

func (cfg Config) normalized() Config {
	normalized := cfg
	if normalized.MinDistance <= 0 {
		normalized.MinDistance = 1
	}
	if normalized.Density <= 0 {
		normalized.Density = 1
	}
	if normalized.Margin < 0 {
		normalized.Margin = 0
	}
	if normalized.MaxAttempts <= 0 {
		normalized.MaxAttempts = DefaultMaxAttempts
	}
	if normalized.MaxPoints <= 0 {
		normalized.MaxPoints = DefaultMaxPoints
	}
	return normalized
}

// Placement is one generated obstacle location with its assigned kind.
// Immutable once emitted; ownership transfers to the caller.
type Placement struct {
	X    float64 `json:"x"`
	Z    float64 `json:"z"`
	Y    float64 `json:"y"`
	Kind string  `json:"kind"`
}

// TargetCount estimates how many discs of radius MinDistance/2 fit the
// margin-reduced region at the configured density. It is a soft budget hint;
// the sampling loop terminates on space exhaustion, not on this figure.
func TargetCount(cfg Config) int {
	normalized := cfg.normalized()
	area := normalized.Region.Shrink(normalized.Margin).Area()
	if area <= 0 {
		return 0
	}
	radius := normalized.MinDistance / 2
	return int(math.Round(area / (math.Pi * radius * radius) * normalized.Density))
}

// Generate scatters non-overlapping placements across the region and assigns
// each a kind from the weighted catalog. The output is deterministic for a
// fixed config: same seed, same sequence, same count.
func Generate(cfg Config) ([]Placement, error) {
	normalized := cfg.normalized()

	if !hasSelectableKind(normalized.Catalog) {
		return nil, ErrInvalidCatalog
	}

	inner := normalized.Region.Shrink(normalized.Margin)
	if inner.Width() <= 0 || inner.Depth() <= 0 {
		return nil, ErrDegenerateRegion
	}

	scatterRNG := NewDeterministicRNG(normalized.Seed, "field.scatter")
	points := samplePoints(inner, normalized, scatterRNG)

	kindRNG := NewDeterministicRNG(normalized.Seed, "field.kinds")
	return assignKinds(points, normalized, kindRNG), nil
}

type point struct {
	x, z float64
}

// samplePoints runs the dart-throwing variant of Poisson-disk sampling: grow
// an accepted set from a seed point, probing candidates in the annulus
// [minDistance, 2*minDistance) around randomly chosen active points.
func samplePoints(inner Region, cfg Config, rng *rand.Rand) []point {
	capacityHint := TargetCount(cfg)
	if capacityHint <= 0 || capacityHint > cfg.MaxPoints {
		capacityHint = cfg.MaxPoints
	}

	seed := point{
		x: inner.MinX + rng.Float64()*inner.Width(),
		z: inner.MinZ + rng.Float64()*inner.Depth(),
	}

	accepted := make([]point, 0, capacityHint)
	accepted = append(accepted, seed)
	active := []point{seed}

	for len(active) > 0 && len(accepted) < cfg.MaxPoints {
		pivotIdx := rng.Intn(len(active))
		pivot := active[pivotIdx]

		placed := false
		for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
			angle := randomAngle(rng)
			radius := randomDistance(rng, cfg.MinDistance, 2*cfg.MinDistance)
			candidate := point{
				x: pivot.x + math.Cos(angle)*radius,
				z: pivot.z + math.Sin(angle)*radius,
			}
			if !inner.Contains(candidate.x, candidate.z) {
				continue
			}
			if !farEnough(candidate, accepted, cfg.MinDistance) {
				continue
			}
			accepted = append(accepted, candidate)
			active = append(active, candidate)
			placed = true
			break
		}

		if !placed {
			// Retired points still block candidates through the
			// accepted set; they are just never probed again.
			active[pivotIdx] = active[len(active)-1]
			active = active[:len(active)-1]
		}
	}

	return accepted
}

// farEnough checks the candidate against every accepted point. O(n) per
// candidate, which is fine at playfield scale.
func farEnough(candidate point, accepted []point, minDistance float64) bool {
	minSq := minDistance * minDistance
	for _, other := range accepted {
		dx := candidate.x - other.x
		dz := candidate.z - other.z
		if dx*dx+dz*dz < minSq {
			return false
		}
	}
	return true
}

// assignKinds resolves a kind for each sampled point, honoring per-kind
// instance caps. Points that cannot be assigned once every quota is spent
// are dropped.
func assignKinds(points []point, cfg Config, rng *rand.Rand) []Placement {
	placements := make([]Placement, 0, len(points))
	counts := make([]int, len(cfg.Catalog))
	for _, pt := range points {
		idx, ok := pickKind(rng, cfg.Catalog, counts)
		if !ok {
			continue
		}
		counts[idx]++
		placements = append(placements, Placement{
			X:    pt.x,
			Z:    pt.z,
			Y:    cfg.Region.SurfaceY,
			Kind: cfg.Catalog[idx].ID,
		})
	}
	return placements
}
