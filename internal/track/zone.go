// Package track partitions a playfield into scoring zones and drives their
// lighting protocol. The sequencer is owned by a single goroutine; callers
// must serialize entry events before handing them over.
package track

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"pinfield/server/internal/field"
)

// Zone is one contiguous segment of the track's long axis. Locked is the
// only field mutated after creation, flipped once entry arbitration settles.
type Zone struct {
	Index     int     `json:"index"`
	SpanStart float64 `json:"spanStart"`
	SpanEnd   float64 `json:"spanEnd"`
	Scoring   bool    `json:"scoring"`
	Locked    bool    `json:"locked"`
}

// SelectionMode picks how scoring zones are chosen. Both historical variants
// are supported; the caller chooses explicitly.
type SelectionMode string

const (
	// SelectFirstN marks the leading zones as scoring.
	SelectFirstN SelectionMode = "first-n"
	// SelectRandom marks a uniformly random subset as scoring.
	SelectRandom SelectionMode = "random"
)

// ErrNoZones indicates a partition request with a non-positive zone count.
var ErrNoZones = errors.New("track: zone count must be positive")

// PartitionConfig captures the inputs of one zone partition.
type PartitionConfig struct {
	ZoneCount        int           `json:"zoneCount" yaml:"zoneCount"`
	ScoringZoneCount int           `json:"scoringZoneCount" yaml:"scoringZoneCount"`
	Selection        SelectionMode `json:"scoringSelection" yaml:"scoringSelection"`
	// ScoringIndices overrides selection entirely when non-empty.
	ScoringIndices []int `json:"scoringIndices,omitempty" yaml:"scoringIndices,omitempty"`
}

// Partition splits the region's long axis into equal contiguous zones and
// marks min(ScoringZoneCount, ZoneCount) of them as scoring. The rng is only
// consulted in SelectRandom mode.
func Partition(region field.Region, cfg PartitionConfig, rng *rand.Rand) ([]Zone, error) {
	if cfg.ZoneCount <= 0 {
		return nil, ErrNoZones
	}

	start, end := region.MinZ, region.MaxZ
	if region.Width() > region.Depth() {
		start, end = region.MinX, region.MaxX
	}

	width := (end - start) / float64(cfg.ZoneCount)
	zones := make([]Zone, cfg.ZoneCount)
	for i := range zones {
		zones[i] = Zone{
			Index:     i,
			SpanStart: start + float64(i)*width,
			SpanEnd:   start + float64(i+1)*width,
		}
	}
	// Anchor the last span exactly to the track end to keep the partition
	// gap-free under float accumulation.
	zones[cfg.ZoneCount-1].SpanEnd = end

	scoring, err := scoringSet(cfg, rng)
	if err != nil {
		return nil, err
	}
	for idx := range scoring {
		zones[idx].Scoring = true
	}

	return zones, nil
}

func scoringSet(cfg PartitionConfig, rng *rand.Rand) (map[int]struct{}, error) {
	selected := make(map[int]struct{})

	if len(cfg.ScoringIndices) > 0 {
		for _, idx := range cfg.ScoringIndices {
			if idx < 0 || idx >= cfg.ZoneCount {
				return nil, fmt.Errorf("track: scoring index %d outside 0..%d", idx, cfg.ZoneCount-1)
			}
			selected[idx] = struct{}{}
		}
		return selected, nil
	}

	count := cfg.ScoringZoneCount
	if count > cfg.ZoneCount {
		count = cfg.ZoneCount
	}
	if count <= 0 {
		return selected, nil
	}

	switch cfg.Selection {
	case SelectRandom:
		if rng == nil {
			return nil, fmt.Errorf("track: %s selection requires an rng", SelectRandom)
		}
		for _, idx := range rng.Perm(cfg.ZoneCount)[:count] {
			selected[idx] = struct{}{}
		}
	default:
		for idx := 0; idx < count; idx++ {
			selected[idx] = struct{}{}
		}
	}
	return selected, nil
}

// ScoringIndices lists the scoring zone indices in ascending order.
func ScoringIndices(zones []Zone) []int {
	indices := make([]int, 0, len(zones))
	for _, zone := range zones {
		if zone.Scoring {
			indices = append(indices, zone.Index)
		}
	}
	sort.Ints(indices)
	return indices
}
