package field

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SpacingSummary aggregates nearest-neighbor distances over one generation
// result. Surfaced by the diagnostics endpoint and the generation log event.
type SpacingSummary struct {
	Count         int     `json:"count"`
	MinNearest    float64 `json:"minNearest"`
	MeanNearest   float64 `json:"meanNearest"`
	StddevNearest float64 `json:"stddevNearest"`
}

// Summarize computes the nearest-neighbor spacing profile of the placements.
// Results with fewer than two points yield a zeroed summary apart from Count.
func Summarize(placements []Placement) SpacingSummary {
	summary := SpacingSummary{Count: len(placements)}
	if len(placements) < 2 {
		return summary
	}

	nearest := make([]float64, len(placements))
	for i, a := range placements {
		best := math.MaxFloat64
		for j, b := range placements {
			if i == j {
				continue
			}
			dx := a.X - b.X
			dz := a.Z - b.Z
			if d := dx*dx + dz*dz; d < best {
				best = d
			}
		}
		nearest[i] = math.Sqrt(best)
	}

	summary.MinNearest = floats.Min(nearest)
	summary.MeanNearest = stat.Mean(nearest, nil)
	summary.StddevNearest = stat.StdDev(nearest, nil)
	return summary
}
