package field

import "math/rand"

// Kind describes one obstacle species available to the scatter. Weight steers
// the relative pick frequency; MaxInstances of zero means unbounded.
type Kind struct {
	ID           string  `json:"id" yaml:"id"`
	Weight       float64 `json:"weight" yaml:"weight"`
	MaxInstances int     `json:"maxInstances" yaml:"maxInstances"`
}

// hasSelectableKind reports whether at least one kind carries positive weight.
func hasSelectableKind(kinds []Kind) bool {
	for _, kind := range kinds {
		if kind.Weight > 0 {
			return true
		}
	}
	return false
}

// pickKind selects a kind index by cumulative-weight scan over the entries
// whose instance quota is not yet exhausted. When every eligible weight is
// non-positive the first eligible entry wins. The second return is false when
// every kind's quota is spent.
func pickKind(rng *rand.Rand, kinds []Kind, counts []int) (int, bool) {
	total := 0.0
	firstEligible := -1
	for i, kind := range kinds {
		if kind.MaxInstances > 0 && counts[i] >= kind.MaxInstances {
			continue
		}
		if firstEligible < 0 {
			firstEligible = i
		}
		if kind.Weight > 0 {
			total += kind.Weight
		}
	}
	if firstEligible < 0 {
		return 0, false
	}
	if total <= 0 {
		return firstEligible, true
	}

	draw := rng.Float64() * total
	cumulative := 0.0
	for i, kind := range kinds {
		if kind.MaxInstances > 0 && counts[i] >= kind.MaxInstances {
			continue
		}
		if kind.Weight <= 0 {
			continue
		}
		cumulative += kind.Weight
		if draw < cumulative {
			return i, true
		}
	}
	return firstEligible, true
}
