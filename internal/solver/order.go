package solver

import (
	"math"
	"sort"
)

// weightDensity is utility per unit weight. Weightless items sort ahead of
// everything with positive utility and are never worth less than their raw
// utility suggests.
func weightDensity(c Candidate) float64 {
	if c.Item.Weight <= 0 {
		if c.Utility > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return c.Utility / c.Item.Weight
}

// canonicalLess is the single tie-break policy shared by every solver
// strategy: utility-density descending, weight ascending, volume ascending,
// identifier ascending. Identifiers are unique, so the order is total and
// the solve deterministic.
func canonicalLess(a, b Candidate) bool {
	da, db := weightDensity(a), weightDensity(b)
	if da != db {
		return da > db
	}
	if a.Item.Weight != b.Item.Weight {
		return a.Item.Weight < b.Item.Weight
	}
	if a.Item.Volume != b.Item.Volume {
		return a.Item.Volume < b.Item.Volume
	}
	return a.Item.ID < b.Item.ID
}

func sortCanonical(cands []Candidate) {
	sort.Slice(cands, func(i, j int) bool { return canonicalLess(cands[i], cands[j]) })
}

// coverageLess ranks candidates for mandatory-coverage reservation:
// highest utility first, then lower weight, lower volume, smaller
// identifier.
func coverageLess(a, b Candidate) bool {
	if a.Utility != b.Utility {
		return a.Utility > b.Utility
	}
	if a.Item.Weight != b.Item.Weight {
		return a.Item.Weight < b.Item.Weight
	}
	if a.Item.Volume != b.Item.Volume {
		return a.Item.Volume < b.Item.Volume
	}
	return a.Item.ID < b.Item.ID
}
