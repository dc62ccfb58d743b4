package solver

import (
	"sort"

	"github.com/nexusfield/missionpack/internal/constraint"
	"github.com/nexusfield/missionpack/internal/manifest"
)

// coverage is the outcome of the mandatory-coverage phase.
type coverage struct {
	reserved []Candidate
	unmet    []manifest.Category
	totals   constraint.Totals
	taken    map[string]struct{}
}

// reserveCoverage greedily reserves one item per required category,
// processing categories in lexicographic order. Candidates qualify when
// they individually fit the full budget; reservations are additionally
// checked against the cumulative remaining budget so the phase can never
// overshoot the hard bounds on its own. A category with no reservable item
// is reported unmet; the solve still proceeds.
func reserveCoverage(cands []Candidate, c constraint.Constraints) coverage {
	cov := coverage{
		totals: constraint.NewTotals(),
		taken:  make(map[string]struct{}),
	}

	byCategory := make(map[manifest.Category][]Candidate)
	for _, cand := range cands {
		byCategory[cand.Item.Category] = append(byCategory[cand.Item.Category], cand)
	}

	for _, cat := range c.SortedRequiredCategories() {
		if !cat.Coverage() {
			cov.unmet = append(cov.unmet, cat)
			continue
		}

		pool := append([]Candidate(nil), byCategory[cat]...)
		sort.Slice(pool, func(i, j int) bool { return coverageLess(pool[i], pool[j]) })

		reserved := false
		for _, cand := range pool {
			if cand.Item.Weight > c.MaxWeight || cand.Item.Volume > c.MaxVolume {
				continue
			}
			if ok, _ := c.Admit(cov.totals, cand.Item); !ok {
				continue
			}
			cov.totals.Add(cand.Item)
			cov.reserved = append(cov.reserved, cand)
			cov.taken[cand.Item.ID] = struct{}{}
			reserved = true
			break
		}
		if !reserved {
			cov.unmet = append(cov.unmet, cat)
		}
	}
	return cov
}
