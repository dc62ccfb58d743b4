package constraint

import (
	"github.com/nexusfield/missionpack/internal/manifest"
)

// Violation identifies a constraint dimension broken by a candidate subset.
type Violation string

const (
	ViolationWeightExceeded          Violation = "WEIGHT_EXCEEDED"
	ViolationVolumeExceeded          Violation = "VOLUME_EXCEEDED"
	ViolationItemCountExceeded       Violation = "ITEM_COUNT_EXCEEDED"
	ViolationCategoryMinUnmet        Violation = "CATEGORY_MIN_UNMET"
	ViolationCategoryMaxExceeded     Violation = "CATEGORY_MAX_EXCEEDED"
	ViolationRequiredCategoryMissing Violation = "REQUIRED_CATEGORY_MISSING"
)

// Totals accumulates the load of a partial selection during search. The
// solver extends Totals item by item; Check rebuilds them from scratch for
// post-hoc diagnostics. Both paths share the same admission primitives so
// they cannot disagree.
type Totals struct {
	Weight      float64
	Volume      float64
	Count       int
	PerCategory map[manifest.Category]int
}

// NewTotals returns an empty accumulator.
func NewTotals() Totals {
	return Totals{PerCategory: make(map[manifest.Category]int)}
}

// Add accumulates one item into the totals.
func (t *Totals) Add(it manifest.Item) {
	t.Weight += it.Weight
	t.Volume += it.Volume
	t.Count++
	t.PerCategory[it.Category]++
}

// Clone returns an independent copy of the totals.
func (t Totals) Clone() Totals {
	out := t
	out.PerCategory = make(map[manifest.Category]int, len(t.PerCategory))
	for k, v := range t.PerCategory {
		out.PerCategory[k] = v
	}
	return out
}

// Remove reverses Add, used by the local-search swap pass.
func (t *Totals) Remove(it manifest.Item) {
	t.Weight -= it.Weight
	t.Volume -= it.Volume
	t.Count--
	t.PerCategory[it.Category]--
}

// Admit reports whether an item can join the accumulated selection without
// breaking a hard bound, and the first violated dimension when it cannot.
// The rule order matches the rejection-reason policy: capacity first, then
// category quota, then item count.
func (c Constraints) Admit(t Totals, it manifest.Item) (bool, Violation) {
	if t.Weight+it.Weight > c.MaxWeight {
		return false, ViolationWeightExceeded
	}
	if t.Volume+it.Volume > c.MaxVolume {
		return false, ViolationVolumeExceeded
	}
	if maximum, ok := c.CategoryMax(it.Category); ok && t.PerCategory[it.Category]+1 > maximum {
		return false, ViolationCategoryMaxExceeded
	}
	if c.MaxItems > 0 && t.Count+1 > c.MaxItems {
		return false, ViolationItemCountExceeded
	}
	return true, ""
}

// Check validates a complete subset against the constraints, returning all
// violated dimensions in a fixed order. It is the single source of truth
// for feasibility: the solver's search admits items through the same
// primitives this function is built on.
func Check(items []manifest.Item, c Constraints) (bool, []Violation) {
	totals := NewTotals()
	for _, it := range items {
		totals.Add(it)
	}

	var violations []Violation
	if totals.Weight > c.MaxWeight {
		violations = append(violations, ViolationWeightExceeded)
	}
	if totals.Volume > c.MaxVolume {
		violations = append(violations, ViolationVolumeExceeded)
	}
	if c.MaxItems > 0 && totals.Count > c.MaxItems {
		violations = append(violations, ViolationItemCountExceeded)
	}
	if minUnmet(totals, c) {
		violations = append(violations, ViolationCategoryMinUnmet)
	}
	if maxExceeded(totals, c) {
		violations = append(violations, ViolationCategoryMaxExceeded)
	}
	if requiredMissing(totals, c) {
		violations = append(violations, ViolationRequiredCategoryMissing)
	}
	return len(violations) == 0, violations
}

func minUnmet(t Totals, c Constraints) bool {
	for cat, minimum := range c.CategoryMinimums {
		if t.PerCategory[cat] < minimum {
			return true
		}
	}
	return false
}

func maxExceeded(t Totals, c Constraints) bool {
	for cat, maximum := range c.CategoryMaximums {
		if t.PerCategory[cat] > maximum {
			return true
		}
	}
	return false
}

func requiredMissing(t Totals, c Constraints) bool {
	for _, cat := range c.SortedRequiredCategories() {
		if t.PerCategory[cat] == 0 {
			return true
		}
	}
	return false
}
