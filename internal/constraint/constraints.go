// Package constraint defines packing limits, the preset registry, and the
// feasibility checker shared by the solver and post-hoc diagnostics.
package constraint

import (
	"fmt"
	"math"
	"sort"

	"github.com/nexusfield/missionpack/internal/manifest"
)

// Constraints is a fully-populated bundle of packing limits. A zero
// MaxItems means the item count is unbounded.
type Constraints struct {
	MaxWeight            float64
	MaxVolume            float64
	MaxItems             int
	RequiredCategories   []manifest.Category
	CategoryMinimums     map[manifest.Category]int
	CategoryMaximums     map[manifest.Category]int
	MissionDurationHours int
	PresetName           string
}

// Overrides carries caller-supplied partial replacements for a preset.
// Nil fields retain the preset value.
type Overrides struct {
	MaxWeight            *float64
	MaxVolume            *float64
	MaxItems             *int
	RequiredCategories   []manifest.Category
	CategoryMinimums     map[manifest.Category]int
	CategoryMaximums     map[manifest.Category]int
	MissionDurationHours *int
}

// Validate checks the constraint invariants.
func (c Constraints) Validate() error {
	if math.IsNaN(c.MaxWeight) || math.IsInf(c.MaxWeight, 0) || c.MaxWeight <= 0 {
		return fmt.Errorf("%w: max_weight %v must be positive and finite", ErrInvalidConstraint, c.MaxWeight)
	}
	if math.IsNaN(c.MaxVolume) || math.IsInf(c.MaxVolume, 0) || c.MaxVolume <= 0 {
		return fmt.Errorf("%w: max_volume %v must be positive and finite", ErrInvalidConstraint, c.MaxVolume)
	}
	if c.MaxItems < 0 {
		return fmt.Errorf("%w: max_items %d must be non-negative", ErrInvalidConstraint, c.MaxItems)
	}
	for cat, minimum := range c.CategoryMinimums {
		if minimum < 0 {
			return fmt.Errorf("%w: category minimum for %q must be non-negative", ErrInvalidConstraint, cat)
		}
	}
	for cat, maximum := range c.CategoryMaximums {
		if maximum < 0 {
			return fmt.Errorf("%w: category maximum for %q must be non-negative", ErrInvalidConstraint, cat)
		}
	}
	for cat, minimum := range c.CategoryMinimums {
		if maximum, ok := c.CategoryMaximums[cat]; ok && minimum > maximum {
			return fmt.Errorf("%w: category %q minimum %d exceeds maximum %d", ErrInvalidConstraint, cat, minimum, maximum)
		}
	}
	return nil
}

// Clone returns a deep copy so callers can mutate their view without
// touching registry data.
func (c Constraints) Clone() Constraints {
	out := c
	out.RequiredCategories = append([]manifest.Category(nil), c.RequiredCategories...)
	out.CategoryMinimums = cloneCounts(c.CategoryMinimums)
	out.CategoryMaximums = cloneCounts(c.CategoryMaximums)
	return out
}

// SortedRequiredCategories returns the required category set deduplicated
// and in lexicographic order, the order mandatory coverage is processed in.
func (c Constraints) SortedRequiredCategories() []manifest.Category {
	seen := make(map[manifest.Category]struct{}, len(c.RequiredCategories))
	out := make([]manifest.Category, 0, len(c.RequiredCategories))
	for _, cat := range c.RequiredCategories {
		if _, dup := seen[cat]; dup {
			continue
		}
		seen[cat] = struct{}{}
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CategoryMax returns the count bound for a category and whether one is set.
func (c Constraints) CategoryMax(cat manifest.Category) (int, bool) {
	maximum, ok := c.CategoryMaximums[cat]
	return maximum, ok
}

func (o Overrides) apply(c Constraints) Constraints {
	out := c.Clone()
	if o.MaxWeight != nil {
		out.MaxWeight = *o.MaxWeight
	}
	if o.MaxVolume != nil {
		out.MaxVolume = *o.MaxVolume
	}
	if o.MaxItems != nil {
		out.MaxItems = *o.MaxItems
	}
	if o.RequiredCategories != nil {
		out.RequiredCategories = append([]manifest.Category(nil), o.RequiredCategories...)
	}
	if o.CategoryMinimums != nil {
		out.CategoryMinimums = cloneCounts(o.CategoryMinimums)
	}
	if o.CategoryMaximums != nil {
		out.CategoryMaximums = cloneCounts(o.CategoryMaximums)
	}
	if o.MissionDurationHours != nil {
		out.MissionDurationHours = *o.MissionDurationHours
	}
	return out
}

func cloneCounts(src map[manifest.Category]int) map[manifest.Category]int {
	if src == nil {
		return nil
	}
	out := make(map[manifest.Category]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
