package manifest

import "sort"

// Category identifies the functional class of a packable item. The set is
// closed: items carrying a category outside this set fail validation.
type Category string

const (
	CategoryMedical       Category = "medical"
	CategoryShelter       Category = "shelter"
	CategoryFood          Category = "food"
	CategoryWater         Category = "water"
	CategoryClothing      Category = "clothing"
	CategoryTools         Category = "tools"
	CategoryNavigation    Category = "navigation"
	CategoryCommunication Category = "communication"
	CategoryFire          Category = "fire"
	CategoryHygiene       Category = "hygiene"
	CategoryMisc          Category = "misc"
)

// categoryInfo records the capabilities of a category instead of scattering
// per-category conditionals through the solver.
type categoryInfo struct {
	// coverage marks categories that participate in required-coverage
	// logic. Miscellaneous items never satisfy a coverage requirement.
	coverage bool
}

var categories = map[Category]categoryInfo{
	CategoryMedical:       {coverage: true},
	CategoryShelter:       {coverage: true},
	CategoryFood:          {coverage: true},
	CategoryWater:         {coverage: true},
	CategoryClothing:      {coverage: true},
	CategoryTools:         {coverage: true},
	CategoryNavigation:    {coverage: true},
	CategoryCommunication: {coverage: true},
	CategoryFire:          {coverage: true},
	CategoryHygiene:       {coverage: true},
	CategoryMisc:          {coverage: false},
}

// Known reports whether c is part of the closed category set.
func (c Category) Known() bool {
	_, ok := categories[c]
	return ok
}

// Coverage reports whether items of this category can satisfy a
// required-category constraint.
func (c Category) Coverage() bool {
	return categories[c].coverage
}

// Categories returns the full category set in lexicographic order.
func Categories() []Category {
	out := make([]Category, 0, len(categories))
	for c := range categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
