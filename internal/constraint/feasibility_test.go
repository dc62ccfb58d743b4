package constraint

import (
	"errors"
	"testing"

	"github.com/nexusfield/missionpack/internal/manifest"
)

func testItem(id string, cat manifest.Category, weight, volume float64) manifest.Item {
	return manifest.Item{
		ID:       id,
		Category: cat,
		Weight:   weight,
		Volume:   volume,
	}
}

func TestConstraintsValidate(t *testing.T) {
	t.Parallel()

	valid := Constraints{MaxWeight: 10, MaxVolume: 20, MaxItems: 5}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name string
		c    Constraints
	}{
		{name: "ZeroWeight", c: Constraints{MaxWeight: 0, MaxVolume: 1}},
		{name: "NegativeVolume", c: Constraints{MaxWeight: 1, MaxVolume: -1}},
		{name: "NegativeMaxItems", c: Constraints{MaxWeight: 1, MaxVolume: 1, MaxItems: -1}},
		{
			name: "MinAboveMax",
			c: Constraints{
				MaxWeight: 1, MaxVolume: 1,
				CategoryMinimums: map[manifest.Category]int{manifest.CategoryFood: 3},
				CategoryMaximums: map[manifest.Category]int{manifest.CategoryFood: 2},
			},
		},
		{
			name: "NegativeCategoryMinimum",
			c: Constraints{
				MaxWeight: 1, MaxVolume: 1,
				CategoryMinimums: map[manifest.Category]int{manifest.CategoryFood: -1},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.c.Validate(); !errors.Is(err, ErrInvalidConstraint) {
				t.Fatalf("expected ErrInvalidConstraint, got %v", err)
			}
		})
	}
}

func TestCheckViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []manifest.Item
		c     Constraints
		want  []Violation
	}{
		{
			name:  "AllWithinBounds",
			items: []manifest.Item{testItem("a", manifest.CategoryFood, 2, 3)},
			c:     Constraints{MaxWeight: 5, MaxVolume: 5},
			want:  nil,
		},
		{
			name:  "WeightExceeded",
			items: []manifest.Item{testItem("a", manifest.CategoryFood, 6, 1)},
			c:     Constraints{MaxWeight: 5, MaxVolume: 5},
			want:  []Violation{ViolationWeightExceeded},
		},
		{
			name:  "VolumeExceeded",
			items: []manifest.Item{testItem("a", manifest.CategoryFood, 1, 9)},
			c:     Constraints{MaxWeight: 5, MaxVolume: 5},
			want:  []Violation{ViolationVolumeExceeded},
		},
		{
			name: "ItemCountExceeded",
			items: []manifest.Item{
				testItem("a", manifest.CategoryFood, 1, 1),
				testItem("b", manifest.CategoryFood, 1, 1),
			},
			c:    Constraints{MaxWeight: 5, MaxVolume: 5, MaxItems: 1},
			want: []Violation{ViolationItemCountExceeded},
		},
		{
			name:  "CategoryMinUnmet",
			items: []manifest.Item{testItem("a", manifest.CategoryFood, 1, 1)},
			c: Constraints{
				MaxWeight: 5, MaxVolume: 5,
				CategoryMinimums: map[manifest.Category]int{manifest.CategoryWater: 1},
			},
			want: []Violation{ViolationCategoryMinUnmet},
		},
		{
			name: "CategoryMaxExceeded",
			items: []manifest.Item{
				testItem("a", manifest.CategoryTools, 1, 1),
				testItem("b", manifest.CategoryTools, 1, 1),
			},
			c: Constraints{
				MaxWeight: 5, MaxVolume: 5,
				CategoryMaximums: map[manifest.Category]int{manifest.CategoryTools: 1},
			},
			want: []Violation{ViolationCategoryMaxExceeded},
		},
		{
			name:  "RequiredCategoryMissing",
			items: []manifest.Item{testItem("a", manifest.CategoryFood, 1, 1)},
			c: Constraints{
				MaxWeight: 5, MaxVolume: 5,
				RequiredCategories: []manifest.Category{manifest.CategoryMedical},
			},
			want: []Violation{ViolationRequiredCategoryMissing},
		},
		{
			name:  "MultipleViolationsFixedOrder",
			items: []manifest.Item{testItem("a", manifest.CategoryFood, 9, 9)},
			c: Constraints{
				MaxWeight: 5, MaxVolume: 5,
				RequiredCategories: []manifest.Category{manifest.CategoryMedical},
			},
			want: []Violation{ViolationWeightExceeded, ViolationVolumeExceeded, ViolationRequiredCategoryMissing},
		},
		{
			name:  "EmptySubsetWithoutRequirements",
			items: nil,
			c:     Constraints{MaxWeight: 5, MaxVolume: 5},
			want:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ok, violations := Check(tc.items, tc.c)
			if ok != (len(tc.want) == 0) {
				t.Fatalf("ok=%v with violations %v", ok, violations)
			}
			if len(violations) != len(tc.want) {
				t.Fatalf("expected violations %v, got %v", tc.want, violations)
			}
			for i := range violations {
				if violations[i] != tc.want[i] {
					t.Fatalf("expected violations %v, got %v", tc.want, violations)
				}
			}
		})
	}
}

func TestAdmitRuleOrder(t *testing.T) {
	t.Parallel()

	c := Constraints{
		MaxWeight: 5, MaxVolume: 5, MaxItems: 1,
		CategoryMaximums: map[manifest.Category]int{manifest.CategoryTools: 0},
	}
	totals := NewTotals()
	totals.Add(testItem("base", manifest.CategoryFood, 4, 4))

	// Weight violation outranks everything else.
	if ok, v := c.Admit(totals, testItem("x", manifest.CategoryTools, 2, 2)); ok || v != ViolationWeightExceeded {
		t.Fatalf("expected weight violation first, got ok=%v v=%v", ok, v)
	}
	// Volume next.
	if ok, v := c.Admit(totals, testItem("x", manifest.CategoryTools, 0.5, 2)); ok || v != ViolationVolumeExceeded {
		t.Fatalf("expected volume violation, got ok=%v v=%v", ok, v)
	}
	// Category quota before item count.
	if ok, v := c.Admit(totals, testItem("x", manifest.CategoryTools, 0.5, 0.5)); ok || v != ViolationCategoryMaxExceeded {
		t.Fatalf("expected category max violation, got ok=%v v=%v", ok, v)
	}
	// Item count last.
	if ok, v := c.Admit(totals, testItem("x", manifest.CategoryFood, 0.5, 0.5)); ok || v != ViolationItemCountExceeded {
		t.Fatalf("expected item count violation, got ok=%v v=%v", ok, v)
	}
}

func TestTotalsAddRemoveClone(t *testing.T) {
	t.Parallel()

	totals := NewTotals()
	it := testItem("a", manifest.CategoryWater, 2, 3)
	totals.Add(it)

	clone := totals.Clone()
	clone.Remove(it)
	if clone.Count != 0 || clone.Weight != 0 || clone.Volume != 0 || clone.PerCategory[manifest.CategoryWater] != 0 {
		t.Fatalf("remove must reverse add: %+v", clone)
	}
	if totals.Count != 1 {
		t.Fatalf("clone must be independent of the original: %+v", totals)
	}
}

func TestSortedRequiredCategoriesDeduplicates(t *testing.T) {
	t.Parallel()

	c := Constraints{RequiredCategories: []manifest.Category{
		manifest.CategoryWater, manifest.CategoryMedical, manifest.CategoryWater,
	}}
	got := c.SortedRequiredCategories()
	if len(got) != 2 || got[0] != manifest.CategoryMedical || got[1] != manifest.CategoryWater {
		t.Fatalf("unexpected required categories: %v", got)
	}
}
